// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package route holds registered routes and the immutable tables that
// order them.
//
// Every route receives a global sequence number when it is added. Sequence
// numbers are the only precedence rule: a lookup returns matching routes in
// the order they were registered, with MethodAll routes interleaved among
// the routes of the requested method.
//
//	t := route.NewTable[string]()
//	t, _ = t.With(route.MethodAll, compiler.MustCompile("*"), []string{"logger"})
//	t, _ = t.With("GET", compiler.MustCompile("/users/:id"), []string{"getUser"})
//
//	for r := range t.Candidates("GET") {
//		fmt.Println(r.Seq(), r) // 0 ALL /*, then 1 GET /users/:id
//	}
package route
