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

package route

import "rivaas.dev/pathmatch/compiler"

// MethodAll is the method key of routes that match every request method.
const MethodAll = "ALL"

// Route is a registered route: a compiled pattern bound to a handler list
// under one method. Routes are immutable and owned by the Table that
// created them.
type Route[T any] struct {
	seq      int
	method   string
	pattern  *compiler.Pattern
	handlers []T
}

// Seq returns the global registration sequence number, starting at 0.
// Sequence numbers order every route of a table, across methods.
func (r *Route[T]) Seq() int {
	return r.seq
}

// Method returns the method the route was registered under.
func (r *Route[T]) Method() string {
	return r.method
}

// Pattern returns the compiled pattern.
func (r *Route[T]) Pattern() *compiler.Pattern {
	return r.pattern
}

// Handlers returns the handler list. Callers must not modify it.
func (r *Route[T]) Handlers() []T {
	return r.handlers
}

// IsAll reports whether the route was registered for every method.
func (r *Route[T]) IsAll() bool {
	return r.method == MethodAll
}

// String returns "METHOD /pattern".
func (r *Route[T]) String() string {
	return r.method + " " + r.pattern.String()
}

// Entry describes a route to add to a Table.
type Entry[T any] struct {
	Method   string
	Pattern  *compiler.Pattern
	Handlers []T
}
