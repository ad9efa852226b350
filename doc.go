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

// Package pathmatch is a path-pattern router that returns every route
// matching a request, in registration order, with the parameters each
// route extracted.
//
// Unlike a first-match router, a lookup does not pick a winner: a catch-all
// middleware registered under every method, a prefix handler and a final
// endpoint can all match the same request, and the caller runs their
// handlers in the order returned.
//
// # Patterns
//
//	/book             static segment, compared byte for byte
//	/book/:id         named parameter, one non-empty segment
//	/book/:id?        optional parameter, zero or one segment
//	/book/:id{[0-9]+} parameter constrained by an anchored regular expression
//	/docs/:path{.+}   constraint that may span segments ("a/b/c")
//	/wild/*/card      wildcard, exactly one segment, not captured
//	/static/*         terminal wildcard, zero or more segments
//
// # Lookup
//
//	r := pathmatch.MustNew[http.HandlerFunc]()
//	r.All("*", logRequest)
//	r.Add("GET", "/entry/:id/:action", showEntry)
//
//	res, err := r.Match("GET", "/entry/123/show")
//	if err != nil {
//	    // *UnsupportedPathError: the path splits across a pattern in
//	    // more than one way, or the index cannot represent a route.
//	}
//	for _, m := range res.Matches {
//	    id := m.Params.Value("id")
//	    ...
//	}
//
// Two matchers implement the same contract. The linear matcher tests
// every route in order. The indexed matcher, the default, walks a segment
// tree and a static-path map; it refuses a few pattern shapes it cannot
// represent, and WithLinearFallback retries those lookups linearly.
//
// # Concurrency
//
// Registration and lookup may run concurrently. Each registration publishes
// a new immutable snapshot of the route table; Match reads the latest one
// without locking. Freeze builds the matcher eagerly and rejects later
// registrations.
package pathmatch
