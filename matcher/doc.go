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

// Package matcher resolves request paths against a route table.
//
// Two strategies implement the Matcher interface:
//
//   - Linear walks every candidate route in registration order. It handles
//     every pattern the compiler accepts.
//   - Indexed walks a per-method segment tree, static edges first, and keeps
//     fully static paths in a map behind a bloom filter. It produces the same
//     results as Linear and refuses, with ErrIndexRefused, the few patterns it
//     cannot represent (see Indexed).
//
// Routing is multi-match: every route matching the path is returned, in
// registration order, so middleware registered under MethodAll and a
// terminal handler come back together.
//
// # Ambiguity
//
// A route matches when the path can be split across its segments in exactly
// one way. Optional parameters and multi-segment parts can make more than one
// split possible, for example "/files/:dir?/*" against "/files/a". Instead of
// picking one, Match fails with an *UnsupportedPathError wrapping
// ErrAmbiguousPath. Constraints take part in the decision: "/:n{\d+}?/:s?"
// against "/x" is not ambiguous because "x" is not a number.
//
// # Parameters
//
// Matches carry Params: slots pointing into the Captures shared by the whole
// lookup. Values are percent-decoded on access unless WithRawParams is set.
// Static segments always compare against the raw path text.
package matcher
