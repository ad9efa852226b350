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

// Package compiler turns route pattern strings into immutable segment
// sequences consumed by the matchers.
//
// # Segments
//
// A pattern is split on '/' (slashes inside a parameter constraint do not
// split) and every piece becomes a Segment:
//
//	/users/:id{\d+}/files/:path{.+}
//	 │     │         │     └─ KindRestParam: constraint can match '/'
//	 │     │         └─ KindStatic
//	 │     └─ KindParam with an anchored constraint
//	 └─ KindStatic
//
// A lone '*' is KindRest when it ends the pattern and KindWildcard (exactly
// one segment) anywhere else. ':name?' marks an optional parameter.
//
// # Constraints
//
// Constraints are compiled once, anchored as ^(?:expr)$, and evaluated on
// Go's RE2 engine, which has no backtracking. Programs larger than
// MaxRegexInstructions are rejected with ErrRegexTooComplex.
//
// # Spans
//
// Each segment consumes a range of path segments (see Segment.Span).
// Matchers use the span ranges to decide whether a path can be split
// across the pattern in exactly one way.
//
// # Composition
//
// Join concatenates a base-path pattern and a pattern mounted under it.
// Parameter names are unique per scope, not per joined pattern.
package compiler
