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

package matcher

import (
	"slices"
	"strings"

	"rivaas.dev/pathmatch/route"
)

// Match is one matched route with its parameters.
type Match[T any] struct {
	Route  *route.Route[T]
	Params Params
}

// Handlers returns the handler list of the matched route.
func (m Match[T]) Handlers() []T {
	return m.Route.Handlers()
}

// Group is a run of matches sharing the same set of parameter names.
type Group[T any] struct {
	Names   []string // Sorted parameter names
	Matches []Match[T]
}

// Result is the outcome of one lookup.
type Result[T any] struct {
	// Matches holds every matching route in registration order.
	Matches []Match[T]

	// Routed reports whether a route of the requested method itself matched,
	// as opposed to MethodAll routes only.
	Routed bool

	// Allowed lists, sorted, the other concrete methods with a route matching
	// the path. Filled only when Routed is false.
	Allowed []string
}

// Empty reports whether nothing matched.
func (r *Result[T]) Empty() bool {
	return len(r.Matches) == 0
}

// MethodNotAllowed reports whether the path is routed under other methods
// but not under the requested one.
func (r *Result[T]) MethodNotAllowed() bool {
	return !r.Routed && len(r.Allowed) > 0
}

// Handlers returns the handlers of every match, concatenated in order.
func (r *Result[T]) Handlers() []T {
	n := 0
	for _, m := range r.Matches {
		n += len(m.Route.Handlers())
	}
	out := make([]T, 0, n)
	for _, m := range r.Matches {
		out = append(out, m.Route.Handlers()...)
	}
	return out
}

// Groups merges matches with identical parameter-name sets. Groups are
// ordered by first appearance; matches keep registration order inside a group.
func (r *Result[T]) Groups() []Group[T] {
	var groups []Group[T]
	index := make(map[string]int, len(r.Matches))

	for _, m := range r.Matches {
		names := m.Params.Names()
		key := strings.Join(names, "\x00")
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group[T]{Names: names})
		}
		groups[i].Matches = append(groups[i].Matches, m)
	}
	return groups
}

// Summary is a handler-free description of one match, comparable across
// matchers and suitable for printing.
type Summary struct {
	Seq     int     `json:"seq"`
	Method  string  `json:"method"`
	Pattern string  `json:"pattern"`
	Params  []Param `json:"params,omitempty"`
}

// Summarize describes every match.
func (r *Result[T]) Summarize() []Summary {
	out := make([]Summary, 0, len(r.Matches))
	for _, m := range r.Matches {
		out = append(out, Summary{
			Seq:     m.Route.Seq(),
			Method:  m.Route.Method(),
			Pattern: m.Route.Pattern().String(),
			Params:  m.Params.All(),
		})
	}
	return out
}

// finish sorts matches by sequence and derives Routed.
func (r *Result[T]) finish() {
	slices.SortFunc(r.Matches, func(a, b Match[T]) int {
		return a.Route.Seq() - b.Route.Seq()
	})
	for _, m := range r.Matches {
		if !m.Route.IsAll() {
			r.Routed = true
			return
		}
	}
}
