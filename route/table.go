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

import (
	"iter"
	"maps"
	"slices"

	"rivaas.dev/pathmatch/compiler"
)

// Table is an immutable snapshot of registered routes.
//
// Adding routes never mutates a table; With and Extend return a new snapshot
// that shares route pointers with its parent. A table can therefore be read
// from any number of goroutines while a newer snapshot is being built.
type Table[T any] struct {
	routes   []*Route[T]            // All routes; routes[i].seq == i
	byMethod map[string][]*Route[T] // Per method key (MethodAll included), in seq order
}

// NewTable returns an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{byMethod: map[string][]*Route[T]{}}
}

// With returns a new table containing every route of t plus one route for
// method and p. The new route receives the next sequence number.
// Duplicate (method, pattern) pairs are kept; both fire.
func (t *Table[T]) With(method string, p *compiler.Pattern, handlers []T) (*Table[T], *Route[T]) {
	next := t.Extend(Entry[T]{Method: method, Pattern: p, Handlers: handlers})
	return next, next.routes[len(next.routes)-1]
}

// Extend returns a new table with entries appended in order.
func (t *Table[T]) Extend(entries ...Entry[T]) *Table[T] {
	next := &Table[T]{
		// Clip so appends never write into a backing array another snapshot can see.
		routes:   slices.Clip(t.routes),
		byMethod: maps.Clone(t.byMethod),
	}
	if next.byMethod == nil {
		next.byMethod = map[string][]*Route[T]{}
	}

	touched := make(map[string]bool, len(entries))
	for _, e := range entries {
		r := &Route[T]{
			seq:      len(next.routes),
			method:   e.Method,
			pattern:  e.Pattern,
			handlers: slices.Clip(e.Handlers),
		}
		next.routes = append(next.routes, r)

		list := next.byMethod[e.Method]
		if !touched[e.Method] {
			list = slices.Clip(list)
			touched[e.Method] = true
		}
		next.byMethod[e.Method] = append(list, r)
	}

	return next
}

// Len returns the number of routes.
func (t *Table[T]) Len() int {
	return len(t.routes)
}

// Routes returns every route in registration order. Callers must not modify
// the returned slice.
func (t *Table[T]) Routes() []*Route[T] {
	return t.routes
}

// Route returns the route with sequence number seq, or nil.
func (t *Table[T]) Route(seq int) *Route[T] {
	if seq < 0 || seq >= len(t.routes) {
		return nil
	}
	return t.routes[seq]
}

// Concrete returns the routes registered exactly under method, without the
// MethodAll routes. Callers must not modify the returned slice.
func (t *Table[T]) Concrete(method string) []*Route[T] {
	return t.byMethod[method]
}

// Methods returns the method keys that have routes, sorted, MethodAll excluded.
func (t *Table[T]) Methods() []string {
	methods := make([]string, 0, len(t.byMethod))
	for m := range t.byMethod {
		if m != MethodAll {
			methods = append(methods, m)
		}
	}
	slices.Sort(methods)
	return methods
}

// Keys returns every method key that has routes, MethodAll included, sorted.
func (t *Table[T]) Keys() []string {
	return slices.Sorted(maps.Keys(t.byMethod))
}

// Candidates yields the routes that apply to method in registration order:
// the routes of method merged with the MethodAll routes by sequence number.
func (t *Table[T]) Candidates(method string) iter.Seq[*Route[T]] {
	own := t.byMethod[method]
	var all []*Route[T]
	if method != MethodAll {
		all = t.byMethod[MethodAll]
	}

	return func(yield func(*Route[T]) bool) {
		i, j := 0, 0
		for i < len(own) || j < len(all) {
			var r *Route[T]
			if j >= len(all) || (i < len(own) && own[i].seq < all[j].seq) {
				r = own[i]
				i++
			} else {
				r = all[j]
				j++
			}
			if !yield(r) {
				return
			}
		}
	}
}

// RoutesFor returns Candidates(method) collected into a slice.
func (t *Table[T]) RoutesFor(method string) []*Route[T] {
	return slices.Collect(t.Candidates(method))
}
