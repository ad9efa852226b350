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

package pathmatch

import (
	"slices"

	"rivaas.dev/pathmatch/compiler"
	"rivaas.dev/pathmatch/route"
)

// Group registers routes under a shared base pattern and shared handlers.
// The base pattern may contain parameters; a name used both by the base and
// by a route resolves to the route's value.
//
// Example:
//
//	api := r.Group("/api/:version", auth)
//	api.Add("GET", "/users/:id", getUser) // GET /api/:version/users/:id -> auth, getUser
type Group[T any] struct {
	router   *Router[T]
	prefix   *compiler.Pattern
	handlers []T
	err      error // Deferred prefix compilation error
}

// Group creates a route group. Handlers run before the handlers of every
// route added through the group. An invalid prefix is reported by the
// first registration through the group.
func (r *Router[T]) Group(prefix string, handlers ...T) *Group[T] {
	p, err := compiler.Compile(prefix)
	return &Group[T]{router: r, prefix: p, handlers: slices.Clip(handlers), err: err}
}

// Group creates a nested group.
func (g *Group[T]) Group(prefix string, handlers ...T) *Group[T] {
	if g.err != nil {
		return &Group[T]{router: g.router, err: g.err}
	}
	p, err := compiler.Compile(prefix)
	if err != nil {
		return &Group[T]{router: g.router, err: err}
	}
	return &Group[T]{
		router:   g.router,
		prefix:   compiler.Join(g.prefix, p),
		handlers: append(slices.Clip(g.handlers), handlers...),
	}
}

// Add registers handlers for method and the group prefix joined with pattern.
func (g *Group[T]) Add(method, pattern string, handlers ...T) error {
	if g.err != nil {
		return g.err
	}
	p, err := compiler.Compile(pattern)
	if err != nil {
		return err
	}
	return g.router.register(route.Entry[T]{
		Method:   method,
		Pattern:  compiler.Join(g.prefix, p),
		Handlers: append(slices.Clip(g.handlers), handlers...),
	})
}

// All registers handlers for pattern under every method.
func (g *Group[T]) All(pattern string, handlers ...T) error {
	return g.Add(route.MethodAll, pattern, handlers...)
}

// Use registers handlers for every path below the group prefix.
func (g *Group[T]) Use(handlers ...T) error {
	return g.All("*", handlers...)
}

// Prefix returns the group's base pattern, or "" if it is invalid.
func (g *Group[T]) Prefix() string {
	if g.prefix == nil {
		return ""
	}
	return g.prefix.String()
}
