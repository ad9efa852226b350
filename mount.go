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

// mountCfg holds configuration for a mounted sub-router.
type mountCfg[T any] struct {
	middleware []T
}

// MountOption configures how a sub-router is mounted.
type MountOption[T any] func(*mountCfg[T])

// WithMiddleware prepends handlers to every mounted route.
func WithMiddleware[T any](handlers ...T) MountOption[T] {
	return func(cfg *mountCfg[T]) {
		cfg.middleware = append(cfg.middleware, handlers...)
	}
}

// Mount copies every route of sub into r under base, keeping sub's
// registration order. base may contain parameters; they merge with the
// parameters of each mounted route, and on a name collision the mounted
// route's value wins:
//
//	books := pathmatch.MustNew[string]()
//	books.Add("GET", "/books/:id", "book")
//	r.Mount("/foo/:foo", books) // GET /foo/:foo/books/:id, params {foo, id}
//
// Routes registered on sub after Mount are not copied.
func (r *Router[T]) Mount(base string, sub *Router[T], opts ...MountOption[T]) error {
	if sub == nil {
		return ErrNilSubRouter
	}

	prefix, err := compiler.Compile(base)
	if err != nil {
		return err
	}

	cfg := &mountCfg[T]{}
	for _, opt := range opts {
		opt(cfg)
	}

	routes := sub.Table().Routes()
	entries := make([]route.Entry[T], 0, len(routes))
	for _, rt := range routes {
		entries = append(entries, route.Entry[T]{
			Method:   rt.Method(),
			Pattern:  compiler.Join(prefix, rt.Pattern()),
			Handlers: append(slices.Clip(cfg.middleware), rt.Handlers()...),
		})
	}
	if len(entries) == 0 {
		return nil
	}

	r.cfg.logger.Debug("mounting sub-router", "base", prefix.String(), "routes", len(entries))
	return r.register(entries...)
}
