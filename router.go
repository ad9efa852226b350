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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"rivaas.dev/pathmatch/compiler"
	"rivaas.dev/pathmatch/matcher"
	"rivaas.dev/pathmatch/route"
)

// noopLogger is the logger used when WithLogger is not set.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Router registers routes and resolves (method, path) pairs against them.
//
// Registration is serialized by a mutex and publishes a new immutable
// snapshot of the route table; Match never locks. The matcher for a
// snapshot is built on the first lookup that needs it, or by Freeze.
type Router[T any] struct {
	mu     sync.Mutex // Serializes registration
	snap   atomic.Pointer[snapshot[T]]
	frozen atomic.Bool

	cfg config
	obs *instruments
}

// snapshot is one published route table with its lazily built matchers.
type snapshot[T any] struct {
	table *route.Table[T]

	once    sync.Once
	matcher matcher.Matcher[T]

	linearOnce sync.Once
	linear     *matcher.Linear[T]
}

// New creates a router. Invalid options are reported together.
//
// Example:
//
//	r, err := pathmatch.New[http.HandlerFunc](
//	    pathmatch.WithStrategy(matcher.StrategyIndexed),
//	    pathmatch.WithLogger(slog.Default()),
//	)
func New[T any](opts ...Option) (*Router[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	obs, err := newInstruments(cfg.meterProvider)
	if err != nil {
		return nil, err
	}

	r := &Router[T]{cfg: cfg, obs: obs}
	r.snap.Store(&snapshot[T]{table: route.NewTable[T]()})
	return r, nil
}

// MustNew is like New but panics on invalid options.
func MustNew[T any](opts ...Option) *Router[T] {
	r, err := New[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("pathmatch.MustNew: %v", err))
	}
	return r
}

// Add registers handlers for method and pattern. Registration order is the
// order in which matching routes are returned. Duplicate (method, pattern)
// pairs are allowed and all fire. Invalid patterns fail with *PatternError
// and leave the router unchanged.
func (r *Router[T]) Add(method, pattern string, handlers ...T) error {
	p, err := compiler.Compile(pattern)
	if err != nil {
		r.cfg.logger.Warn("route pattern rejected", "method", method, "pattern", pattern, "error", err)
		return err
	}
	return r.register(route.Entry[T]{Method: method, Pattern: p, Handlers: handlers})
}

// All registers handlers for pattern under every method.
func (r *Router[T]) All(pattern string, handlers ...T) error {
	return r.Add(route.MethodAll, pattern, handlers...)
}

// Use registers handlers that run for every request: All("*", handlers...).
func (r *Router[T]) Use(handlers ...T) error {
	return r.All("*", handlers...)
}

// register appends entries atomically: either every entry is published or none.
func (r *Router[T]) register(entries ...route.Entry[T]) error {
	for _, e := range entries {
		if e.Method == "" {
			return fmt.Errorf("%w: pattern %q", ErrEmptyMethod, e.Pattern.String())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() {
		return ErrRouterFrozen
	}

	prev := r.snap.Load().table
	next := prev.Extend(entries...)
	r.snap.Store(&snapshot[T]{table: next})

	for _, rt := range next.Routes()[prev.Len():] {
		r.cfg.logger.Debug("route registered", "seq", rt.Seq(), "method", rt.Method(), "pattern", rt.Pattern().String())
		r.obs.routeRegistered(rt.Method())
		r.emit(DiagRouteRegistered, "route registered", map[string]any{
			"seq":     rt.Seq(),
			"method":  rt.Method(),
			"pattern": rt.Pattern().String(),
		})
		if rt.Pattern().Variable() > 1 {
			r.cfg.logger.Warn("pattern may be ambiguous", "method", rt.Method(), "pattern", rt.Pattern().String())
			r.emit(DiagAmbiguousPattern, "pattern has more than one optional or multi-segment part", map[string]any{
				"method":   rt.Method(),
				"pattern":  rt.Pattern().String(),
				"variable": rt.Pattern().Variable(),
			})
		}
	}

	return nil
}

// Match returns every route matching method and path in registration order.
// Method comparison is case-sensitive. It fails only with *UnsupportedPathError.
func (r *Router[T]) Match(method, path string) (*matcher.Result[T], error) {
	start := r.obs.start()
	s := r.snap.Load()
	m := r.matcherFor(s)

	res, err := m.Match(method, path)
	strategy := m.Strategy()

	if err != nil && r.cfg.linearFallback && errors.Is(err, ErrIndexRefused) {
		r.cfg.logger.Debug("index refused lookup, retrying linearly", "method", method, "path", path, "error", err)
		r.emit(DiagLookupFallback, "lookup retried with the linear matcher", map[string]any{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		res, err = r.linearFor(s).Match(method, path)
		strategy = matcher.StrategyLinear
	}

	r.obs.lookup(strategy, outcomeOf(res, err), start)
	return res, err
}

// matcherFor returns the configured matcher of s, building it once.
func (r *Router[T]) matcherFor(s *snapshot[T]) matcher.Matcher[T] {
	s.once.Do(func() {
		if r.cfg.strategy == matcher.StrategyLinear {
			s.matcher = r.linearFor(s)
			return
		}

		idx := matcher.NewIndexed(s.table, r.cfg.matcherOptions()...)
		for _, ref := range idx.Refused() {
			r.cfg.logger.Debug("route refused by index", "seq", ref.Seq, "method", ref.Method, "pattern", ref.Pattern, "reason", ref.Reason)
			r.emit(DiagRouteRefusedByIndex, "route cannot be indexed", map[string]any{
				"seq":     ref.Seq,
				"method":  ref.Method,
				"pattern": ref.Pattern,
				"reason":  ref.Reason,
			})
		}
		s.matcher = idx
	})
	return s.matcher
}

func (r *Router[T]) linearFor(s *snapshot[T]) *matcher.Linear[T] {
	s.linearOnce.Do(func() {
		s.linear = matcher.NewLinear(s.table, r.cfg.matcherOptions()...)
	})
	return s.linear
}

// Freeze builds the matcher for the current routes and rejects every later
// registration with ErrRouterFrozen. It is safe to call more than once.
func (r *Router[T]) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frozen.Store(true)
	r.matcherFor(r.snap.Load())
}

// Frozen reports whether Freeze has been called.
func (r *Router[T]) Frozen() bool {
	return r.frozen.Load()
}

// Strategy returns the configured matcher strategy.
func (r *Router[T]) Strategy() matcher.Strategy {
	return r.cfg.strategy
}

// Table returns the current route table snapshot.
func (r *Router[T]) Table() *route.Table[T] {
	return r.snap.Load().table
}

// Refused returns the routes the indexed matcher cannot represent.
// It is empty for the linear strategy.
func (r *Router[T]) Refused() []matcher.Refusal {
	if idx, ok := r.matcherFor(r.snap.Load()).(*matcher.Indexed[T]); ok {
		return idx.Refused()
	}
	return nil
}

// emit sends a diagnostic event if a handler is configured.
func (r *Router[T]) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if r.cfg.diagnostics != nil {
		r.cfg.diagnostics.OnDiagnostic(DiagnosticEvent{
			Kind:    kind,
			Message: message,
			Fields:  fields,
		})
	}
}
