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

// DiagnosticEvent represents a router diagnostic.
// Diagnostics are informational; the router behaves the same whether they
// are collected or not.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagRouteRegistered is emitted for every registered route.
	DiagRouteRegistered DiagnosticKind = "route_registered"

	// DiagRouteRefusedByIndex is emitted when the indexed matcher cannot
	// represent a route. Lookups reaching it fail with ErrIndexRefused
	// unless WithLinearFallback is set.
	DiagRouteRefusedByIndex DiagnosticKind = "route_refused_by_index"

	// DiagAmbiguousPattern is emitted for a pattern with more than one
	// optional or multi-segment part. Some paths may then split across the
	// pattern in several ways and fail with ErrAmbiguousPath.
	DiagAmbiguousPattern DiagnosticKind = "ambiguous_pattern"

	// DiagLookupFallback is emitted when a refused lookup is retried with
	// the linear matcher.
	DiagLookupFallback DiagnosticKind = "lookup_fallback"
)

// DiagnosticHandler receives diagnostic events from the router.
//
// Example with logging:
//
//	handler := pathmatch.DiagnosticHandlerFunc(func(e pathmatch.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	r := pathmatch.MustNew[string](pathmatch.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

// OnDiagnostic calls f(e).
func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}
