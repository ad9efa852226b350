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

package compiler

import "regexp"

// SegmentKind identifies how a pattern segment consumes path segments.
type SegmentKind uint8

const (
	// KindStatic matches one path segment with exactly the same text.
	KindStatic SegmentKind = iota
	// KindParam captures one non-empty path segment, optionally constrained.
	KindParam
	// KindWildcard is a non-terminal '*': any single path segment, unnamed.
	KindWildcard
	// KindRest is a terminal '*': zero or more trailing path segments, unnamed.
	KindRest
	// KindRestParam is a named capture whose constraint can match '/'.
	// It consumes one or more whole path segments.
	KindRestParam
)

// Unbounded is the upper span of segments that can consume any number of path segments.
const Unbounded = -1

// String returns the kind name used in diagnostics.
func (k SegmentKind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindParam:
		return "param"
	case KindWildcard:
		return "wildcard"
	case KindRest:
		return "rest"
	case KindRestParam:
		return "rest-param"
	default:
		return "unknown"
	}
}

// Segment is one compiled unit of a route pattern.
// Segments are immutable once the pattern is compiled.
type Segment struct {
	Kind     SegmentKind
	Text     string // Literal text for static segments, parameter name otherwise
	Pattern  string // Constraint source as written, without anchors
	Optional bool   // ':name?' may consume zero segments
	Scope    int    // Composition depth; mount prefixes have lower scopes than what they mount

	re *regexp.Regexp // Anchored constraint, nil when unconstrained
}

// Named reports whether the segment binds a parameter.
func (s *Segment) Named() bool {
	return s.Kind == KindParam || s.Kind == KindRestParam
}

// Variable reports whether the number of path segments consumed is not fixed.
func (s *Segment) Variable() bool {
	return s.Optional || s.Kind == KindRest || s.Kind == KindRestParam
}

// Span returns the minimum and maximum number of path segments the segment
// consumes. The maximum is Unbounded for rest segments.
func (s *Segment) Span() (lo, hi int) {
	switch {
	case s.Kind == KindRest:
		return 0, Unbounded
	case s.Kind == KindRestParam:
		return 1, Unbounded
	case s.Optional:
		return 0, 1
	default:
		return 1, 1
	}
}

// Rest reports whether the segment can consume more than one path segment.
func (s *Segment) Rest() bool {
	return s.Kind == KindRest || s.Kind == KindRestParam
}

// Regexp returns the anchored constraint or nil.
func (s *Segment) Regexp() *regexp.Regexp {
	return s.re
}

// Accepts reports whether value satisfies the segment.
// For multi-segment kinds value is the raw text spanned, slashes included.
func (s *Segment) Accepts(value string) bool {
	switch s.Kind {
	case KindStatic:
		return value == s.Text
	case KindWildcard, KindRest:
		return true
	case KindParam, KindRestParam:
		if value == "" {
			return false
		}
		return s.re == nil || s.re.MatchString(value)
	default:
		return false
	}
}

// MatchKey returns a string that is equal for two segments exactly when they
// accept the same path text. Parameter names and scopes are ignored.
func (s *Segment) MatchKey() string {
	switch s.Kind {
	case KindStatic:
		return "s:" + s.Text
	case KindParam, KindRestParam:
		return "p:" + s.Pattern
	default:
		return "*"
	}
}
