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

import (
	"fmt"
	"strings"
)

// Pattern is a compiled route pattern.
// It pre-computes the segment structure during registration so matchers
// never parse pattern text on the lookup path. Patterns are immutable and
// safe for concurrent use.
type Pattern struct {
	raw      string
	segments []Segment

	names    []string // Unique parameter names in declaration order
	variable int      // Number of variable-span segments
	optional int      // Number of optional parameters
	minSpan  int      // Fewest path segments that can match
	maxSpan  int      // Most path segments that can match, or Unbounded
	static   bool     // Only static segments
}

// Compile compiles a route pattern.
//
// Syntax, per '/'-separated segment:
//
//	users          static text
//	:id            parameter, one non-empty segment
//	:id?           optional parameter, zero or one segment
//	:id{\d+}       parameter constrained by an anchored regular expression
//	:path{.+}      constraint that can match '/': captures one or more segments
//	*              wildcard: one segment, or the remainder when last
//
// The empty pattern and "/" compile to the root pattern. Leading and trailing
// slashes are not significant. Errors are always *PatternError.
func Compile(pattern string) (*Pattern, error) {
	raw := normalize(pattern)

	parts, err := split(raw)
	if err != nil {
		return nil, &PatternError{Pattern: raw, Err: err}
	}

	segments := make([]Segment, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for i, part := range parts {
		seg, err := parseSegment(part, i == len(parts)-1)
		if err != nil {
			return nil, &PatternError{Pattern: raw, Segment: part, Err: err}
		}
		if seg.Named() {
			if _, dup := seen[seg.Text]; dup {
				return nil, &PatternError{
					Pattern: raw,
					Segment: part,
					Err:     fmt.Errorf("%w: %q", ErrDuplicateParam, seg.Text),
				}
			}
			seen[seg.Text] = struct{}{}
		}
		segments = append(segments, seg)
	}

	return newPattern(raw, segments), nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
// It simplifies safe initialization of global variables holding patterns.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic("compiler: " + err.Error())
	}
	return p
}

// Join composes a base-path pattern with a pattern registered under it.
// Inner segments get higher scopes than every outer segment, so a parameter
// name may appear on both sides; extraction lets the inner binding win.
// A trailing '*' of outer stops being terminal and becomes a one-segment wildcard.
func Join(outer, inner *Pattern) *Pattern {
	if len(inner.segments) == 0 {
		return outer
	}
	if len(outer.segments) == 0 {
		return inner
	}

	shift := outer.maxScope() + 1
	segments := make([]Segment, 0, len(outer.segments)+len(inner.segments))
	segments = append(segments, outer.segments...)
	if last := &segments[len(segments)-1]; last.Kind == KindRest {
		last.Kind = KindWildcard
	}
	for _, seg := range inner.segments {
		seg.Scope += shift
		segments = append(segments, seg)
	}

	return newPattern(strings.TrimSuffix(outer.raw, "/")+inner.raw, segments)
}

func newPattern(raw string, segments []Segment) *Pattern {
	p := &Pattern{
		raw:      raw,
		segments: segments,
		static:   true,
	}

	seen := make(map[string]struct{}, len(segments))
	for i := range segments {
		seg := &segments[i]
		if seg.Kind != KindStatic {
			p.static = false
		}
		if seg.Named() {
			if _, ok := seen[seg.Text]; !ok {
				seen[seg.Text] = struct{}{}
				p.names = append(p.names, seg.Text)
			}
		}
		if seg.Variable() {
			p.variable++
		}
		if seg.Optional {
			p.optional++
		}

		lo, hi := seg.Span()
		p.minSpan += lo
		switch {
		case p.maxSpan == Unbounded:
		case hi == Unbounded:
			p.maxSpan = Unbounded
		default:
			p.maxSpan += hi
		}
	}

	return p
}

// String returns the normalized pattern text.
func (p *Pattern) String() string {
	return p.raw
}

// Segments returns the compiled segments. Callers must not modify them.
func (p *Pattern) Segments() []Segment {
	return p.segments
}

// Params returns the unique parameter names in declaration order.
func (p *Pattern) Params() []string {
	return p.names
}

// IsStatic reports whether the pattern has only static segments.
func (p *Pattern) IsStatic() bool {
	return p.static
}

// Variable returns the number of segments whose span is not fixed
// (optional parameters and rest segments).
func (p *Pattern) Variable() int {
	return p.variable
}

// Optionals returns the number of optional parameters.
func (p *Pattern) Optionals() int {
	return p.optional
}

// SpanRange returns the fewest and most path segments the pattern can match.
// hi is Unbounded when the pattern has a rest segment.
func (p *Pattern) SpanRange() (lo, hi int) {
	return p.minSpan, p.maxSpan
}

func (p *Pattern) maxScope() int {
	scope := 0
	for i := range p.segments {
		scope = max(scope, p.segments[i].Scope)
	}
	return scope
}

// normalize trims whitespace and guarantees a leading slash.
func normalize(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return "/"
	}
	if pattern[0] != '/' {
		pattern = "/" + pattern
	}
	return pattern
}

// split cuts raw on '/' outside parameter constraints. Braces are only
// significant in segments starting with ':'; a backslash escapes the next
// byte inside a constraint. Trailing empty segments are dropped.
func split(raw string) ([]string, error) {
	var parts []string

	start := 1
	depth := 0
	inParam := len(raw) > 1 && raw[1] == ':'

	for i := 1; i < len(raw); i++ {
		c := raw[i]
		switch {
		case inParam && depth > 0 && c == '\\':
			i++ // skip escaped byte
		case inParam && c == '{':
			depth++
		case inParam && c == '}':
			if depth == 0 {
				return nil, ErrUnbalancedBraces
			}
			depth--
		case c == '/' && depth == 0:
			parts = append(parts, raw[start:i])
			start = i + 1
			inParam = start < len(raw) && raw[start] == ':'
		}
	}
	if depth != 0 {
		return nil, ErrUnbalancedBraces
	}
	if start <= len(raw) {
		parts = append(parts, raw[start:])
	}

	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts, nil
}

// parseSegment compiles one segment. last reports whether it ends the pattern.
func parseSegment(part string, last bool) (Segment, error) {
	if part == "*" {
		if last {
			return Segment{Kind: KindRest}, nil
		}
		return Segment{Kind: KindWildcard}, nil
	}
	if part == "" || part[0] != ':' {
		return Segment{Kind: KindStatic, Text: part}, nil
	}

	body := part[1:]
	seg := Segment{Kind: KindParam}

	if strings.HasSuffix(body, "?") {
		seg.Optional = true
		body = body[:len(body)-1]
	}

	if open := strings.IndexByte(body, '{'); open >= 0 {
		if !strings.HasSuffix(body, "}") {
			return Segment{}, ErrUnbalancedBraces
		}
		seg.Text = body[:open]
		seg.Pattern = body[open+1 : len(body)-1]
	} else {
		seg.Text = body
	}

	if seg.Text == "" {
		return Segment{}, ErrEmptyParamName
	}
	if strings.ContainsAny(seg.Text, "{}") {
		return Segment{}, ErrUnbalancedBraces
	}

	if seg.Pattern == "" && strings.Contains(body, "{") {
		return Segment{}, fmt.Errorf("%w: empty expression", ErrInvalidRegex)
	}
	if seg.Pattern != "" {
		c, err := compileConstraint(seg.Pattern)
		if err != nil {
			return Segment{}, err
		}
		seg.re = c.re
		if c.spansSlash {
			if seg.Optional {
				return Segment{}, ErrOptionalRest
			}
			seg.Kind = KindRestParam
		}
	}

	return seg, nil
}
