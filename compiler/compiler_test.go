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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(p *Pattern) []SegmentKind {
	out := make([]SegmentKind, 0, len(p.Segments()))
	for _, s := range p.Segments() {
		out = append(out, s.Kind)
	}
	return out
}

// TestCompile tests pattern compilation with various patterns.
func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pattern    string
		wantRaw    string
		wantKinds  []SegmentKind
		wantParams []string
		wantStatic bool
	}{
		{
			name:       "root",
			pattern:    "/",
			wantRaw:    "/",
			wantKinds:  []SegmentKind{},
			wantStatic: true,
		},
		{
			name:       "empty pattern is root",
			pattern:    "",
			wantRaw:    "/",
			wantKinds:  []SegmentKind{},
			wantStatic: true,
		},
		{
			name:       "static with trailing slash",
			pattern:    "/api/users/",
			wantRaw:    "/api/users/",
			wantKinds:  []SegmentKind{KindStatic, KindStatic},
			wantStatic: true,
		},
		{
			name:       "missing leading slash",
			pattern:    "users/:id",
			wantRaw:    "/users/:id",
			wantKinds:  []SegmentKind{KindStatic, KindParam},
			wantParams: []string{"id"},
		},
		{
			name:       "bare star",
			pattern:    "*",
			wantRaw:    "/*",
			wantKinds:  []SegmentKind{KindRest},
			wantParams: nil,
		},
		{
			name:      "inner star is one segment",
			pattern:   "/files/*/raw",
			wantRaw:   "/files/*/raw",
			wantKinds: []SegmentKind{KindStatic, KindWildcard, KindStatic},
		},
		{
			name:       "constrained param",
			pattern:    `/products/:id{\d+}`,
			wantRaw:    `/products/:id{\d+}`,
			wantKinds:  []SegmentKind{KindStatic, KindParam},
			wantParams: []string{"id"},
		},
		{
			name:       "slash-spanning constraint",
			pattern:    "/static/:path{.+}",
			wantRaw:    "/static/:path{.+}",
			wantKinds:  []SegmentKind{KindStatic, KindRestParam},
			wantParams: []string{"path"},
		},
		{
			name:       "constraint with literal slash",
			pattern:    "/:dir{a/b}",
			wantRaw:    "/:dir{a/b}",
			wantKinds:  []SegmentKind{KindRestParam},
			wantParams: []string{"dir"},
		},
		{
			name:       "quantifier braces",
			pattern:    `/date/:year{\d{4}}/:month{\d{1,2}}`,
			wantRaw:    `/date/:year{\d{4}}/:month{\d{1,2}}`,
			wantKinds:  []SegmentKind{KindStatic, KindParam, KindParam},
			wantParams: []string{"year", "month"},
		},
		{
			name:       "optional params",
			pattern:    "/api/animal/:type?",
			wantRaw:    "/api/animal/:type?",
			wantKinds:  []SegmentKind{KindStatic, KindStatic, KindParam},
			wantParams: []string{"type"},
		},
		{
			name:       "static segment with braces",
			pattern:    "/a}b/{c",
			wantRaw:    "/a}b/{c",
			wantKinds:  []SegmentKind{KindStatic, KindStatic},
			wantStatic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRaw, p.String())
			assert.Equal(t, tt.wantKinds, kinds(p))
			assert.Equal(t, tt.wantParams, p.Params())
			assert.Equal(t, tt.wantStatic, p.IsStatic())
		})
	}
}

func TestCompileOptional(t *testing.T) {
	t.Parallel()

	p := MustCompile(`/api/:kind{[a-z]+}?/:id?`)
	segs := p.Segments()
	require.Len(t, segs, 3)

	assert.True(t, segs[1].Optional)
	assert.Equal(t, "kind", segs[1].Text)
	assert.Equal(t, "[a-z]+", segs[1].Pattern)
	assert.True(t, segs[2].Optional)
	assert.Equal(t, 2, p.Variable())
	assert.Equal(t, 2, p.Optionals())

	lo, hi := p.SpanRange()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)
}

func TestCompileSpanRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		lo, hi  int
	}{
		{"/", 0, 0},
		{"/a/:b", 2, 2},
		{"/a/*", 1, Unbounded},
		{"/a/:p{.+}", 2, Unbounded},
		{"/a/:b?", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()

			lo, hi := MustCompile(tt.pattern).SpanRange()
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

// TestCompileErrors tests that invalid patterns are rejected with PatternError.
func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		wantErr error
	}{
		{"invalid regex", "/a/:id{[}", ErrInvalidRegex},
		{"unsupported backreference", `/a/:id{(x)\1}`, ErrInvalidRegex},
		{"empty constraint", "/a/:id{}", ErrInvalidRegex},
		{"duplicate name", "/a/:id/b/:id", ErrDuplicateParam},
		{"duplicate across kinds", "/a/:id/:id{.+}", ErrDuplicateParam},
		{"empty name", "/a/:", ErrEmptyParamName},
		{"empty name optional", "/a/:?", ErrEmptyParamName},
		{"unclosed brace", "/a/:id{\\d+", ErrUnbalancedBraces},
		{"stray closing brace", "/a/:id}", ErrUnbalancedBraces},
		{"optional rest", "/a/:p{.*}?", ErrOptionalRest},
		{"huge program", "/a/:id{(?:ab){600}}", ErrRegexTooComplex},
		{"nested repeat limit", "/a/:id{(?:a{1,100}){1,100}}", ErrInvalidRegex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Compile(tt.pattern)
			require.Error(t, err)
			assert.Nil(t, p)
			require.ErrorIs(t, err, tt.wantErr)

			var perr *PatternError
			require.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.Pattern)
			assert.Contains(t, perr.Error(), perr.Pattern)
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t,
		`compiler: pattern "/a/:x/:x": segment ":x": duplicate parameter name: "x"`,
		func() { MustCompile("/a/:x/:x") })
}

func TestSegmentAccepts(t *testing.T) {
	t.Parallel()

	p := MustCompile(`/s/:id{\d+}/:name/*/:rest{.+}`)
	segs := p.Segments()

	assert.True(t, segs[0].Accepts("s"))
	assert.False(t, segs[0].Accepts("S"))

	assert.True(t, segs[1].Accepts("42"))
	assert.False(t, segs[1].Accepts("4a"), "constraint is anchored per segment")
	assert.False(t, segs[1].Accepts(""))

	assert.True(t, segs[2].Accepts("anything"))
	assert.False(t, segs[2].Accepts(""), "params never bind empty segments")

	assert.True(t, segs[3].Accepts(""))
	assert.Equal(t, KindWildcard, segs[3].Kind)

	assert.True(t, segs[4].Accepts("a/b/c"))
	assert.False(t, segs[4].Accepts(""))
}

func TestMatchesSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want bool
	}{
		{`\d+`, false},
		{`[^/]+`, false},
		{`[a-z]+\.html`, false},
		{`.+`, true},
		{`.*`, true},
		{`a/b`, true},
		{`[^.]+`, true},
		{`(?:x|/y)`, true},
		{`^abc$`, false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()

			c, err := compileConstraint(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.spansSlash)
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	outer := MustCompile("/foo/:foo")
	inner := MustCompile("/books/:id")

	joined := Join(outer, inner)
	assert.Equal(t, "/foo/:foo/books/:id", joined.String())
	assert.Equal(t, []string{"foo", "id"}, joined.Params())

	segs := joined.Segments()
	require.Len(t, segs, 4)
	assert.Equal(t, 0, segs[1].Scope)
	assert.Equal(t, 1, segs[3].Scope)

	// Inputs are untouched.
	assert.Equal(t, 0, inner.Segments()[1].Scope)
}

func TestJoinCollidingNames(t *testing.T) {
	t.Parallel()

	joined := Join(MustCompile("/org/:id"), MustCompile("/repo/:id"))
	assert.Equal(t, []string{"id"}, joined.Params())
	assert.Len(t, joined.Segments(), 4)
}

func TestJoinRootAndRest(t *testing.T) {
	t.Parallel()

	base := MustCompile("/api")
	assert.Same(t, base, Join(base, MustCompile("/")))

	inner := MustCompile("/users")
	assert.Same(t, inner, Join(MustCompile("/"), inner))

	star := Join(MustCompile("/assets/*"), MustCompile("/raw"))
	assert.Equal(t, []SegmentKind{KindStatic, KindWildcard, KindStatic}, kinds(star))

	rest := Join(base, MustCompile("*"))
	assert.Equal(t, "/api/*", rest.String())
	assert.Equal(t, []SegmentKind{KindStatic, KindRest}, kinds(rest))
}

func TestJoinNestedScopes(t *testing.T) {
	t.Parallel()

	p := Join(MustCompile("/a/:x"), Join(MustCompile("/b/:x"), MustCompile("/c/:x")))
	scopes := make([]int, 0, 6)
	for _, s := range p.Segments() {
		scopes = append(scopes, s.Scope)
	}
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2}, scopes)
	assert.True(t, strings.HasPrefix(p.String(), "/a/:x/b/:x"))
}

func TestSegmentKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "static", KindStatic.String())
	assert.Equal(t, "rest-param", KindRestParam.String())
	assert.Equal(t, "unknown", SegmentKind(99).String())
}
