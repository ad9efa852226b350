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

package benchmarks

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/pathmatch"
	"rivaas.dev/pathmatch/matcher"
)

// Router Comparison Benchmarks
//
// These benchmarks put both pathmatch strategies next to gin, echo and chi
// on one route set. Every router is driven through net/http so the numbers
// include the same request plumbing.
//
// To run these benchmarks:
//   go test ./benchmarks -bench=. -benchmem

var routeSet = []struct {
	method string
	path   string
}{
	{http.MethodGet, "/"},
	{http.MethodGet, "/users"},
	{http.MethodPost, "/users"},
	{http.MethodGet, "/users/:id"},
	{http.MethodPut, "/users/:id"},
	{http.MethodDelete, "/users/:id"},
	{http.MethodGet, "/users/:id/posts"},
	{http.MethodGet, "/users/:id/posts/:post_id"},
	{http.MethodGet, "/repos/:owner/:repo/issues/:number/comments"},
	{http.MethodGet, "/health"},
}

var requests = map[string]string{
	"static": "/health",
	"param":  "/users/123",
	"nested": "/users/123/posts/456",
	"deep":   "/repos/rivaas/router/issues/42/comments",
}

var paramName = regexp.MustCompile(`:(\w+)`)

// chiPath rewrites :name parameters into chi's {name} form.
func chiPath(p string) string {
	return paramName.ReplaceAllString(p, "{$1}")
}

// handler adapts a pathmatch router to net/http, running every matched
// handler in registration order.
type handler struct {
	r *pathmatch.Router[http.HandlerFunc]
}

func (h handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	res, err := h.r.Match(req.Method, req.URL.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	switch {
	case res.MethodNotAllowed():
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	case !res.Routed:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	for _, m := range res.Matches {
		for _, fn := range m.Handlers() {
			fn(w, req)
		}
	}
}

func newPathmatch(tb testing.TB, s matcher.Strategy) handler {
	tb.Helper()

	r := pathmatch.MustNew[http.HandlerFunc](pathmatch.WithStrategy(s))
	for _, rt := range routeSet {
		err := r.Add(rt.method, rt.path, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		require.NoError(tb, err)
	}
	r.Freeze()
	return handler{r: r}
}

func newGin() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	for _, rt := range routeSet {
		r.Handle(rt.method, rt.path, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}
	return r
}

func newEcho() http.Handler {
	e := echo.New()
	for _, rt := range routeSet {
		e.Add(rt.method, rt.path, func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
	}
	return e
}

func newChi() http.Handler {
	r := chi.NewRouter()
	for _, rt := range routeSet {
		r.MethodFunc(rt.method, chiPath(rt.path), func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}
	return r
}

func routers(tb testing.TB) map[string]http.Handler {
	tb.Helper()

	return map[string]http.Handler{
		"pathmatch-linear":  newPathmatch(tb, matcher.StrategyLinear),
		"pathmatch-indexed": newPathmatch(tb, matcher.StrategyIndexed),
		"gin":               newGin(),
		"echo":              newEcho(),
		"chi":               newChi(),
	}
}

func TestRoutersAgree(t *testing.T) {
	t.Parallel()

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/users/123", http.StatusOK},
		{http.MethodDelete, "/users/123", http.StatusOK},
		{http.MethodGet, "/repos/a/b/issues/1/comments", http.StatusOK},
		{http.MethodGet, "/missing", http.StatusNotFound},
		{http.MethodPatch, "/users/123", http.StatusMethodNotAllowed},
	}

	for name, h := range routers(t) {
		for _, tc := range cases {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.want, w.Code, "%s %s %s", name, tc.method, tc.path)
		}
	}
}

func TestChiPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/users/{id}/posts/{post_id}", chiPath("/users/:id/posts/:post_id"))
	assert.Equal(t, "/health", chiPath("/health"))
}

func BenchmarkRouters(b *testing.B) {
	for name, h := range routers(b) {
		for kind, path := range requests {
			b.Run(name+"/"+kind, func(b *testing.B) {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				w := httptest.NewRecorder()

				b.ReportAllocs()
				b.ResetTimer()
				for b.Loop() {
					w.Body.Reset()
					w.Code = 0
					w.Flushed = false
					h.ServeHTTP(w, req)
				}
			})
		}
	}
}

// BenchmarkPathmatchMatch isolates the lookup from the net/http plumbing.
func BenchmarkPathmatchMatch(b *testing.B) {
	for _, s := range []matcher.Strategy{matcher.StrategyLinear, matcher.StrategyIndexed} {
		r := newPathmatch(b, s).r
		for kind, path := range requests {
			b.Run(string(s)+"/"+kind, func(b *testing.B) {
				b.ReportAllocs()
				for b.Loop() {
					if _, err := r.Match(http.MethodGet, path); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
