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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/pathmatch/compiler"
)

func TestMountMergesParams(t *testing.T) {
	t.Parallel()

	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			t.Parallel()

			books := MustNew[string]()
			require.NoError(t, books.Add("GET", "/books/:id", "book"))

			r := MustNew[string](WithStrategy(s))
			require.NoError(t, r.Mount("/foo/:foo", books))

			res, err := r.Match("GET", "/foo/X/books/Y")
			require.NoError(t, err)
			require.Len(t, res.Matches, 1)
			assert.Equal(t, map[string]string{"foo": "X", "id": "Y"}, res.Matches[0].Params.Map())
			assert.Equal(t, "/foo/:foo/books/:id", res.Matches[0].Route.Pattern().String())
		})
	}
}

func TestMountInnerParamWins(t *testing.T) {
	t.Parallel()

	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			t.Parallel()

			sub := MustNew[string]()
			require.NoError(t, sub.Add("GET", "/items/:id", "item"))

			r := MustNew[string](WithStrategy(s))
			require.NoError(t, r.Mount("/users/:id", sub))

			res, err := r.Match("GET", "/users/1/items/2")
			require.NoError(t, err)
			require.Len(t, res.Matches, 1)
			assert.Equal(t, "2", res.Matches[0].Params.Value("id"))
			assert.Equal(t, []string{"id"}, res.Matches[0].Params.Names())
		})
	}
}

func TestMountKeepsOrderAndMiddleware(t *testing.T) {
	t.Parallel()

	sub := MustNew[string]()
	require.NoError(t, sub.Use("sub logger"))
	require.NoError(t, sub.Add("GET", "/", "index"))
	require.NoError(t, sub.Add("POST", "/", "create"))

	r := MustNew[string]()
	require.NoError(t, r.Add("GET", "/health", "health"))
	require.NoError(t, r.Mount("/api", sub, WithMiddleware("auth")))

	assert.Equal(t, []string{"health"}, handlersOf(t, r, "GET", "/health"))
	assert.Equal(t, []string{"auth", "sub logger", "auth", "index"}, handlersOf(t, r, "GET", "/api"))
	assert.Equal(t, []string{"auth", "sub logger", "auth", "create"}, handlersOf(t, r, "POST", "/api"))
	assert.Equal(t, []string{"auth", "sub logger"}, handlersOf(t, r, "GET", "/api/v1"))

	routes := r.Routes()
	require.Len(t, routes, 4)
	assert.Equal(t, "ALL", routes[1].Method)
	assert.Equal(t, "/api/*", routes[1].Pattern)
	assert.Equal(t, 2, routes[1].Handlers)
}

func TestMountErrors(t *testing.T) {
	t.Parallel()

	r := MustNew[string]()
	require.ErrorIs(t, r.Mount("/x", nil), ErrNilSubRouter)

	sub := MustNew[string]()
	require.NoError(t, sub.Add("GET", "/a", "a"))
	require.ErrorIs(t, r.Mount("/:{x}", sub), compiler.ErrEmptyParamName)
	assert.Equal(t, 0, r.Len())

	require.NoError(t, r.Mount("/x", MustNew[string]()))
	assert.Equal(t, 0, r.Len())
}

func TestMountIsASnapshot(t *testing.T) {
	t.Parallel()

	sub := MustNew[string]()
	require.NoError(t, sub.Add("GET", "/a", "a"))

	r := MustNew[string]()
	require.NoError(t, r.Mount("/m", sub))
	require.NoError(t, sub.Add("GET", "/b", "b"))

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"a"}, handlersOf(t, r, "GET", "/m/a"))
	assert.Empty(t, handlersOf(t, r, "GET", "/m/b"))
}

func TestGroup(t *testing.T) {
	t.Parallel()

	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			t.Parallel()

			r := MustNew[string](WithStrategy(s))
			api := r.Group("/api/:version", "auth")
			require.NoError(t, api.Add("GET", "/users/:id", "get user"))

			admin := api.Group("/admin", "admin only")
			require.NoError(t, admin.Use("audit"))
			require.NoError(t, admin.All("/stats", "stats"))
			assert.Equal(t, "/api/:version/admin", admin.Prefix())

			res, err := r.Match("GET", "/api/v1/users/7")
			require.NoError(t, err)
			require.Len(t, res.Matches, 1)
			assert.Equal(t, []string{"auth", "get user"}, res.Handlers())
			assert.Equal(t, map[string]string{"version": "v1", "id": "7"}, res.Matches[0].Params.Map())

			assert.Equal(t,
				[]string{"auth", "admin only", "audit", "auth", "admin only", "stats"},
				handlersOf(t, r, "DELETE", "/api/v2/admin/stats"))
		})
	}
}

func TestGroupInvalidPrefix(t *testing.T) {
	t.Parallel()

	r := MustNew[string]()
	g := r.Group("/a/:id{(}")
	assert.Empty(t, g.Prefix())
	require.ErrorIs(t, g.Add("GET", "/b", "h"), compiler.ErrInvalidRegex)
	require.ErrorIs(t, g.Group("/c").Add("GET", "/d", "h"), compiler.ErrInvalidRegex)

	ok := r.Group("/ok")
	require.ErrorIs(t, ok.Add("GET", "/:", "h"), compiler.ErrEmptyParamName)
	assert.Equal(t, 0, r.Len())
}
