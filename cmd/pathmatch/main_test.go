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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/pathmatch/matcher"
)

const testManifest = `
routes:
  - method: ALL
    path: "*"
    handlers: [middleware a]
  - method: GET
    path: "/entry/:id/*"
    handlers: [middleware b]
  - method: GET
    path: /entry/:id/:action
    handlers: [action]
  - method: PUT
    path: /users/:id
  - method: GET
    path: "/docs/:path{.+}/edit"
  - method: GET
    path: /files/:dir?/:name?
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheck(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "routes.yaml", testManifest)

	out, _, err := execute(t, "check", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "routes: 6\n")
	assert.Contains(t, out, "methods: ALL 1, GET 4, PUT 1\n")
	assert.Contains(t, out, "refused by index:\n"+
		"  #4 GET /docs/:path{.+}/edit: multi-segment part is not last\n"+
		"    handlers: GET /docs/:path{.+}/edit\n")
	assert.Contains(t, out, "possibly ambiguous:\n  #5 GET /files/:dir?/:name?\n")
	assert.Contains(t, out, "ok\n")

	_, _, err = execute(t, "check", "-f", path, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 refused, 1 possibly ambiguous")
}

func TestCheckRequiresManifest(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "check")
	require.ErrorIs(t, err, errNoManifest)
}

func TestMatchText(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "routes.yaml", testManifest)

	out, _, err := execute(t, "match", "-f", path, "GET", "/entry/123/show")
	require.NoError(t, err)
	assert.Equal(t,
		"#0 ALL /* {} -> middleware a\n"+
			"#1 GET /entry/:id/* {id=123} -> middleware b\n"+
			"#2 GET /entry/:id/:action {id=123, action=show} -> action\n",
		out)

	out, _, err = execute(t, "match", "-f", path, "DELETE", "/users/1")
	require.NoError(t, err)
	assert.Contains(t, out, "method not allowed; allowed: PUT\n")

	out, _, err = execute(t, "match", "-f", path, "--strategy", "linear", "GET", "/docs/a/b/edit")
	require.NoError(t, err)
	assert.Contains(t, out, "#4 GET /docs/:path{.+}/edit {path=a/b} -> GET /docs/:path{.+}/edit\n")

	_, _, err = execute(t, "match", "-f", path, "GET", "/docs/a/b/edit")
	require.ErrorIs(t, err, matcher.ErrIndexRefused)
}

func TestMatchJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "routes.yaml", testManifest)

	out, _, err := execute(t, "match", "-f", path, "-o", "json", "GET", "/entry/9/edit")
	require.NoError(t, err)

	var got matchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Routed)
	require.Len(t, got.Matches, 3)
	assert.Equal(t, "/entry/:id/:action", got.Matches[2].Pattern)
	assert.Equal(t, []matcher.Param{{Name: "id", Value: "9"}, {Name: "action", Value: "edit"}}, got.Matches[2].Params)

	out, _, err = execute(t, "match", "-f", path, "-o", "json", "GET", "/files/a")
	require.ErrorIs(t, err, matcher.ErrAmbiguousPath)
	var failed matchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &failed))
	assert.Contains(t, failed.Error, "ambiguous")
	assert.Empty(t, failed.Matches)

	_, _, err = execute(t, "match", "-f", path, "-o", "yaml", "GET", "/")
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "routes.yaml", testManifest)
	paths := writeFile(t, "paths.txt", `
# comment
GET /entry/1/show
DELETE /users/1
GET /files/a/b
GET /files/a
GET /nothing
`)

	out, _, err := execute(t, "compare", "-f", path, "--paths", paths, "GET", "/docs/a/edit")
	require.NoError(t, err)
	assert.Contains(t, out, "refused  GET /docs/a/edit")
	assert.Contains(t, out, "6 lookups, 0 differences, 1 refused\n")

	_, _, err = execute(t, "compare", "-f", path, "GET")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "METHOD PATH pairs")

	_, _, err = execute(t, "compare", "-f", path)
	require.Error(t, err)
}

func TestBenchPrometheus(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "routes.yaml", testManifest)

	out, _, err := execute(t, "bench", "-f", path, "-n", "10", "GET", "/entry/1/show", "GET", "/missing")
	require.NoError(t, err)
	assert.Contains(t, out, "strategy: indexed, routes: 6, iterations: 10\n")
	assert.Contains(t, out, "3 matches")
	assert.Contains(t, out, "pathmatch_lookups")
}

func TestBenchStdout(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "routes.yaml", testManifest)

	out, _, err := execute(t, "bench", "-f", path, "-n", "5", "--metrics", "stdout", "GET", "/entry/1/show")
	require.NoError(t, err)
	assert.Contains(t, out, "pathmatch.lookups")

	_, _, err = execute(t, "bench", "-f", path, "--metrics", "statsd", "GET", "/")
	require.Error(t, err)

	_, _, err = execute(t, "bench", "-f", path, "-n", "0", "GET", "/")
	require.Error(t, err)
}

func TestBenchLogsRecorderEvents(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "routes.yaml", testManifest)

	_, stderr, err := execute(t, "bench", "-f", path, "-n", "1", "--log-level", "debug", "GET", "/")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Meter provider initialized")
	assert.Contains(t, stderr, "service=pathmatch-bench")

	_, stderr, err = execute(t, "bench", "-f", path, "-n", "1", "GET", "/")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "Meter provider initialized")
}

func TestLogging(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "routes.yaml", testManifest)

	_, stderr, err := execute(t, "match", "-f", path, "--log-level", "debug", "--log-format", "json", "GET", "/")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"route registered"`)
	assert.Contains(t, stderr, `"msg":"manifest loaded"`)

	_, _, err = execute(t, "match", "-f", path, "--log-level", "loud", "GET", "/")
	require.Error(t, err)
	_, _, err = execute(t, "match", "-f", path, "--log-format", "xml", "GET", "/")
	require.Error(t, err)
}

func TestParseLookups(t *testing.T) {
	t.Parallel()

	got, err := parseLookups("GET /a\n\n# skip\n  POST   /b  \n")
	require.NoError(t, err)
	assert.Equal(t, []lookup{{"GET", "/a"}, {"POST", "/b"}}, got)

	_, err = parseLookups("GET\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Go version:")
}
