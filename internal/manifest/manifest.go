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

// Package manifest loads route tables from YAML files.
//
// A manifest looks like:
//
//	strategy: indexed          # or linear
//	trailingSlash: tolerant    # or strict
//	rawParams: false
//	linearFallback: true
//	routes:
//	  - method: ALL
//	    path: "*"
//	    handlers: [logger]
//	  - method: GET
//	    path: /users/:id
//	mounts:
//	  - base: /api/${API_VERSION:-v1}
//	    middleware: [auth]
//	    routes:
//	      - method: GET
//	        path: /books/:id
//
// ${VAR} and ${VAR:-default} are replaced from the environment before
// parsing; "$$" is a literal "$". A route without handlers gets one handler
// named "METHOD path".
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"

	"rivaas.dev/pathmatch"
	"rivaas.dev/pathmatch/matcher"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// ErrInvalid wraps every validation problem of a manifest.
var ErrInvalid = errors.New("invalid manifest")

// Manifest is a route table definition.
type Manifest struct {
	Strategy       string  `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	TrailingSlash  string  `yaml:"trailingSlash,omitempty" json:"trailingSlash,omitempty"`
	RawParams      bool    `yaml:"rawParams,omitempty" json:"rawParams,omitempty"`
	LinearFallback bool    `yaml:"linearFallback,omitempty" json:"linearFallback,omitempty"`
	Routes         []Route `yaml:"routes,omitempty" json:"routes,omitempty"`
	Mounts         []Mount `yaml:"mounts,omitempty" json:"mounts,omitempty"`
}

// Route is one registration.
type Route struct {
	Method   string   `yaml:"method" json:"method"`
	Path     string   `yaml:"path" json:"path"`
	Handlers []string `yaml:"handlers,omitempty" json:"handlers,omitempty"`
}

// Mount is a set of routes registered under a base pattern.
type Mount struct {
	Base       string   `yaml:"base" json:"base"`
	Middleware []string `yaml:"middleware,omitempty" json:"middleware,omitempty"`
	Routes     []Route  `yaml:"routes" json:"routes"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadFromReader reads and parses a manifest from r.
func LoadFromReader(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Parse expands environment variables in data, decodes it and validates
// the result. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	content := substituteEnvVars(string(data))

	var m Manifest
	if err := yaml.UnmarshalWithOptions([]byte(content), &m, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func substituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", "\x00ESCAPED_DOLLAR\x00")

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		if value, ok := os.LookupEnv(sub[1]); ok {
			return value
		}
		return sub[2]
	})

	return strings.ReplaceAll(result, "\x00ESCAPED_DOLLAR\x00", "$")
}

// Validate reports every problem at once, wrapped in ErrInvalid.
// Patterns themselves are checked by Build.
func (m *Manifest) Validate() error {
	var errs []error

	if _, err := matcher.ParseStrategy(m.Strategy); m.Strategy != "" && err != nil {
		errs = append(errs, fmt.Errorf("strategy: %w", err))
	}
	if _, err := matcher.ParseTrailingSlash(m.TrailingSlash); err != nil {
		errs = append(errs, fmt.Errorf("trailingSlash: %w", err))
	}
	for i, r := range m.Routes {
		errs = append(errs, r.validate(fmt.Sprintf("routes[%d]", i))...)
	}
	for i, mt := range m.Mounts {
		where := fmt.Sprintf("mounts[%d]", i)
		if mt.Base == "" {
			errs = append(errs, fmt.Errorf("%s: base is required", where))
		}
		if len(mt.Routes) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one route is required", where))
		}
		for j, r := range mt.Routes {
			errs = append(errs, r.validate(fmt.Sprintf("%s.routes[%d]", where, j))...)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (r Route) validate(where string) []error {
	var errs []error
	if r.Method == "" {
		errs = append(errs, fmt.Errorf("%s: method is required", where))
	}
	if r.Path == "" {
		errs = append(errs, fmt.Errorf("%s: path is required", where))
	}
	return errs
}

// handlers returns the route's handler names, or "METHOD path".
func (r Route) handlers() []string {
	if len(r.Handlers) > 0 {
		return r.Handlers
	}
	return []string{r.Method + " " + r.Path}
}

// Options returns the router options the manifest selects.
func (m *Manifest) Options() ([]pathmatch.Option, error) {
	var opts []pathmatch.Option

	if m.Strategy != "" {
		s, err := matcher.ParseStrategy(m.Strategy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pathmatch.WithStrategy(s))
	}
	mode, err := matcher.ParseTrailingSlash(m.TrailingSlash)
	if err != nil {
		return nil, err
	}
	opts = append(opts, pathmatch.WithTrailingSlash(mode))

	if m.RawParams {
		opts = append(opts, pathmatch.WithRawParams())
	}
	if m.LinearFallback {
		opts = append(opts, pathmatch.WithLinearFallback())
	}
	return opts, nil
}

// Build creates a router holding the manifest's routes, then its mounts.
// extra options are applied after the manifest's own, so they win.
func (m *Manifest) Build(extra ...pathmatch.Option) (*pathmatch.Router[string], error) {
	opts, err := m.Options()
	if err != nil {
		return nil, err
	}

	r, err := pathmatch.New[string](append(opts, extra...)...)
	if err != nil {
		return nil, err
	}

	for i, rt := range m.Routes {
		if err := r.Add(rt.Method, rt.Path, rt.handlers()...); err != nil {
			return nil, fmt.Errorf("routes[%d]: %w", i, err)
		}
	}

	for i, mt := range m.Mounts {
		sub, err := pathmatch.New[string]()
		if err != nil {
			return nil, err
		}
		for j, rt := range mt.Routes {
			if err := sub.Add(rt.Method, rt.Path, rt.handlers()...); err != nil {
				return nil, fmt.Errorf("mounts[%d].routes[%d]: %w", i, j, err)
			}
		}
		if err := r.Mount(mt.Base, sub, pathmatch.WithMiddleware(mt.Middleware...)); err != nil {
			return nil, fmt.Errorf("mounts[%d]: %w", i, err)
		}
	}

	return r, nil
}
