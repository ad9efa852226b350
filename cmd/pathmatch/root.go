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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/pathmatch"
	"rivaas.dev/pathmatch/internal/manifest"
	"rivaas.dev/pathmatch/matcher"
)

var errNoManifest = errors.New("no manifest given: use --manifest")

// globalFlags are shared by every subcommand.
type globalFlags struct {
	manifest  string
	strategy  string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "pathmatch",
		Short: "Check route manifests and resolve paths against them",
		Long: `pathmatch loads a YAML route manifest into a multi-match router.

Every route matching a request is returned, in registration order,
with the parameters it extracted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.manifest, "manifest", "f", "", "Route manifest (YAML)")
	pf.StringVar(&flags.strategy, "strategy", "", "Override the manifest strategy: linear or indexed")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(
		checkCmd(flags),
		matchCmd(flags),
		compareCmd(flags),
		benchCmd(flags),
		versionCmd(),
	)

	return cmd
}

// newLogger builds the CLI logger. Logs go to w, never to the command output.
func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: want text or json", format)
	}
}

// logger builds the logger selected by the flags, writing to the command's
// error stream.
func (f *globalFlags) logger(cmd *cobra.Command) (*slog.Logger, error) {
	return newLogger(f.logLevel, f.logFormat, cmd.ErrOrStderr())
}

// loadRouter reads the manifest and builds a router from it. The strategy
// flag and extra options override the manifest.
func loadRouter(cmd *cobra.Command, flags *globalFlags, extra ...pathmatch.Option) (*pathmatch.Router[string], *manifest.Manifest, error) {
	if flags.manifest == "" {
		return nil, nil, errNoManifest
	}

	logger, err := flags.logger(cmd)
	if err != nil {
		return nil, nil, err
	}

	m, err := manifest.Load(flags.manifest)
	if err != nil {
		return nil, nil, err
	}

	opts := []pathmatch.Option{pathmatch.WithLogger(logger)}
	if flags.strategy != "" {
		s, err := matcher.ParseStrategy(flags.strategy)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, pathmatch.WithStrategy(s))
	}
	opts = append(opts, extra...)

	r, err := m.Build(opts...)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("manifest loaded", "path", flags.manifest, "routes", r.Len(), "strategy", r.Strategy())
	return r, m, nil
}

// lookup is one request to resolve.
type lookup struct {
	method, path string
}

// parseLookups reads "METHOD PATH" lines. Blank lines and lines starting
// with '#' are skipped.
func parseLookups(text string) ([]lookup, error) {
	var out []lookup
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want \"METHOD PATH\", got %q", i+1, line)
		}
		out = append(out, lookup{method: fields[0], path: fields[1]})
	}
	return out, nil
}
