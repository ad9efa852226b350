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
	"os"
	"reflect"
	"slices"

	"github.com/spf13/cobra"

	"rivaas.dev/pathmatch"
	"rivaas.dev/pathmatch/matcher"
)

func compareCmd(flags *globalFlags) *cobra.Command {
	var pathsFile string

	cmd := &cobra.Command{
		Use:   "compare [METHOD PATH]...",
		Short: "Check that both matchers agree on a set of lookups",
		Long: `Resolve every lookup with the linear and the indexed matcher and
report any difference. Lookups come from METHOD PATH argument pairs and
from --paths, a file with one "METHOD PATH" per line.

Lookups the indexed matcher refuses are reported but are not differences.

Examples:
  pathmatch compare -f routes.yaml GET /users/1 POST /users
  pathmatch compare -f routes.yaml --paths paths.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lookups, err := collectLookups(args, pathsFile)
			if err != nil {
				return err
			}
			return runCompare(cmd, flags, lookups)
		},
	}

	cmd.Flags().StringVar(&pathsFile, "paths", "", "File with one \"METHOD PATH\" lookup per line")

	return cmd
}

func collectLookups(args []string, pathsFile string) ([]lookup, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("arguments must be METHOD PATH pairs, got %d arguments", len(args))
	}

	var lookups []lookup
	for pair := range slices.Chunk(args, 2) {
		lookups = append(lookups, lookup{method: pair[0], path: pair[1]})
	}

	if pathsFile != "" {
		data, err := os.ReadFile(pathsFile) //nolint:gosec // path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("failed to read paths file: %w", err)
		}
		more, err := parseLookups(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pathsFile, err)
		}
		lookups = append(lookups, more...)
	}

	if len(lookups) == 0 {
		return nil, errors.New("no lookups: pass METHOD PATH pairs or --paths")
	}
	return lookups, nil
}

// outcome is a matcher-independent view of one lookup.
type outcome struct {
	Matches []matcher.Summary
	Routed  bool
	Allowed []string
	Err     string
}

// outcomeOf describes a lookup. Errors reduce to the offending pattern and
// sentinel, since the matchers word their reasons differently.
func outcomeOf(res *matcher.Result[string], err error, withAllowed bool) outcome {
	if err != nil {
		var uerr *matcher.UnsupportedPathError
		if errors.As(err, &uerr) {
			return outcome{Err: uerr.Pattern + ": " + uerr.Err.Error()}
		}
		return outcome{Err: err.Error()}
	}
	o := outcome{Matches: res.Summarize(), Routed: res.Routed}
	if withAllowed {
		o.Allowed = res.Allowed
	}
	return o
}

func runCompare(cmd *cobra.Command, flags *globalFlags, lookups []lookup) error {
	linear, _, err := loadRouter(cmd, flags, pathmatch.WithStrategy(matcher.StrategyLinear))
	if err != nil {
		return err
	}
	indexed, _, err := loadRouter(cmd, flags, pathmatch.WithStrategy(matcher.StrategyIndexed))
	if err != nil {
		return err
	}

	// The indexed matcher leaves refused routes out of Allowed.
	withAllowed := len(indexed.Refused()) == 0

	out := cmd.OutOrStdout()
	var diffs, refused int
	for _, l := range lookups {
		lres, lerr := linear.Match(l.method, l.path)
		ires, ierr := indexed.Match(l.method, l.path)

		if errors.Is(ierr, pathmatch.ErrIndexRefused) {
			refused++
			fmt.Fprintf(out, "refused  %s %s: %v\n", l.method, l.path, ierr)
			continue
		}

		lin, idx := outcomeOf(lres, lerr, withAllowed), outcomeOf(ires, ierr, withAllowed)
		if reflect.DeepEqual(lin, idx) {
			continue
		}
		diffs++
		fmt.Fprintf(out, "differ   %s %s\n  linear:  %+v\n  indexed: %+v\n", l.method, l.path, lin, idx)
	}

	fmt.Fprintf(out, "%d lookups, %d differences, %d refused\n", len(lookups), diffs, refused)
	if diffs > 0 {
		return fmt.Errorf("matchers disagree on %d lookups", diffs)
	}
	return nil
}
