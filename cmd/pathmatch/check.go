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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/pathmatch"
	"rivaas.dev/pathmatch/matcher"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile a manifest and report patterns that need attention",
		Long: `Compile every pattern of a manifest and list:

  - routes the indexed matcher cannot represent (lookups reaching them
    fail unless linearFallback is set)
  - patterns with more than one optional or multi-segment part, which
    may split some paths in several ways

Examples:
  pathmatch check -f routes.yaml
  pathmatch check -f routes.yaml --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail if any route is refused or ambiguous")

	return cmd
}

func runCheck(cmd *cobra.Command, flags *globalFlags, strict bool) error {
	r, _, err := loadRouter(cmd, flags, pathmatch.WithStrategy(matcher.StrategyIndexed))
	if err != nil {
		return err
	}
	r.Freeze()

	out := cmd.OutOrStdout()
	tbl := r.Table()
	fmt.Fprintf(out, "routes: %d\n", tbl.Len())

	keys := tbl.Keys()
	counts := make([]string, len(keys))
	for i, k := range keys {
		counts[i] = fmt.Sprintf("%s %d", k, len(tbl.Concrete(k)))
	}
	fmt.Fprintf(out, "methods: %s\n", strings.Join(counts, ", "))

	refused := r.Refused()
	if len(refused) > 0 {
		fmt.Fprintln(out, "refused by index:")
		for _, ref := range refused {
			fmt.Fprintf(out, "  #%d %s %s: %s\n", ref.Seq, ref.Method, ref.Pattern, ref.Reason)
			if rt := tbl.Route(ref.Seq); rt != nil {
				fmt.Fprintf(out, "    handlers: %s\n", strings.Join(rt.Handlers(), ", "))
			}
		}
	}

	var ambiguous int
	for _, rt := range tbl.Routes() {
		if rt.Pattern().Variable() <= 1 {
			continue
		}
		if ambiguous == 0 {
			fmt.Fprintln(out, "possibly ambiguous:")
		}
		ambiguous++
		fmt.Fprintf(out, "  #%d %s\n", rt.Seq(), rt)
	}

	if strict && (len(refused) > 0 || ambiguous > 0) {
		return fmt.Errorf("%d refused, %d possibly ambiguous", len(refused), ambiguous)
	}
	fmt.Fprintln(out, "ok")
	return nil
}
