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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"rivaas.dev/pathmatch/matcher"
)

// matchOutput is the JSON form of a lookup.
type matchOutput struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Routed  bool              `json:"routed"`
	Allowed []string          `json:"allowed,omitempty"`
	Matches []matcher.Summary `json:"matches"`
	Error   string            `json:"error,omitempty"`
}

func matchCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "match METHOD PATH",
		Short: "Resolve one request against a manifest",
		Long: `Print every route matching METHOD and PATH, in registration order,
with the parameters each route extracted.

Examples:
  pathmatch match -f routes.yaml GET /entry/123/show
  pathmatch match -f routes.yaml -o json DELETE /users/1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("invalid output %q: want text or json", output)
			}

			r, _, err := loadRouter(cmd, flags)
			if err != nil {
				return err
			}

			res, err := r.Match(args[0], args[1])
			if output == "json" {
				return writeMatchJSON(cmd.OutOrStdout(), args[0], args[1], res, err)
			}
			if err != nil {
				return err
			}
			writeMatchText(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")

	return cmd
}

func writeMatchText(w io.Writer, res *matcher.Result[string]) {
	for _, m := range res.Matches {
		fmt.Fprintf(w, "#%d %s %s %s -> %s\n",
			m.Route.Seq(), m.Route.Method(), m.Route.Pattern(), m.Params, strings.Join(m.Handlers(), ", "))
	}

	switch {
	case res.MethodNotAllowed():
		fmt.Fprintf(w, "method not allowed; allowed: %s\n", strings.Join(res.Allowed, ", "))
	case !res.Routed:
		fmt.Fprintln(w, "not found")
	}
}

// writeMatchJSON reports lookup errors in the document; a lookup error
// still fails the command.
func writeMatchJSON(w io.Writer, method, path string, res *matcher.Result[string], lookupErr error) error {
	out := matchOutput{Method: method, Path: path, Matches: []matcher.Summary{}}
	if lookupErr != nil {
		out.Error = lookupErr.Error()
	} else {
		out.Routed = res.Routed
		out.Allowed = res.Allowed
		out.Matches = res.Summarize()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return lookupErr
}
