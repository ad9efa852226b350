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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"rivaas.dev/pathmatch/metrics"
)

// benchConfig holds bench command flags.
type benchConfig struct {
	pathsFile    string
	iterations   int
	provider     string
	otlpEndpoint string
}

func benchCmd(flags *globalFlags) *cobra.Command {
	cfg := &benchConfig{}

	cmd := &cobra.Command{
		Use:   "bench [METHOD PATH]...",
		Short: "Time lookups and export the router metrics",
		Long: `Run every lookup --iterations times against the manifest, print the
mean time per lookup, then export the router metrics:

  prometheus  print the Prometheus text format after the timings
  stdout      print OpenTelemetry JSON after the timings
  otlp        push to --otlp-endpoint

Examples:
  pathmatch bench -f routes.yaml GET /users/1
  pathmatch bench -f routes.yaml --paths paths.txt --metrics stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lookups, err := collectLookups(args, cfg.pathsFile)
			if err != nil {
				return err
			}
			return runBench(cmd, flags, cfg, lookups)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.pathsFile, "paths", "", "File with one \"METHOD PATH\" lookup per line")
	f.IntVarP(&cfg.iterations, "iterations", "n", 10000, "Lookups per entry")
	f.StringVar(&cfg.provider, "metrics", string(metrics.PrometheusProvider), "Metrics provider: prometheus, stdout or otlp")
	f.StringVar(&cfg.otlpEndpoint, "otlp-endpoint", "http://localhost:4318", "OTLP collector endpoint")

	return cmd
}

func newRecorder(cmd *cobra.Command, cfg *benchConfig, logger *slog.Logger) (*metrics.Recorder, error) {
	p, err := metrics.ParseProvider(cfg.provider)
	if err != nil {
		return nil, err
	}

	opts := []metrics.Option{metrics.WithLogger(logger), metrics.WithServiceName("pathmatch-bench")}
	switch p {
	case metrics.StdoutProvider:
		opts = append(opts, metrics.WithStdout(cmd.OutOrStdout()), metrics.WithExportInterval(time.Hour))
	case metrics.OTLPProvider:
		opts = append(opts, metrics.WithOTLP(cfg.otlpEndpoint))
	default:
		opts = append(opts, metrics.WithPrometheus())
	}
	return metrics.New(opts...)
}

func runBench(cmd *cobra.Command, flags *globalFlags, cfg *benchConfig, lookups []lookup) error {
	if cfg.iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", cfg.iterations)
	}

	logger, err := flags.logger(cmd)
	if err != nil {
		return err
	}
	rec, err := newRecorder(cmd, cfg, logger)
	if err != nil {
		return err
	}

	r, _, err := loadRouter(cmd, flags, rec.RouterOption())
	if err != nil {
		_ = rec.Shutdown(context.Background())
		return err
	}
	r.Freeze()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "strategy: %s, routes: %d, iterations: %d\n", r.Strategy(), r.Len(), cfg.iterations)
	for _, l := range lookups {
		var (
			matches int
			lastErr error
		)
		start := time.Now()
		for range cfg.iterations {
			res, err := r.Match(l.method, l.path)
			if err != nil {
				lastErr = err
				continue
			}
			matches = len(res.Matches)
		}
		perOp := time.Since(start) / time.Duration(cfg.iterations)

		if lastErr != nil {
			fmt.Fprintf(out, "%-7s %-40s %10v/op  error: %v\n", l.method, l.path, perOp, lastErr)
			continue
		}
		fmt.Fprintf(out, "%-7s %-40s %10v/op  %d matches\n", l.method, l.path, perOp, matches)
	}

	if rec.Provider() == metrics.PrometheusProvider {
		fmt.Fprintln(out)
		if err := rec.WriteText(out); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return rec.Shutdown(ctx)
}
