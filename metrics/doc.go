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

// Package metrics builds OpenTelemetry meter providers for pathmatch routers.
// It supports three exporters: Prometheus, OTLP and stdout.
//
// # Basic Usage
//
//	recorder := metrics.MustNew(metrics.WithPrometheus())
//	defer recorder.Shutdown(context.Background())
//
//	r := pathmatch.MustNew[http.HandlerFunc](recorder.RouterOption())
//	// ... register routes and serve traffic ...
//
//	http.Handle("/metrics", must(recorder.Handler()))
//
// # Global State
//
// This package never sets the global OpenTelemetry meter provider. Routers
// get the recorder's provider explicitly through Recorder.RouterOption.
//
// # Providers
//
//   - PrometheusProvider (default): private registry, served by Recorder.Handler
//     and dumped by Recorder.WriteText
//   - OTLPProvider: pushes to an OTLP HTTP collector
//   - StdoutProvider: prints JSON to a writer (for development/testing)
package metrics
