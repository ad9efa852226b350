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
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"rivaas.dev/pathmatch/matcher"
)

// Instrumentation scope of the router's metrics.
const meterName = "rivaas.dev/pathmatch"

// Lookup outcomes recorded on pathmatch.lookups.
const (
	OutcomeMatched          = "matched"
	OutcomeNotFound         = "not_found"
	OutcomeMethodNotAllowed = "method_not_allowed"
	OutcomeUnsupported      = "unsupported"
)

// instruments holds the OpenTelemetry instruments of one router.
type instruments struct {
	enabled  bool // False for the no-op provider; lookups are then not timed
	routes   metric.Int64Counter
	lookups  metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	ins := &instruments{enabled: mp != nil}
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter(meterName)

	var err error
	ins.routes, err = meter.Int64Counter(
		"pathmatch.routes.registered",
		metric.WithDescription("Number of registered routes"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create route counter: %w", err)
	}

	ins.lookups, err = meter.Int64Counter(
		"pathmatch.lookups",
		metric.WithDescription("Number of lookups by strategy and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup counter: %w", err)
	}

	ins.duration, err = meter.Float64Histogram(
		"pathmatch.lookup.duration",
		metric.WithDescription("Duration of lookups in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.01),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup duration histogram: %w", err)
	}

	return ins, nil
}

func (ins *instruments) routeRegistered(method string) {
	if !ins.enabled {
		return
	}
	ins.routes.Add(context.Background(), 1, metric.WithAttributes(attribute.String("method", method)))
}

// start returns the lookup start time, or the zero time when disabled.
func (ins *instruments) start() time.Time {
	if !ins.enabled {
		return time.Time{}
	}
	return time.Now()
}

func (ins *instruments) lookup(strategy matcher.Strategy, outcome string, start time.Time) {
	if !ins.enabled {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("strategy", string(strategy)),
		attribute.String("outcome", outcome),
	)
	ctx := context.Background()
	ins.lookups.Add(ctx, 1, attrs)
	ins.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}

// outcomeOf classifies a lookup. Only *UnsupportedPathError reaches err.
func outcomeOf[T any](res *matcher.Result[T], err error) string {
	switch {
	case err != nil:
		return OutcomeUnsupported
	case res.Routed:
		return OutcomeMatched
	case res.MethodNotAllowed():
		return OutcomeMethodNotAllowed
	default:
		return OutcomeNotFound
	}
}
