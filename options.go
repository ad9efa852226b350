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
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/pathmatch/matcher"
)

// config holds router settings. Options are not generic so one option
// list can configure routers of any handler type.
type config struct {
	strategy           matcher.Strategy
	trailingSlash      matcher.TrailingSlash
	rawParams          bool
	linearFallback     bool
	bloomFilterSize    uint64
	bloomHashFunctions int
	logger             *slog.Logger
	diagnostics        DiagnosticHandler
	meterProvider      metric.MeterProvider
}

// Option defines functional options for router configuration.
type Option func(*config)

func defaultConfig() config {
	return config{
		strategy:           matcher.StrategyIndexed,
		trailingSlash:      matcher.TrailingSlashTolerant,
		bloomFilterSize:    matcher.DefaultBloomFilterSize,
		bloomHashFunctions: matcher.DefaultBloomFilterHashFunctions,
		logger:             noopLogger,
	}
}

// WithStrategy selects the matcher. Default: matcher.StrategyIndexed.
func WithStrategy(s matcher.Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithTrailingSlash sets the trailing slash policy.
// Default: matcher.TrailingSlashTolerant, so "/book/" matches "/book".
func WithTrailingSlash(mode matcher.TrailingSlash) Option {
	return func(c *config) {
		c.trailingSlash = mode
	}
}

// WithRawParams disables percent-decoding of parameter values.
func WithRawParams() Option {
	return func(c *config) {
		c.rawParams = true
	}
}

// WithLinearFallback retries a lookup with the linear matcher when the
// indexed matcher refuses it. Ambiguous paths still fail.
func WithLinearFallback() Option {
	return func(c *config) {
		c.linearFallback = true
	}
}

// WithBloomFilterSize sets the bloom filter size, in bits, used by the
// indexed matcher for static paths.
// Default: 1000. Must be non-zero.
//
// Larger sizes lower the false positive rate at the cost of memory.
// For routers with many static routes, use 2-3x the number of static routes.
func WithBloomFilterSize(size uint64) Option {
	return func(c *config) {
		c.bloomFilterSize = size
	}
}

// WithBloomFilterHashFunctions sets the number of bloom filter hash functions.
// Default: 3. Must be positive.
func WithBloomFilterHashFunctions(numFuncs int) Option {
	return func(c *config) {
		c.bloomHashFunctions = numFuncs
	}
}

// WithLogger sets the logger for registration and lookup events.
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDiagnostics sets a handler for diagnostic events.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(c *config) {
		c.diagnostics = handler
	}
}

// WithMeterProvider enables lookup and registration metrics.
// Without it, instruments come from a no-op provider and lookups are not timed.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}

// validate reports every invalid setting at once. The strategy is stored in
// its canonical form.
func (c *config) validate() error {
	var errs []error

	if s, err := matcher.ParseStrategy(string(c.strategy)); err != nil {
		errs = append(errs, err)
	} else {
		c.strategy = s
	}
	if c.trailingSlash > matcher.TrailingSlashStrict {
		errs = append(errs, fmt.Errorf("%w: %d", matcher.ErrUnknownTrailingSlash, c.trailingSlash))
	}
	if c.bloomFilterSize == 0 {
		errs = append(errs, ErrBloomFilterSizeZero)
	}
	if c.bloomHashFunctions <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrBloomHashFunctionsInvalid, c.bloomHashFunctions))
	}

	return errors.Join(errs...)
}

// matcherOptions translates the router settings for the matcher package.
func (c *config) matcherOptions() []matcher.Option {
	opts := []matcher.Option{
		matcher.WithTrailingSlash(c.trailingSlash),
		matcher.WithBloomFilter(c.bloomFilterSize, c.bloomHashFunctions),
	}
	if c.rawParams {
		opts = append(opts, matcher.WithRawParams())
	}
	return opts
}
