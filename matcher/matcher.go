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

package matcher

import (
	"fmt"
	"strings"

	"rivaas.dev/pathmatch/route"
)

// Matcher resolves a (method, path) pair against a route table snapshot.
// Implementations are immutable and safe for concurrent use.
type Matcher[T any] interface {
	// Match returns every route matching method and path, in registration order.
	// It fails only with *UnsupportedPathError.
	Match(method, path string) (*Result[T], error)

	// Strategy reports which algorithm the matcher implements.
	Strategy() Strategy
}

// Strategy selects a matcher implementation.
type Strategy string

const (
	// StrategyLinear walks every candidate route in registration order.
	StrategyLinear Strategy = "linear"

	// StrategyIndexed walks a per-method segment tree.
	StrategyIndexed Strategy = "indexed"
)

// ParseStrategy parses a strategy name, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyLinear:
		return StrategyLinear, nil
	case StrategyIndexed:
		return StrategyIndexed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// TrailingSlash is the policy applied to a trailing '/' on request paths.
type TrailingSlash uint8

const (
	// TrailingSlashTolerant ignores one trailing '/': "/book/" matches like "/book".
	TrailingSlashTolerant TrailingSlash = iota

	// TrailingSlashStrict keeps the trailing empty segment. "/book/" only
	// matches patterns that accept an empty last segment, such as "/book/*".
	TrailingSlashStrict
)

// String returns the policy name.
func (t TrailingSlash) String() string {
	if t == TrailingSlashStrict {
		return "strict"
	}
	return "tolerant"
}

// ParseTrailingSlash parses "tolerant" or "strict". The empty string is tolerant.
func ParseTrailingSlash(s string) (TrailingSlash, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tolerant":
		return TrailingSlashTolerant, nil
	case "strict":
		return TrailingSlashStrict, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTrailingSlash, s)
	}
}

// Default bloom filter parameters for the static path set of the indexed matcher.
const (
	DefaultBloomFilterSize          = 1000
	DefaultBloomFilterHashFunctions = 3
)

// config holds the options shared by both strategies.
type config struct {
	trailingSlash TrailingSlash
	rawParams     bool
	bloomSize     uint64
	bloomHashes   int
}

// Option configures a matcher.
type Option func(*config)

// WithTrailingSlash sets the trailing slash policy. Default: TrailingSlashTolerant.
func WithTrailingSlash(mode TrailingSlash) Option {
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

// WithBloomFilter sizes the bloom filter guarding the static path set of the
// indexed matcher. Non-positive values keep the defaults. The linear matcher
// ignores it.
func WithBloomFilter(size uint64, hashFunctions int) Option {
	return func(c *config) {
		if size > 0 {
			c.bloomSize = size
		}
		if hashFunctions > 0 {
			c.bloomHashes = hashFunctions
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		trailingSlash: TrailingSlashTolerant,
		bloomSize:     DefaultBloomFilterSize,
		bloomHashes:   DefaultBloomFilterHashFunctions,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// New builds a matcher of the given strategy over t.
func New[T any](s Strategy, t *route.Table[T], opts ...Option) (Matcher[T], error) {
	switch s {
	case StrategyLinear:
		return NewLinear(t, opts...), nil
	case StrategyIndexed:
		return NewIndexed(t, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
	}
}
