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

	"rivaas.dev/pathmatch/compiler"
	"rivaas.dev/pathmatch/matcher"
)

var (
	// ErrRouterFrozen indicates a registration after Freeze.
	ErrRouterFrozen = errors.New("router is frozen")

	// ErrEmptyMethod indicates a registration with an empty method string.
	ErrEmptyMethod = errors.New("method must not be empty")

	// ErrNilSubRouter indicates a Mount call without a sub-router.
	ErrNilSubRouter = errors.New("sub-router is nil")

	// ErrBloomFilterSizeZero indicates that the bloom filter size must be greater than zero.
	ErrBloomFilterSizeZero = errors.New("bloom filter size must be non-zero")

	// ErrBloomHashFunctionsInvalid indicates that the number of bloom hash functions must be positive.
	ErrBloomHashFunctionsInvalid = errors.New("bloom hash functions must be positive")

	// ErrAmbiguousPath is matcher.ErrAmbiguousPath.
	ErrAmbiguousPath = matcher.ErrAmbiguousPath

	// ErrIndexRefused is matcher.ErrIndexRefused.
	ErrIndexRefused = matcher.ErrIndexRefused
)

// PatternError is returned by registration methods for invalid patterns.
type PatternError = compiler.PatternError

// UnsupportedPathError is returned by Match for paths that cannot be
// resolved unambiguously.
type UnsupportedPathError = matcher.UnsupportedPathError
