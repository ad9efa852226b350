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
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousPath indicates that a path can be split across a pattern's
	// optional or multi-segment parts in more than one way.
	ErrAmbiguousPath = errors.New("ambiguous segment boundary")

	// ErrIndexRefused indicates that the indexed matcher cannot represent a
	// route the path reached. The linear matcher can still resolve it.
	ErrIndexRefused = errors.New("route not representable in index")

	// ErrUnknownStrategy indicates a matcher strategy name that is not supported.
	ErrUnknownStrategy = errors.New("unknown matcher strategy")

	// ErrUnknownTrailingSlash indicates a trailing slash policy name that is not supported.
	ErrUnknownTrailingSlash = errors.New("unknown trailing slash policy")
)

// UnsupportedPathError is returned by Match when a path cannot be resolved
// against an otherwise valid route set. Err is ErrAmbiguousPath or ErrIndexRefused.
type UnsupportedPathError struct {
	Method  string // Requested method
	Path    string // Requested path
	Pattern string // Pattern of the offending route
	Reason  string // Human-readable detail
	Err     error
}

// Error implements the error interface.
func (e *UnsupportedPathError) Error() string {
	msg := fmt.Sprintf("unsupported path %s %q: route %q: %v", e.Method, e.Path, e.Pattern, e.Err)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Unwrap returns the underlying sentinel error.
func (e *UnsupportedPathError) Unwrap() error {
	return e.Err
}
