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

package compiler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRegex indicates that a parameter constraint is not a valid regular expression.
	ErrInvalidRegex = errors.New("invalid parameter constraint")

	// ErrRegexTooComplex indicates that a parameter constraint compiles to a program
	// larger than MaxRegexInstructions.
	ErrRegexTooComplex = errors.New("parameter constraint too complex")

	// ErrDuplicateParam indicates that a parameter name is declared twice in one pattern.
	ErrDuplicateParam = errors.New("duplicate parameter name")

	// ErrEmptyParamName indicates a ':' segment without a name.
	ErrEmptyParamName = errors.New("empty parameter name")

	// ErrUnbalancedBraces indicates a parameter constraint with a missing '{' or '}'.
	ErrUnbalancedBraces = errors.New("unbalanced braces in parameter constraint")

	// ErrOptionalRest indicates an optional parameter whose constraint spans segments.
	ErrOptionalRest = errors.New("multi-segment parameter cannot be optional")
)

// PatternError is returned when a route pattern cannot be compiled.
// Err is one of the sentinel errors of this package, possibly wrapping
// the underlying cause (for example a regexp/syntax error).
type PatternError struct {
	Pattern string // Normalized pattern text
	Segment string // Offending segment, empty when not segment-specific
	Err     error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("pattern %q: segment %q: %v", e.Pattern, e.Segment, e.Err)
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Err
}
