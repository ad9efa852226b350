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
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
)

// MaxRegexInstructions caps the compiled program size of a parameter constraint.
// Constraints run on the RE2 engine, so matching is linear in the input, but the
// constant factor grows with the program: large counted repetitions such as
// (?:ab){600} are rejected at registration.
const MaxRegexInstructions = 1000

// constraint is the result of analyzing a '{...}' parameter constraint.
type constraint struct {
	re         *regexp.Regexp
	spansSlash bool // The expression can match text containing '/'
}

// compileConstraint parses, analyzes and compiles a constraint expression.
// The returned regexp is anchored on both ends.
func compileConstraint(expr string) (constraint, error) {
	if strings.TrimSpace(expr) == "" {
		return constraint{}, fmt.Errorf("%w: empty expression", ErrInvalidRegex)
	}

	parsed, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return constraint{}, fmt.Errorf("%w: %w", ErrInvalidRegex, err)
	}

	prog, err := syntax.Compile(parsed.Simplify())
	if err != nil {
		return constraint{}, fmt.Errorf("%w: %w", ErrInvalidRegex, err)
	}
	if len(prog.Inst) > MaxRegexInstructions {
		return constraint{}, fmt.Errorf("%w: %d instructions (max %d)",
			ErrRegexTooComplex, len(prog.Inst), MaxRegexInstructions)
	}

	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return constraint{}, fmt.Errorf("%w: %w", ErrInvalidRegex, err)
	}

	return constraint{re: re, spansSlash: matchesSlash(parsed)}, nil
}

// matchesSlash reports whether any string matched by re can contain '/'.
// The check is structural: literals, character classes and any-char nodes
// are inspected; empty-width assertions never consume input.
func matchesSlash(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if r == '/' {
				return true
			}
		}
		return false
	case syntax.OpCharClass:
		// Rune holds inclusive [lo, hi] pairs.
		for i := 0; i+1 < len(re.Rune); i += 2 {
			if re.Rune[i] <= '/' && '/' <= re.Rune[i+1] {
				return true
			}
		}
		return false
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return true
	}

	for _, sub := range re.Sub {
		if matchesSlash(sub) {
			return true
		}
	}
	return false
}
