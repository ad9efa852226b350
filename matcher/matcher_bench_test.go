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
	"testing"

	"rivaas.dev/pathmatch/route"
)

// benchDefs registers size routes, alternating static and parameterized
// patterns, behind one ALL middleware.
func benchDefs(size int) []def {
	defs := []def{{route.MethodAll, "*", "mw"}}
	for i := range size {
		if i%2 == 0 {
			defs = append(defs, def{"GET", fmt.Sprintf("/static/r%d/list", i), "h"})
		} else {
			defs = append(defs, def{"GET", fmt.Sprintf("/r%d/users/:id/posts/:post", i), "h"})
		}
	}
	return defs
}

func BenchmarkMatch(b *testing.B) {
	for _, size := range []int{10, 1000, 10000} {
		defs := benchDefs(size)
		tbl := newTable(b, defs)
		last := size - 1
		if last%2 == 0 {
			last--
		}
		paramPath := fmt.Sprintf("/r%d/users/42/posts/7", last)
		staticPath := fmt.Sprintf("/static/r%d/list", size-2+size%2)

		for _, s := range strategies {
			m, err := New(s, tbl)
			if err != nil {
				b.Fatal(err)
			}

			b.Run(fmt.Sprintf("%s/%d/param", s, size), func(b *testing.B) {
				b.ReportAllocs()
				for b.Loop() {
					if _, err := m.Match("GET", paramPath); err != nil {
						b.Fatal(err)
					}
				}
			})
			b.Run(fmt.Sprintf("%s/%d/static", s, size), func(b *testing.B) {
				b.ReportAllocs()
				for b.Loop() {
					if _, err := m.Match("GET", staticPath); err != nil {
						b.Fatal(err)
					}
				}
			})
			b.Run(fmt.Sprintf("%s/%d/miss", s, size), func(b *testing.B) {
				b.ReportAllocs()
				for b.Loop() {
					if _, err := m.Match("GET", "/nowhere/at/all"); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkNewIndexed(b *testing.B) {
	tbl := newTable(b, benchDefs(1000))

	b.ReportAllocs()
	for b.Loop() {
		NewIndexed(tbl)
	}
}
