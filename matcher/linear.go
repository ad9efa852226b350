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
	"rivaas.dev/pathmatch/compiler"
	"rivaas.dev/pathmatch/route"
)

// Linear tests every candidate route of a lookup in registration order.
// It resolves every pattern the compiler accepts and is the reference the
// indexed matcher is checked against.
type Linear[T any] struct {
	table *route.Table[T]
	cfg   config
}

// NewLinear returns a linear matcher over t.
func NewLinear[T any](t *route.Table[T], opts ...Option) *Linear[T] {
	return &Linear[T]{table: t, cfg: newConfig(opts)}
}

// Strategy returns StrategyLinear.
func (l *Linear[T]) Strategy() Strategy {
	return StrategyLinear
}

// Match implements Matcher.
func (l *Linear[T]) Match(method, path string) (*Result[T], error) {
	caps := NewCaptures(path, l.cfg.trailingSlash, l.cfg.rawParams)
	res := &Result[T]{}

	for r := range l.table.Candidates(method) {
		slots, n := matchPattern(r.Pattern(), caps)
		switch {
		case n == 0:
			continue
		case n > 1:
			return nil, &UnsupportedPathError{
				Method:  method,
				Path:    path,
				Pattern: r.Pattern().String(),
				Reason:  "more than one way to split the path",
				Err:     ErrAmbiguousPath,
			}
		}
		res.Matches = append(res.Matches, Match[T]{Route: r, Params: Params{caps: caps, slots: slots}})
	}

	res.finish()
	if !res.Routed {
		res.Allowed = l.allowed(method, caps)
	}
	return res, nil
}

// allowed lists the other concrete methods with a route that matches
// unambiguously.
func (l *Linear[T]) allowed(method string, caps *Captures) []string {
	var out []string
	for _, m := range l.table.Methods() {
		if m == method {
			continue
		}
		for _, r := range l.table.Concrete(m) {
			if _, n := matchPattern(r.Pattern(), caps); n == 1 {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// matchPattern counts the ways caps can be split across p, stopping at two.
// slots describe the split when there is exactly one.
func matchPattern(p *compiler.Pattern, caps *Captures) ([]Slot, int) {
	segs := p.Segments()
	n := caps.Len()

	lo, hi := p.SpanRange()
	if n < lo || (hi != compiler.Unbounded && n > hi) {
		return nil, 0
	}

	switch p.Variable() {
	case 0:
		for i := range segs {
			if !segs[i].Accepts(caps.Segment(i)) {
				return nil, 0
			}
		}
		return buildSlots(segs, nil), 1
	case 1:
		return singleSplit(segs, caps)
	default:
		return countSplits(segs, caps)
	}
}

// singleSplit checks the only split of a pattern with one variable segment.
// The span range check guarantees the remainder fits that segment.
func singleSplit(segs []compiler.Segment, caps *Captures) ([]Slot, int) {
	extra := caps.Len() - len(segs) + 1
	spans := make([]int, len(segs))
	pos := 0
	for i := range segs {
		span := 1
		if segs[i].Variable() {
			span = extra
		}
		if !spanAccepts(&segs[i], caps, pos, span) {
			return nil, 0
		}
		spans[i] = span
		pos += span
	}
	return buildSlots(segs, spans), 1
}

// countSplits fills a table over (segment, path position) pairs:
// ways[i*(n+1)+q] is the number of splits, capped at two, of the first i
// segments over the first q path segments. first records the span segment
// i-1 took in the first split reaching the cell. Only reachable cells are
// expanded, so a lookup costs at most segments x n^2 segment checks.
func countSplits(segs []compiler.Segment, caps *Captures) ([]Slot, int) {
	n := caps.Len()
	k := len(segs)
	width := n + 1

	// minTail[i] and maxTail[i] bound the path segments segs[i:] consume.
	minTail := make([]int, k+1)
	maxTail := make([]int, k+1)
	for i := k - 1; i >= 0; i-- {
		lo, hi := segs[i].Span()
		minTail[i] = minTail[i+1] + lo
		if hi == compiler.Unbounded || maxTail[i+1] == compiler.Unbounded {
			maxTail[i] = compiler.Unbounded
		} else {
			maxTail[i] = maxTail[i+1] + hi
		}
	}

	ways := make([]uint8, (k+1)*width)
	first := make([]int, (k+1)*width)
	ways[0] = 1

	for i := range segs {
		seg := &segs[i]
		lo, hi := seg.Span()
		for q := 0; q <= n; q++ {
			w := ways[i*width+q]
			if w == 0 {
				continue
			}

			top := n - q - minTail[i+1]
			if hi != compiler.Unbounded {
				top = min(top, hi)
			}
			bottom := lo
			if maxTail[i+1] != compiler.Unbounded {
				bottom = max(bottom, n-q-maxTail[i+1])
			}

			for span := bottom; span <= top; span++ {
				if !spanAccepts(seg, caps, q, span) {
					continue
				}
				at := (i+1)*width + q + span
				if ways[at] == 0 {
					first[at] = span
				}
				ways[at] = min(2, ways[at]+w)
			}
		}
	}

	if w := ways[k*width+n]; w != 1 {
		return nil, int(w)
	}

	// A single split reaches every cell on its path exactly once.
	spans := make([]int, k)
	q := n
	for i := k; i > 0; i-- {
		spans[i-1] = first[i*width+q]
		q -= spans[i-1]
	}
	return buildSlots(segs, spans), 1
}

// spanAccepts checks seg against span path segments starting at pos.
func spanAccepts(seg *compiler.Segment, caps *Captures, pos, span int) bool {
	switch {
	case seg.Rest():
		return seg.Accepts(caps.Text(pos, pos+span))
	case span == 0:
		return true // absent optional
	default:
		return seg.Accepts(caps.Segment(pos))
	}
}

// buildSlots binds named segments to path ranges. A nil spans means every
// segment spans one path segment.
func buildSlots(segs []compiler.Segment, spans []int) []Slot {
	var slots []Slot
	pos := 0
	for i := range segs {
		span := 1
		if spans != nil {
			span = spans[i]
		}
		if segs[i].Named() && span > 0 {
			slots = append(slots, Slot{Name: segs[i].Text, Start: pos, End: pos + span})
		}
		pos += span
	}
	return slots
}
