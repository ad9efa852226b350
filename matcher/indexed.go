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
	"cmp"
	"slices"
	"strings"

	"rivaas.dev/pathmatch/compiler"
	"rivaas.dev/pathmatch/route"
)

// MaxOptionalParams is the largest number of optional parameters a route may
// declare and still be indexed. Each optional parameter doubles the number
// of tree entries for the route.
const MaxOptionalParams = 8

// Refusal describes a route the indexed matcher cannot represent.
// Lookups that reach the route fail with ErrIndexRefused.
type Refusal struct {
	Seq     int    `json:"seq"`
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Reason  string `json:"reason"`
}

// Indexed resolves lookups through one segment tree per method key.
//
// Optional parameters are expanded into one tree entry per combination.
// Entries made only of static segments live in a full-path map guarded by
// a bloom filter. The rest are inserted segment by segment: static children
// in a map, parameter edges keyed by constraint, a single-segment wildcard
// edge, and rest leaves at the node where a terminal rest segment starts.
//
// A route entry whose rest segment is not last (or that has two rest
// segments) is refused, and so is a route with more than MaxOptionalParams
// optional parameters. Every other route yields exactly the results of the
// Linear matcher.
type Indexed[T any] struct {
	table   *route.Table[T]
	cfg     config
	trees   map[string]*tree[T]
	refused []Refusal
}

type tree[T any] struct {
	root   *node[T]
	static map[string][]leaf[T] // Joined path text of fully static entries
	bloom  *bloomFilter         // Nil below bloomThreshold static paths
}

type node[T any] struct {
	static  map[string]*node[T]
	params  []paramEdge[T]
	any     *node[T]
	leaves  []leaf[T]     // Entries ending at this node
	rests   []restLeaf[T] // Entries whose terminal rest starts at this node
	refused []refusedEntry[T]
}

type paramEdge[T any] struct {
	key   string
	seg   *compiler.Segment
	child *node[T]
}

type leaf[T any] struct {
	route *route.Route[T]
	depth int
	slots []Slot // Shared by every hit
}

type restLeaf[T any] struct {
	route *route.Route[T]
	seg   *compiler.Segment
	slots []Slot // Slots before the rest segment
}

type refusedEntry[T any] struct {
	route  *route.Route[T]
	reason string
}

// NewIndexed builds an indexed matcher over t.
func NewIndexed[T any](t *route.Table[T], opts ...Option) *Indexed[T] {
	idx := &Indexed[T]{
		table: t,
		cfg:   newConfig(opts),
		trees: make(map[string]*tree[T]),
	}

	for _, r := range t.Routes() {
		idx.insert(r)
	}

	for _, tr := range idx.trees {
		if len(tr.static) < bloomThreshold {
			continue
		}
		tr.bloom = newBloomFilter(idx.cfg.bloomSize, idx.cfg.bloomHashes)
		for key := range tr.static {
			tr.bloom.addString(key)
		}
	}

	return idx
}

// Strategy returns StrategyIndexed.
func (idx *Indexed[T]) Strategy() Strategy {
	return StrategyIndexed
}

// Refused returns the routes the index cannot represent, in registration order.
func (idx *Indexed[T]) Refused() []Refusal {
	return idx.refused
}

func (idx *Indexed[T]) treeFor(method string) *tree[T] {
	tr, ok := idx.trees[method]
	if !ok {
		tr = &tree[T]{root: &node[T]{}, static: make(map[string][]leaf[T])}
		idx.trees[method] = tr
	}
	return tr
}

func (idx *Indexed[T]) insert(r *route.Route[T]) {
	tr := idx.treeFor(r.Method())
	segs := r.Pattern().Segments()

	var optional []int
	for i := range segs {
		if segs[i].Optional {
			optional = append(optional, i)
		}
	}

	if len(optional) > MaxOptionalParams {
		var prefix []*compiler.Segment
		for i := range segs {
			if segs[i].Variable() {
				break
			}
			prefix = append(prefix, &segs[i])
		}
		idx.refuse(tr, prefix, r, "too many optional parameters")
		return
	}

	variant := make([]*compiler.Segment, 0, len(segs))
	for mask := range 1 << len(optional) {
		variant = variant[:0]
		bit := 0
		for i := range segs {
			if segs[i].Optional {
				keep := mask&(1<<bit) != 0
				bit++
				if !keep {
					continue
				}
			}
			variant = append(variant, &segs[i])
		}
		idx.insertVariant(tr, r, variant)
	}
}

func (idx *Indexed[T]) insertVariant(tr *tree[T], r *route.Route[T], v []*compiler.Segment) {
	rests := 0
	firstRest := -1
	static := true
	for i, seg := range v {
		if seg.Kind != compiler.KindStatic {
			static = false
		}
		if seg.Rest() {
			if firstRest < 0 {
				firstRest = i
			}
			rests++
		}
	}

	switch {
	case rests > 1:
		idx.refuse(tr, v[:firstRest], r, "more than one multi-segment part")
		return
	case rests == 1 && firstRest != len(v)-1:
		idx.refuse(tr, v[:firstRest], r, "multi-segment part is not last")
		return
	}

	if static {
		texts := make([]string, len(v))
		for i, seg := range v {
			texts[i] = seg.Text
		}
		key := strings.Join(texts, "/")
		tr.static[key] = append(tr.static[key], leaf[T]{route: r, depth: len(v)})
		return
	}

	n := tr.root
	for i, seg := range v {
		if seg.Rest() {
			n.rests = append(n.rests, restLeaf[T]{route: r, seg: seg, slots: variantSlots(v[:i])})
			return
		}
		n = n.descend(seg)
	}
	n.leaves = append(n.leaves, leaf[T]{route: r, depth: len(v), slots: variantSlots(v)})
}

// refuse records r at the node reached by prefix.
func (idx *Indexed[T]) refuse(tr *tree[T], prefix []*compiler.Segment, r *route.Route[T], reason string) {
	n := tr.root
	for _, seg := range prefix {
		n = n.descend(seg)
	}
	n.refused = append(n.refused, refusedEntry[T]{route: r, reason: reason})

	if len(idx.refused) == 0 || idx.refused[len(idx.refused)-1].Seq != r.Seq() {
		idx.refused = append(idx.refused, Refusal{
			Seq:     r.Seq(),
			Method:  r.Method(),
			Pattern: r.Pattern().String(),
			Reason:  reason,
		})
	}
}

// descend returns the child for seg, creating it when missing.
func (n *node[T]) descend(seg *compiler.Segment) *node[T] {
	switch seg.Kind {
	case compiler.KindStatic:
		if n.static == nil {
			n.static = make(map[string]*node[T])
		}
		child, ok := n.static[seg.Text]
		if !ok {
			child = &node[T]{}
			n.static[seg.Text] = child
		}
		return child
	case compiler.KindWildcard:
		if n.any == nil {
			n.any = &node[T]{}
		}
		return n.any
	default:
		key := seg.MatchKey()
		for _, e := range n.params {
			if e.key == key {
				return e.child
			}
		}
		child := &node[T]{}
		n.params = append(n.params, paramEdge[T]{key: key, seg: seg, child: child})
		return child
	}
}

// variantSlots binds the named segments of an entry to their positions.
func variantSlots(v []*compiler.Segment) []Slot {
	var slots []Slot
	for i, seg := range v {
		if seg.Named() {
			slots = append(slots, Slot{Name: seg.Text, Start: i, End: i + 1})
		}
	}
	return slots
}

type hit[T any] struct {
	route *route.Route[T]
	slots []Slot
}

type frame[T any] struct {
	n     *node[T]
	depth int
}

// lookup appends the entries of tr matching caps to hits and the refused
// entries reached to refused.
func (tr *tree[T]) lookup(caps *Captures, hits []hit[T], refused []refusedEntry[T]) ([]hit[T], []refusedEntry[T]) {
	n := caps.Len()

	if len(tr.static) > 0 {
		key := caps.Text(0, n)
		if tr.bloom == nil || tr.bloom.testString(key) {
			for _, lf := range tr.static[key] {
				if lf.depth == n {
					hits = append(hits, hit[T]{route: lf.route, slots: lf.slots})
				}
			}
		}
	}

	stack := make([]frame[T], 1, 16)
	stack[0] = frame[T]{n: tr.root}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := f.n

		refused = append(refused, nd.refused...)

		for _, rl := range nd.rests {
			lo, _ := rl.seg.Span()
			if n-f.depth < lo || !rl.seg.Accepts(caps.Text(f.depth, n)) {
				continue
			}
			slots := rl.slots
			if rl.seg.Named() {
				slots = append(slices.Clip(slots), Slot{Name: rl.seg.Text, Start: f.depth, End: n})
			}
			hits = append(hits, hit[T]{route: rl.route, slots: slots})
		}

		if f.depth == n {
			for _, lf := range nd.leaves {
				hits = append(hits, hit[T]{route: lf.route, slots: lf.slots})
			}
			continue
		}

		s := caps.Segment(f.depth)
		next := f.depth + 1

		// Pushed in reverse so static children are visited first.
		if nd.any != nil {
			stack = append(stack, frame[T]{n: nd.any, depth: next})
		}
		for i := len(nd.params) - 1; i >= 0; i-- {
			if e := nd.params[i]; e.seg.Accepts(s) {
				stack = append(stack, frame[T]{n: e.child, depth: next})
			}
		}
		if child, ok := nd.static[s]; ok {
			stack = append(stack, frame[T]{n: child, depth: next})
		}
	}

	return hits, refused
}

// Match implements Matcher.
func (idx *Indexed[T]) Match(method, path string) (*Result[T], error) {
	caps := NewCaptures(path, idx.cfg.trailingSlash, idx.cfg.rawParams)

	var (
		hits    []hit[T]
		refused []refusedEntry[T]
	)
	if tr, ok := idx.trees[method]; ok {
		hits, refused = tr.lookup(caps, hits, refused)
	}
	if method != route.MethodAll {
		if tr, ok := idx.trees[route.MethodAll]; ok {
			hits, refused = tr.lookup(caps, hits, refused)
		}
	}

	slices.SortStableFunc(hits, func(a, b hit[T]) int {
		return cmp.Compare(a.route.Seq(), b.route.Seq())
	})

	if err := unsupported(method, path, hits, refused); err != nil {
		return nil, err
	}

	res := &Result[T]{Matches: make([]Match[T], 0, len(hits))}
	for _, h := range hits {
		res.Matches = append(res.Matches, Match[T]{Route: h.route, Params: Params{caps: caps, slots: h.slots}})
	}

	res.finish()
	if !res.Routed {
		res.Allowed = idx.allowed(method, caps)
	}
	return res, nil
}

// unsupported reports the lowest-sequence route that was either refused or
// reached through two entries. hits must be sorted by sequence.
func unsupported[T any](method, path string, hits []hit[T], refused []refusedEntry[T]) error {
	var (
		bad *route.Route[T]
		err *UnsupportedPathError
	)
	for i := 1; i < len(hits); i++ {
		if hits[i].route == hits[i-1].route {
			bad = hits[i].route
			err = &UnsupportedPathError{Reason: "more than one way to split the path", Err: ErrAmbiguousPath}
			break
		}
	}
	for _, rf := range refused {
		if bad == nil || rf.route.Seq() < bad.Seq() {
			bad = rf.route
			err = &UnsupportedPathError{Reason: rf.reason, Err: ErrIndexRefused}
		}
	}
	if bad == nil {
		return nil
	}

	err.Method = method
	err.Path = path
	err.Pattern = bad.Pattern().String()
	return err
}

// allowed lists the other concrete methods with a route that matches
// unambiguously. Refused routes never count.
func (idx *Indexed[T]) allowed(method string, caps *Captures) []string {
	var out []string
	for _, m := range idx.table.Methods() {
		if m == method {
			continue
		}
		tr, ok := idx.trees[m]
		if !ok {
			continue
		}
		hits, refused := tr.lookup(caps, nil, nil)
		if hasUniqueHit(hits, refused) {
			out = append(out, m)
		}
	}
	return out
}

// hasUniqueHit reports whether some route occurs exactly once in hits and
// was not refused.
func hasUniqueHit[T any](hits []hit[T], refused []refusedEntry[T]) bool {
	counts := make(map[*route.Route[T]]int, len(hits))
	for _, h := range hits {
		counts[h.route]++
	}
	for _, rf := range refused {
		delete(counts, rf.route)
	}
	for _, c := range counts {
		if c == 1 {
			return true
		}
	}
	return false
}
