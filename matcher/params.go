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
	"slices"
	"strings"
)

// Slot binds a parameter name to the path segments [Start, End) of a Captures.
type Slot struct {
	Name  string
	Start int
	End   int
}

// Param is a resolved parameter.
type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Params are the parameters bound by one matched route. Values are
// resolved lazily against the shared Captures of the lookup.
//
// Slots are kept in pattern order. When a name is bound more than once
// (a mount prefix and a mounted route using the same name) the last
// binding, which belongs to the innermost pattern, wins.
type Params struct {
	caps  *Captures
	slots []Slot
}

// Get returns the value bound to name.
func (p Params) Get(name string) (string, bool) {
	for i := len(p.slots) - 1; i >= 0; i-- {
		if p.slots[i].Name == name {
			return p.caps.value(p.slots[i]), true
		}
	}
	return "", false
}

// Value returns the value bound to name, or "".
func (p Params) Value(name string) string {
	v, _ := p.Get(name)
	return v
}

// Len returns the number of distinct parameter names.
func (p Params) Len() int {
	n := 0
	for i, s := range p.slots {
		if p.firstIndex(s.Name) == i {
			n++
		}
	}
	return n
}

// All returns one Param per distinct name, in order of first appearance,
// each carrying its winning value.
func (p Params) All() []Param {
	if len(p.slots) == 0 {
		return nil
	}
	out := make([]Param, 0, len(p.slots))
	for i, s := range p.slots {
		if p.firstIndex(s.Name) != i {
			continue
		}
		v, _ := p.Get(s.Name)
		out = append(out, Param{Name: s.Name, Value: v})
	}
	return out
}

// Names returns the distinct parameter names, sorted.
func (p Params) Names() []string {
	names := make([]string, 0, len(p.slots))
	for _, s := range p.slots {
		names = append(names, s.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Map returns a fresh map of every parameter.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p.slots))
	for _, s := range p.slots {
		m[s.Name] = p.caps.value(s)
	}
	return m
}

// Slots returns the raw slot bindings. Callers must not modify them.
func (p Params) Slots() []Slot {
	return p.slots
}

// String formats the parameters as "{a=1, b=2}".
func (p Params) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, kv := range p.All() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(kv.Name)
		sb.WriteByte('=')
		sb.WriteString(kv.Value)
	}
	sb.WriteByte('}')
	return sb.String()
}

func (p Params) firstIndex(name string) int {
	return slices.IndexFunc(p.slots, func(s Slot) bool { return s.Name == name })
}
