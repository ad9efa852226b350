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
	"net/url"
	"strings"
)

// Captures is the split form of one request path, computed once per lookup
// and shared by every Params of the result.
type Captures struct {
	path string
	segs []string
	offs []int // Byte offset of segs[i] in path
	raw  bool  // Skip percent-decoding
}

// NewCaptures splits path into segments. One leading '/' is stripped;
// "/" and "" have no segments. Under TrailingSlashTolerant one trailing
// empty segment is dropped.
func NewCaptures(path string, mode TrailingSlash, raw bool) *Captures {
	c := &Captures{path: path, raw: raw}

	start := 0
	if strings.HasPrefix(path, "/") {
		start = 1
	}
	if start >= len(path) {
		return c
	}

	n := strings.Count(path[start:], "/") + 1
	c.segs = make([]string, 0, n)
	c.offs = make([]int, 0, n)

	for i := start; ; {
		end := strings.IndexByte(path[i:], '/')
		if end < 0 {
			c.segs = append(c.segs, path[i:])
			c.offs = append(c.offs, i)
			break
		}
		c.segs = append(c.segs, path[i:i+end])
		c.offs = append(c.offs, i)
		i += end + 1
	}

	if mode == TrailingSlashTolerant && len(c.segs) > 0 && c.segs[len(c.segs)-1] == "" {
		c.segs = c.segs[:len(c.segs)-1]
		c.offs = c.offs[:len(c.offs)-1]
	}
	return c
}

// Path returns the path as requested.
func (c *Captures) Path() string {
	return c.path
}

// Len returns the number of path segments.
func (c *Captures) Len() int {
	return len(c.segs)
}

// Segment returns raw path segment i.
func (c *Captures) Segment(i int) string {
	return c.segs[i]
}

// Text returns the raw path text spanned by segments [start, end),
// including the separating slashes. An empty range yields "".
func (c *Captures) Text(start, end int) string {
	switch {
	case start >= end:
		return ""
	case end-start == 1:
		return c.segs[start]
	default:
		return c.path[c.offs[start] : c.offs[end-1]+len(c.segs[end-1])]
	}
}

// value resolves a slot to its decoded value.
func (c *Captures) value(s Slot) string {
	v := c.Text(s.Start, s.End)
	if c.raw || !strings.Contains(v, "%") {
		return v
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return v
	}
	return decoded
}
