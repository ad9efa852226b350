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

// RouteInfo describes a registered route for introspection.
type RouteInfo struct {
	Seq      int      `json:"seq" yaml:"seq"`
	Method   string   `json:"method" yaml:"method"`
	Pattern  string   `json:"pattern" yaml:"pattern"`
	Params   []string `json:"params,omitempty" yaml:"params,omitempty"`
	Handlers int      `json:"handlers" yaml:"handlers"` // Number of handlers
}

// Routes returns every registered route in registration order.
func (r *Router[T]) Routes() []RouteInfo {
	routes := r.Table().Routes()
	infos := make([]RouteInfo, 0, len(routes))
	for _, rt := range routes {
		infos = append(infos, RouteInfo{
			Seq:      rt.Seq(),
			Method:   rt.Method(),
			Pattern:  rt.Pattern().String(),
			Params:   rt.Pattern().Params(),
			Handlers: len(rt.Handlers()),
		})
	}
	return infos
}

// Len returns the number of registered routes.
func (r *Router[T]) Len() int {
	return r.Table().Len()
}
