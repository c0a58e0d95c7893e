// Copyright 2025 The Upstreamlb Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runtime defines the keyed configuration lookup the selection
// core consults for its tunable thresholds, and a couple of concrete
// implementations. The runtime configuration store proper (the thing that
// receives pushed updates from an xDS-like control plane, a filesystem, or
// similar) is an external collaborator; this package only
// defines the interface the core needs and ships implementations useful
// outside of a production control plane.
package runtime

// Loader is a keyed integer/boolean configuration lookup with a
// caller-supplied default. Booleans are represented as non-zero integers,
// matching the convention the selection core's runtime keys use.
type Loader interface {
	// GetInteger returns the current value for key, or def if key is
	// unset or the loader has no opinion about it.
	GetInteger(key string, def uint64) uint64
}

// StaticLoader is a Loader backed by a fixed map, useful for tests and for
// callers that don't need live reconfiguration.
type StaticLoader map[string]uint64

func (l StaticLoader) GetInteger(key string, def uint64) uint64 {
	if v, ok := l[key]; ok {
		return v
	}
	return def
}

// FeatureEnabled evaluates a percentage-valued runtime key as a per-request
// gate: draw is any uniform value (callers pass a raw 64-bit draw); the
// feature is enabled iff draw mod 100 < percent. Percent is clamped to
// [0, 100].
func FeatureEnabled(percent uint64, draw uint64) bool {
	if percent > 100 {
		percent = 100
	}
	return draw%100 < percent
}
