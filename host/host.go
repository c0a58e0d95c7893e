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

// Package host defines the data model the selection core consumes from
// the cluster-membership subsystem. Everything here is a non-owning view:
// a Host, HostSet, or PrioritySet is valid only until the membership
// subsystem fires the next update callback on it.
package host

// Host is an opaque backend identity. Its weight and health are mutable
// from the membership subsystem's point of view but are read, never
// written, by the selection core.
type Host interface {
	// Address is a stable display/identity string for the host (e.g.
	// "10.0.0.1:8080"). It is not interpreted by the core.
	Address() string

	// Weight is a positive integer used by the weighted-least-request
	// policy. A weight of 1 means "no preference."
	Weight() uint32

	// Healthy reports whether the membership subsystem currently
	// considers this host eligible for normal (non-panic) routing.
	Healthy() bool

	// ActiveRequests returns the host's current active-request counter,
	// maintained by the request lifecycle outside the core.
	ActiveRequests() uint64
}
