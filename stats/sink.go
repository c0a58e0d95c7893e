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

// Package stats defines the counter sink the selection core writes
// through. The per-host and per-cluster counters themselves are owned and
// aggregated by the membership subsystem; this package only
// defines the narrow write-side interface the core needs, plus a couple
// of concrete implementations.
package stats

// Sink is the set of named counters the core increments. The
// max_host_weight gauge the core reads is not part of Sink; it comes from
// host.HostSet.MaxHostWeight. All methods must be safe to call from the
// request hot path without blocking or allocating.
type Sink interface {
	IncHealthyPanic()
	IncZoneClusterTooSmall()
	IncZoneNumberDiffers()
	IncLocalClusterNotOK()
	IncZoneRoutingAllDirectly()
	IncZoneRoutingSampled()
	IncZoneRoutingCrossZone()
	IncZoneNoCapacityLeft()
}

// Counters is a snapshot of every counter in Sink, used by tests and by
// AtomicSink.Snapshot.
type Counters struct {
	HealthyPanic           uint64
	ZoneClusterTooSmall    uint64
	ZoneNumberDiffers      uint64
	LocalClusterNotOK      uint64
	ZoneRoutingAllDirectly uint64
	ZoneRoutingSampled     uint64
	ZoneRoutingCrossZone   uint64
	ZoneNoCapacityLeft     uint64
}
