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

package stats

import "sync/atomic"

// AtomicSink is an in-process Sink backed by sync/atomic counters. It is
// useful for single-process deployments and for tests that want to assert
// on counter values without standing up a metrics backend.
type AtomicSink struct {
	healthyPanic           atomic.Uint64
	zoneClusterTooSmall    atomic.Uint64
	zoneNumberDiffers      atomic.Uint64
	localClusterNotOK      atomic.Uint64
	zoneRoutingAllDirectly atomic.Uint64
	zoneRoutingSampled     atomic.Uint64
	zoneRoutingCrossZone   atomic.Uint64
	zoneNoCapacityLeft     atomic.Uint64
}

var _ Sink = (*AtomicSink)(nil)

func (s *AtomicSink) IncHealthyPanic()           { s.healthyPanic.Add(1) }
func (s *AtomicSink) IncZoneClusterTooSmall()    { s.zoneClusterTooSmall.Add(1) }
func (s *AtomicSink) IncZoneNumberDiffers()      { s.zoneNumberDiffers.Add(1) }
func (s *AtomicSink) IncLocalClusterNotOK()      { s.localClusterNotOK.Add(1) }
func (s *AtomicSink) IncZoneRoutingAllDirectly() { s.zoneRoutingAllDirectly.Add(1) }
func (s *AtomicSink) IncZoneRoutingSampled()     { s.zoneRoutingSampled.Add(1) }
func (s *AtomicSink) IncZoneRoutingCrossZone()   { s.zoneRoutingCrossZone.Add(1) }
func (s *AtomicSink) IncZoneNoCapacityLeft()     { s.zoneNoCapacityLeft.Add(1) }

// Snapshot returns the current value of every counter.
func (s *AtomicSink) Snapshot() Counters {
	return Counters{
		HealthyPanic:           s.healthyPanic.Load(),
		ZoneClusterTooSmall:    s.zoneClusterTooSmall.Load(),
		ZoneNumberDiffers:      s.zoneNumberDiffers.Load(),
		LocalClusterNotOK:      s.localClusterNotOK.Load(),
		ZoneRoutingAllDirectly: s.zoneRoutingAllDirectly.Load(),
		ZoneRoutingSampled:     s.zoneRoutingSampled.Load(),
		ZoneRoutingCrossZone:   s.zoneRoutingCrossZone.Load(),
		ZoneNoCapacityLeft:     s.zoneNoCapacityLeft.Load(),
	}
}
