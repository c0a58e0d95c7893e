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

// Package statsprom adapts stats.Sink to Prometheus counters, for callers
// who already expose a Prometheus registry for their data plane.
package statsprom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/coredataplane/upstreamlb/stats"
)

// Sink is a stats.Sink that reports each counter through
// client_golang/prometheus. Construct one per cluster (the clusterName
// label distinguishes clusters sharing a registry) and register it with
// New before wiring it into a Substrate.
type Sink struct {
	healthyPanic           prometheus.Counter
	zoneClusterTooSmall    prometheus.Counter
	zoneNumberDiffers      prometheus.Counter
	localClusterNotOK      prometheus.Counter
	zoneRoutingAllDirectly prometheus.Counter
	zoneRoutingSampled     prometheus.Counter
	zoneRoutingCrossZone   prometheus.Counter
	zoneNoCapacityLeft     prometheus.Counter
}

var _ stats.Sink = (*Sink)(nil)

// New creates a Sink for clusterName and registers its counters with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer, clusterName string) *Sink {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "upstreamlb",
			Name:        name,
			Help:        help,
			ConstLabels: prometheus.Labels{"cluster": clusterName},
		})
		reg.MustRegister(c)
		return c
	}
	return &Sink{
		healthyPanic:           counter("lb_healthy_panic", "Panic-mode selections, lowest-priority host set."),
		zoneClusterTooSmall:    counter("lb_zone_cluster_too_small", "Locality routing skipped: cluster below min_cluster_size."),
		zoneNumberDiffers:      counter("lb_zone_number_differs", "Locality routing skipped: locality count mismatch."),
		localClusterNotOK:      counter("lb_local_cluster_not_ok", "Locality routing skipped: local cluster unhealthy or empty."),
		zoneRoutingAllDirectly: counter("lb_zone_routing_all_directly", "Requests routed entirely within the local locality."),
		zoneRoutingSampled:     counter("lb_zone_routing_sampled", "Requests sampled into the local locality under residual routing."),
		zoneRoutingCrossZone:   counter("lb_zone_routing_cross_zone", "Requests routed to a remote locality under residual routing."),
		zoneNoCapacityLeft:     counter("lb_zone_no_capacity_left", "Residual routing fell back to flat selection: zero capacity."),
	}
}

func (s *Sink) IncHealthyPanic()           { s.healthyPanic.Inc() }
func (s *Sink) IncZoneClusterTooSmall()    { s.zoneClusterTooSmall.Inc() }
func (s *Sink) IncZoneNumberDiffers()      { s.zoneNumberDiffers.Inc() }
func (s *Sink) IncLocalClusterNotOK()      { s.localClusterNotOK.Inc() }
func (s *Sink) IncZoneRoutingAllDirectly() { s.zoneRoutingAllDirectly.Inc() }
func (s *Sink) IncZoneRoutingSampled()     { s.zoneRoutingSampled.Inc() }
func (s *Sink) IncZoneRoutingCrossZone()   { s.zoneRoutingCrossZone.Inc() }
func (s *Sink) IncZoneNoCapacityLeft()     { s.zoneNoCapacityLeft.Inc() }
