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

package lb

import (
	"github.com/coredataplane/upstreamlb/host"
	"github.com/coredataplane/upstreamlb/internal"
	"github.com/coredataplane/upstreamlb/runtime"
	"github.com/coredataplane/upstreamlb/stats"
)

const (
	runtimeKeyZoneRoutingEnabled     = "upstream.zone_routing.enabled"
	runtimeKeyZoneRoutingMinCluster  = "upstream.zone_routing.min_cluster_size"
	defaultZoneRoutingEnabledPercent = 100
	defaultMinClusterSize            = 6

	// percentScale is the fixed-point scale used for locality
	// percentages: values are percentage × 100, preserving two decimal
	// digits of precision without floating point.
	percentScale = 10000
)

// LocalityRoutingState tags how a priority's locality router is
// configured.
type LocalityRoutingState int

const (
	// NoLocalityRouting means selection ignores locality entirely and
	// returns the flat healthy-hosts list.
	NoLocalityRouting LocalityRoutingState = iota
	// LocalityDirect means all traffic is routed to the local locality.
	LocalityDirect
	// LocalityResidual means local traffic is mixed with residual
	// capacity spread across remote localities.
	LocalityResidual
)

func (s LocalityRoutingState) String() string {
	switch s {
	case NoLocalityRouting:
		return "NoLocalityRouting"
	case LocalityDirect:
		return "LocalityDirect"
	case LocalityResidual:
		return "LocalityResidual"
	default:
		return "LocalityRoutingState(unknown)"
	}
}

// PerPriorityState is the locality-routing decision recomputed for one
// priority on every membership change.
type PerPriorityState struct {
	State LocalityRoutingState

	// LocalPercentToRoute is meaningful only when State is
	// LocalityResidual: the percentage (×100) of requests to route to
	// the local locality before spilling to residual capacity.
	LocalPercentToRoute uint64

	// ResidualCapacity holds, for each remote locality i (1-based in the
	// original locality ordering), the cumulative scaled residual
	// through locality i. The last element is the total remote residual.
	// Meaningful only when State is LocalityResidual.
	ResidualCapacity []uint64
}

// calculateLocalityPercentage returns, for each locality, its share of
// the total host count scaled by percentScale, truncating.
// An empty input or zero total yields all zeros.
func calculateLocalityPercentage(hostsPerLocality [][]host.Host) []uint64 {
	pct := make([]uint64, len(hostsPerLocality))
	var total uint64
	for _, locality := range hostsPerLocality {
		total += uint64(len(locality))
	}
	if total == 0 {
		return pct
	}
	for i, locality := range hostsPerLocality {
		pct[i] = percentScale * uint64(len(locality)) / total
	}
	return pct
}

// computePerPriorityState recomputes the locality-routing decision for one
// priority, given the upstream host set at that priority and the local
// (proxy-local) priority-0 host set. local may be nil, meaning no local
// priority set was supplied at all.
func computePerPriorityState(
	upstream host.HostSet,
	local host.HostSet,
	loader runtime.Loader,
	src internal.Source,
	minClusterSize uint64,
	sink stats.Sink,
) PerPriorityState {
	noRouting := PerPriorityState{State: NoLocalityRouting}

	if local == nil {
		return noRouting
	}

	upstreamPerLocality := upstream.HealthyHostsPerLocality()
	if len(upstreamPerLocality) < 2 {
		return noRouting
	}

	gatePercent := loader.GetInteger(runtimeKeyZoneRoutingEnabled, defaultZoneRoutingEnabledPercent)
	if !runtime.FeatureEnabled(gatePercent, src.Uint64()) {
		return noRouting
	}

	if isGlobalPanic(upstream, loader) {
		return noRouting
	}

	effectiveMinCluster := loader.GetInteger(runtimeKeyZoneRoutingMinCluster, minClusterSize)
	if uint64(len(upstream.HealthyHosts())) < effectiveMinCluster {
		sink.IncZoneClusterTooSmall()
		return noRouting
	}

	localPerLocality := local.HealthyHostsPerLocality()
	if len(upstreamPerLocality) != len(localPerLocality) {
		sink.IncZoneNumberDiffers()
		return noRouting
	}

	if isGlobalPanic(local, loader) || len(local.Hosts()) == 0 {
		sink.IncLocalClusterNotOK()
		return noRouting
	}

	upstreamPct := calculateLocalityPercentage(upstreamPerLocality)
	localPct := calculateLocalityPercentage(localPerLocality)

	if upstreamPct[0] >= localPct[0] {
		return PerPriorityState{State: LocalityDirect}
	}

	localPercentToRoute := percentScale * upstreamPct[0] / localPct[0]

	residual := make([]uint64, len(upstreamPct)-1)
	var running uint64
	for i := 1; i < len(upstreamPct); i++ {
		claimed := localPct[i] * upstreamPct[0] / localPct[0]
		var r uint64
		if upstreamPct[i] > claimed {
			r = upstreamPct[i] - claimed
		}
		running += r
		residual[i-1] = running
	}

	return PerPriorityState{
		State:               LocalityResidual,
		LocalPercentToRoute: localPercentToRoute,
		ResidualCapacity:    residual,
	}
}

// tryChooseLocalLocalityHosts applies the per-request locality decision.
// It must only be called when state.State is LocalityDirect or
// LocalityResidual; NoLocalityRouting is handled by the caller
// (hostsToUse returns the flat healthy list itself in that case).
func tryChooseLocalLocalityHosts(
	state PerPriorityState,
	upstream host.HostSet,
	loader runtime.Loader,
	src internal.Source,
	sink stats.Sink,
) []host.Host {
	gatePercent := loader.GetInteger(runtimeKeyZoneRoutingEnabled, defaultZoneRoutingEnabledPercent)
	if !runtime.FeatureEnabled(gatePercent, src.Uint64()) {
		return upstream.HealthyHosts()
	}

	perLocality := upstream.HealthyHostsPerLocality()

	switch state.State {
	case LocalityDirect:
		sink.IncZoneRoutingAllDirectly()
		return perLocality[0]

	case LocalityResidual:
		r1 := src.Uint64() % percentScale
		if r1 < state.LocalPercentToRoute {
			sink.IncZoneRoutingSampled()
			return perLocality[0]
		}

		totalResidual := uint64(0)
		if len(state.ResidualCapacity) > 0 {
			totalResidual = state.ResidualCapacity[len(state.ResidualCapacity)-1]
		}
		if totalResidual == 0 {
			sink.IncZoneNoCapacityLeft()
			return upstream.HealthyHosts()
		}

		r2 := src.Uint64() % totalResidual
		idx := searchResidualCapacity(state.ResidualCapacity, r2)
		sink.IncZoneRoutingCrossZone()
		return perLocality[idx+1]

	default:
		return upstream.HealthyHosts()
	}
}

// searchResidualCapacity returns the smallest i such that capacity[i] > r,
// via binary search over the monotone non-decreasing prefix-sum vector.
func searchResidualCapacity(capacity []uint64, r uint64) int {
	lo, hi := 0, len(capacity)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if capacity[mid] > r {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
