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
	"github.com/coredataplane/upstreamlb/runtime"
)

const (
	runtimeKeyHealthyPanicThreshold = "upstream.healthy_panic_threshold"
	defaultHealthyPanicThreshold    = 50
)

// isGlobalPanic decides whether hostSet is too unhealthy to filter by
// health: when fewer than threshold percent of hosts are healthy, we
// prefer routing to unhealthy hosts over failing the request, on the
// theory that the health signal itself is likely broken. An empty host
// set is never in panic; the caller treats "no hosts" as a separate
// condition.
func isGlobalPanic(hostSet host.HostSet, loader runtime.Loader) bool {
	threshold := loader.GetInteger(runtimeKeyHealthyPanicThreshold, defaultHealthyPanicThreshold)
	if threshold > 100 {
		threshold = 100
	}
	n := len(hostSet.Hosts())
	if n == 0 {
		return false
	}
	h := len(hostSet.HealthyHosts())
	healthyPercent := uint64(100*h) / uint64(n)
	return healthyPercent < threshold
}
