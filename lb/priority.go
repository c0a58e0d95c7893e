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

import "github.com/coredataplane/upstreamlb/host"

// bestAvailableHostSet walks priorities 0..k and returns the index of the
// first priority whose HealthyHosts is non-empty. If none has any healthy
// host, it falls back to priority 0. Failover is "gentle": traffic hops to
// the next tier the instant the preferred tier loses all health, and
// returns the instant health is restored there.
func bestAvailableHostSet(hostSets []host.HostSet) int {
	for i, hs := range hostSets {
		if len(hs.HealthyHosts()) > 0 {
			return i
		}
	}
	return 0
}
