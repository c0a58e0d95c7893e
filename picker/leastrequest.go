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

package picker

import (
	"context"

	"github.com/coredataplane/upstreamlb/host"
	"github.com/coredataplane/upstreamlb/internal"
	"github.com/coredataplane/upstreamlb/runtime"
)

const (
	runtimeKeyWeightEnabled = "upstream.weight_enabled"
	defaultWeightEnabled    = 1
)

// LeastRequestFactory builds the weighted-least-request policy:
// power-of-two-choices over active request counts when the
// max_host_weight gauge is at most 1 or upstream.weight_enabled is 0, or
// weight-sticky random when the gauge exceeds 1 and weighting is enabled.
//
// Unlike RandomFactory and roundRobinFactory, this policy's state
// (last_host, hits_left) must be cleared whenever the substrate's
// membership changes, since a stale sticky host may no longer be a valid
// candidate. Callers rebuild the Factory's Picker on every membership
// callback to get that invalidation; LeastRequestFactory itself never
// reuses prev's sticky state across a New call, only its random source.
type LeastRequestFactory struct {
	loader runtime.Loader
}

// NewLeastRequestFactory builds a LeastRequestFactory reading
// upstream.weight_enabled from loader. A nil loader behaves as if
// weighting were always enabled.
func NewLeastRequestFactory(loader runtime.Loader) *LeastRequestFactory {
	return &LeastRequestFactory{loader: loader}
}

func (f *LeastRequestFactory) New(prev Picker, sub Substrate) Picker {
	src := internal.NewSource()
	if prevLR, ok := prev.(*leastRequest); ok {
		src = prevLR.src
	}
	return &leastRequest{sub: sub, src: src, loader: f.loader}
}

type leastRequest struct {
	sub    Substrate
	src    internal.Source
	loader runtime.Loader

	lastHost host.Host
	hitsLeft uint32
}

func (p *leastRequest) Pick(context.Context) (host.Host, func(), error) {
	list := p.sub.HostsToUse()
	if len(list) == 0 {
		return nil, nil, nil
	}

	if p.weighted() {
		return p.pickWeighted(list), nil, nil
	}
	return p.pickPowerOfTwo(list), nil, nil
}

// weighted reports whether weight-sticky random mode applies: the
// max_host_weight gauge for this priority exceeds 1 and weighting isn't
// disabled at runtime. The gauge, not the candidate list passed to Pick,
// is read here deliberately — list is already filtered by panic/health/
// locality and may no longer contain the host carrying the cluster's
// maximum configured weight.
func (p *leastRequest) weighted() bool {
	if p.sub.MaxHostWeight() <= 1 {
		return false
	}
	loader := p.loader
	if loader == nil {
		loader = runtime.StaticLoader{}
	}
	return loader.GetInteger(runtimeKeyWeightEnabled, defaultWeightEnabled) != 0
}

func (p *leastRequest) pickPowerOfTwo(list []host.Host) host.Host {
	if len(list) == 1 {
		return list[0]
	}
	i := internal.Intn(p.src, len(list))
	j := internal.Intn(p.src, len(list))
	first, second := list[i], list[j]
	if first.ActiveRequests() <= second.ActiveRequests() {
		return first
	}
	return second
}

func (p *leastRequest) pickWeighted(list []host.Host) host.Host {
	if p.hitsLeft > 0 && stillPresent(p.lastHost, list) {
		p.hitsLeft--
		return p.lastHost
	}
	idx := internal.Intn(p.src, len(list))
	p.lastHost = list[idx]
	p.hitsLeft = p.lastHost.Weight() - 1
	return p.lastHost
}

func stillPresent(h host.Host, list []host.Host) bool {
	if h == nil {
		return false
	}
	for _, candidate := range list {
		if candidate == h {
			return true
		}
	}
	return false
}
