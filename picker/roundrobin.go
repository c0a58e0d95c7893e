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
	"sync/atomic"

	"github.com/coredataplane/upstreamlb/host"
)

//nolint:gochecknoglobals
var (
	// RoundRobinFactory creates pickers that return hosts from
	// lb.Substrate.HostsToUse in strict, stable sequential order. Unlike
	// a connection-pool round robin, the candidate list is not shuffled
	// at construction: the substrate's own ordering is the tie-break,
	// stable by the order in which the list arrives.
	RoundRobinFactory Factory = roundRobinFactory{}
)

type roundRobinFactory struct{}

func (roundRobinFactory) New(prev Picker, sub Substrate) Picker {
	p := &roundRobin{sub: sub}
	if prevRR, ok := prev.(*roundRobin); ok {
		p.counter.Store(prevRR.counter.Load())
	}
	return p
}

type roundRobin struct {
	sub Substrate
	// +checkatomic
	counter atomic.Uint64
}

func (r *roundRobin) Pick(context.Context) (host.Host, func(), error) {
	list := r.sub.HostsToUse()
	if len(list) == 0 {
		return nil, nil, nil
	}
	idx := r.counter.Add(1) - 1
	return list[idx%uint64(len(list))], nil, nil
}
