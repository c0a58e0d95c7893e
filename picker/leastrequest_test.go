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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coredataplane/upstreamlb/host"
	"github.com/coredataplane/upstreamlb/host/hosttesting"
	"github.com/coredataplane/upstreamlb/internal/randtest"
	"github.com/coredataplane/upstreamlb/runtime"
)

func TestLeastRequestPowerOfTwoBias(t *testing.T) {
	lightlyLoaded := hosttesting.NewFakeHost("light")
	lightlyLoaded.SetActiveRequests(1)
	heavilyLoaded := hosttesting.NewFakeHost("heavy")
	heavilyLoaded.SetActiveRequests(2)
	sub := &fakeSubstrate{list: []host.Host{lightlyLoaded, heavilyLoaded}, maxWeight: 1}

	factory := NewLeastRequestFactory(runtime.StaticLoader{})

	// Both draw orders must resolve to the lightly loaded host.
	forward := factory.New(nil, sub)
	forward.(*leastRequest).src = randtest.NewScripted(0, 1)
	h, _, err := forward.Pick(context.Background())
	require.NoError(t, err)
	require.Equal(t, "light", h.Address())

	reversed := factory.New(nil, sub)
	reversed.(*leastRequest).src = randtest.NewScripted(1, 0)
	h, _, err = reversed.Pick(context.Background())
	require.NoError(t, err)
	require.Equal(t, "light", h.Address())
}

func TestLeastRequestWeightedStickiness(t *testing.T) {
	h0 := hosttesting.NewFakeHost("h0")
	h0.SetWeight(1)
	h1 := hosttesting.NewFakeHost("h1")
	h1.SetWeight(3)
	sub := &fakeSubstrate{list: []host.Host{h0, h1}, maxWeight: 3}

	factory := NewLeastRequestFactory(runtime.StaticLoader{})
	p := factory.New(nil, sub).(*leastRequest)
	p.src = randtest.NewScripted(1, 0)

	h, _, err := p.Pick(context.Background())
	require.NoError(t, err)
	require.Equal(t, "h1", h.Address())
	require.Equal(t, uint32(2), p.hitsLeft)

	h, _, err = p.Pick(context.Background())
	require.NoError(t, err)
	require.Equal(t, "h1", h.Address())
	require.Equal(t, uint32(1), p.hitsLeft)

	h, _, err = p.Pick(context.Background())
	require.NoError(t, err)
	require.Equal(t, "h1", h.Address())
	require.Equal(t, uint32(0), p.hitsLeft)

	h, _, err = p.Pick(context.Background())
	require.NoError(t, err)
	require.Equal(t, "h0", h.Address())
}

func TestLeastRequestRebuildClearsStickiness(t *testing.T) {
	h0 := hosttesting.NewFakeHost("h0")
	h1 := hosttesting.NewFakeHost("h1")
	h1.SetWeight(3)
	sub := &fakeSubstrate{list: []host.Host{h0, h1}, maxWeight: 3}

	factory := NewLeastRequestFactory(runtime.StaticLoader{})
	p := factory.New(nil, sub).(*leastRequest)
	p.src = randtest.NewScripted(1)
	_, _, err := p.Pick(context.Background())
	require.NoError(t, err)
	require.NotZero(t, p.hitsLeft)

	// A membership change rebuilds the picker; stickiness must not carry
	// over even though the random source does.
	rebuilt := factory.New(p, sub).(*leastRequest)
	require.Nil(t, rebuilt.lastHost)
	require.Zero(t, rebuilt.hitsLeft)
}

func TestLeastRequestWeightedModeReadsGaugeNotCandidateList(t *testing.T) {
	// Every host actually in the candidate list carries weight 1, but the
	// cluster's max_host_weight gauge (as the membership subsystem would
	// report it, independent of which hosts survive panic/health/locality
	// filtering) is 3. Weighted mode must follow the gauge.
	h0 := hosttesting.NewFakeHost("h0")
	h1 := hosttesting.NewFakeHost("h1")
	sub := &fakeSubstrate{list: []host.Host{h0, h1}, maxWeight: 3}

	factory := NewLeastRequestFactory(runtime.StaticLoader{})
	p := factory.New(nil, sub).(*leastRequest)
	p.src = randtest.NewScripted(1)

	_, _, err := p.Pick(context.Background())
	require.NoError(t, err)
	// Weighted mode sets hitsLeft = weight(last_host) - 1; both candidate
	// hosts have weight 1, so hitsLeft is 0, but lastHost/hitsLeft are only
	// ever set by pickWeighted, never by pickPowerOfTwo.
	require.NotNil(t, p.lastHost)
}

func TestLeastRequestEqualWeightModeWhenGaugeIsOne(t *testing.T) {
	// The candidate list contains a weight-3 host, but the gauge (what a
	// real membership subsystem would report for max_host_weight at this
	// priority) says 1 — e.g. the heavy host belongs to a different
	// priority tier. Equal-weight mode must follow the gauge, not the list.
	h0 := hosttesting.NewFakeHost("h0")
	h1 := hosttesting.NewFakeHost("h1")
	h1.SetWeight(3)
	sub := &fakeSubstrate{list: []host.Host{h0, h1}, maxWeight: 1}

	factory := NewLeastRequestFactory(runtime.StaticLoader{})
	p := factory.New(nil, sub).(*leastRequest)
	p.src = randtest.NewScripted(0, 1)

	_, _, err := p.Pick(context.Background())
	require.NoError(t, err)
	require.Nil(t, p.lastHost)
	require.Zero(t, p.hitsLeft)
}

func TestLeastRequestEqualWeightIgnoresWeightEnabledGate(t *testing.T) {
	h0 := hosttesting.NewFakeHost("h0")
	sub := &fakeSubstrate{list: []host.Host{h0}}

	factory := NewLeastRequestFactory(runtime.StaticLoader{"upstream.weight_enabled": 0})
	p := factory.New(nil, sub)
	h, _, err := p.Pick(context.Background())
	require.NoError(t, err)
	require.Equal(t, "h0", h.Address())
}
