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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coredataplane/upstreamlb/host"
	"github.com/coredataplane/upstreamlb/host/hosttesting"
	"github.com/coredataplane/upstreamlb/picker"
	"github.com/coredataplane/upstreamlb/stats"
)

var _ picker.Substrate = (*Substrate)(nil)

func TestSubstrateEmptyHostSetReturnsNil(t *testing.T) {
	priorities := hosttesting.NewFakePrioritySet(hosttesting.NewFakeHostSet(nil, nil))
	sub := New(priorities)
	require.Nil(t, sub.HostsToUse())
}

func TestSubstrateScenarioTwoHealthyHosts(t *testing.T) {
	hosts := makeHosts(2, 2)
	priorities := hosttesting.NewFakePrioritySet(hosttesting.NewFakeHostSet(hosts, nil))
	sub := New(priorities)
	require.Equal(t, hosts, sub.HostsToUse())
}

func TestSubstrateScenarioPanicReturnsAllHosts(t *testing.T) {
	hosts := makeHosts(6, 2) // 33% healthy < 50% default threshold.
	sink := &stats.AtomicSink{}
	priorities := hosttesting.NewFakePrioritySet(hosttesting.NewFakeHostSet(hosts, nil))
	sub := New(priorities, WithStats(sink))

	for i := 0; i < 3; i++ {
		require.Equal(t, hosts, sub.HostsToUse())
	}
	require.Equal(t, uint64(3), sink.Snapshot().HealthyPanic)
}

func TestSubstrateGentleFailover(t *testing.T) {
	p0hosts := makeHosts(2, 0)
	p1hosts := makeHosts(2, 2)
	p0 := hosttesting.NewFakeHostSet(p0hosts, nil)
	p1 := hosttesting.NewFakeHostSet(p1hosts, nil)
	priorities := hosttesting.NewFakePrioritySet(p0, p1)
	sub := New(priorities)

	require.ElementsMatch(t, p1hosts, sub.HostsToUse())

	p0hosts[0].(*hosttesting.FakeHost).SetHealthy(true)
	priorities.Notify()

	require.ElementsMatch(t, []host.Host{p0hosts[0]}, sub.HostsToUse())
}

func TestSubstrateClose(t *testing.T) {
	priorities := hosttesting.NewFakePrioritySet(hosttesting.NewFakeHostSet(makeHosts(1, 1), nil))
	sub := New(priorities)
	require.NoError(t, sub.Close())
}

func TestSubstrateMaxHostWeightReflectsActivePriority(t *testing.T) {
	hosts := makeHosts(2, 2)
	hosts[1].(*hosttesting.FakeHost).SetWeight(5)
	priorities := hosttesting.NewFakePrioritySet(hosttesting.NewFakeHostSet(hosts, nil))
	sub := New(priorities)

	require.EqualValues(t, 5, sub.MaxHostWeight())
}

func TestSubstrateMaxHostWeightFollowsGentleFailover(t *testing.T) {
	p0hosts := makeHosts(1, 0)
	p0hosts[0].(*hosttesting.FakeHost).SetWeight(9)
	p1hosts := makeHosts(1, 1)
	p1hosts[0].(*hosttesting.FakeHost).SetWeight(2)
	p0 := hosttesting.NewFakeHostSet(p0hosts, nil)
	p1 := hosttesting.NewFakeHostSet(p1hosts, nil)
	priorities := hosttesting.NewFakePrioritySet(p0, p1)
	sub := New(priorities)

	// Priority 0 is unhealthy, so priority 1's gauge applies, not
	// priority 0's, even though priority 0's configured weight is higher.
	require.EqualValues(t, 2, sub.MaxHostWeight())
}

func TestSubstrateMaxHostWeightNoPriorities(t *testing.T) {
	priorities := hosttesting.NewFakePrioritySet()
	sub := New(priorities)
	require.EqualValues(t, 0, sub.MaxHostWeight())
}

// inconsistentHostSet deliberately violates the HealthyHosts ⊆ Hosts
// contract, to exercise the recompute invariant check.
type inconsistentHostSet struct {
	extraHealthy host.Host
}

func (inconsistentHostSet) Hosts() []host.Host { return nil }
func (s inconsistentHostSet) HealthyHosts() []host.Host {
	return []host.Host{s.extraHealthy}
}
func (inconsistentHostSet) HealthyHostsPerLocality() [][]host.Host { return nil }
func (inconsistentHostSet) MaxHostWeight() uint32                  { return 0 }

func TestHealthyHostsSubsetOfHostsDetectsViolation(t *testing.T) {
	consistent := hosttesting.NewFakeHostSet(makeHosts(2, 2), nil)
	require.True(t, healthyHostsSubsetOfHosts(consistent))

	violating := inconsistentHostSet{extraHealthy: hosttesting.NewFakeHost("ghost")}
	require.False(t, healthyHostsSubsetOfHosts(violating))
}

func TestSubstrateLocalityIntegration(t *testing.T) {
	upstreamPerLocality := localityHosts(1, 1, 1)
	localPerLocality := localityHosts(1, 1, 1)
	upstream := hosttesting.NewFakeHostSet(flatten(upstreamPerLocality), upstreamPerLocality)
	local := hosttesting.NewFakeHostSet(flatten(localPerLocality), localPerLocality)

	priorities := hosttesting.NewFakePrioritySet(upstream)
	localPriorities := hosttesting.NewFakePrioritySet(local)
	sink := &stats.AtomicSink{}

	sub := New(priorities, WithLocalPrioritySet(localPriorities), WithMinClusterSize(3), WithStats(sink))

	require.Equal(t, upstreamPerLocality[0], sub.HostsToUse())
	require.Equal(t, uint64(1), sink.Snapshot().ZoneRoutingAllDirectly)
}
