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

// Package hosttesting provides fakes for the host package's interfaces,
// for use in tests of the selection core and its policies.
package hosttesting

import (
	"sync"
	"sync/atomic"

	"github.com/coredataplane/upstreamlb/host"
)

// FakeHost is a mutable implementation of host.Host for tests. Health,
// weight, and active-request count can all be changed after construction;
// none of those changes alone notify a PrioritySet's subscribers — call
// FakePrioritySet.Notify (FakePrioritySet.AddPriority does it for you) to
// simulate a membership-change callback.
type FakeHost struct {
	AddressValue string
	weight       atomic.Uint32
	healthy      atomic.Bool
	active       atomic.Uint64
}

// NewFakeHost creates a healthy FakeHost with weight 1.
func NewFakeHost(address string) *FakeHost {
	h := &FakeHost{AddressValue: address}
	h.weight.Store(1)
	h.healthy.Store(true)
	return h
}

func (h *FakeHost) Address() string        { return h.AddressValue }
func (h *FakeHost) Weight() uint32         { return h.weight.Load() }
func (h *FakeHost) Healthy() bool          { return h.healthy.Load() }
func (h *FakeHost) ActiveRequests() uint64 { return h.active.Load() }

func (h *FakeHost) SetWeight(w uint32)         { h.weight.Store(w) }
func (h *FakeHost) SetHealthy(v bool)          { h.healthy.Store(v) }
func (h *FakeHost) SetActiveRequests(n uint64) { h.active.Store(n) }

// FakeHostSet is a mutable host.HostSet for tests.
type FakeHostSet struct {
	mu          sync.Mutex
	hosts       []host.Host
	perLocality [][]host.Host
}

// NewFakeHostSet builds a FakeHostSet. perLocality[0] is the local
// locality; pass nil if locality is irrelevant to the test, in which case
// HealthyHostsPerLocality returns a single bucket holding all healthy
// hosts.
func NewFakeHostSet(hosts []host.Host, perLocality [][]host.Host) *FakeHostSet {
	return &FakeHostSet{hosts: hosts, perLocality: perLocality}
}

func (s *FakeHostSet) Hosts() []host.Host {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hosts
}

func (s *FakeHostSet) HealthyHosts() []host.Host {
	s.mu.Lock()
	defer s.mu.Unlock()
	var healthy []host.Host
	for _, h := range s.hosts {
		if h.Healthy() {
			healthy = append(healthy, h)
		}
	}
	return healthy
}

func (s *FakeHostSet) HealthyHostsPerLocality() [][]host.Host {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perLocality == nil {
		return [][]host.Host{s.healthyLocked()}
	}
	result := make([][]host.Host, len(s.perLocality))
	for i, locality := range s.perLocality {
		var healthy []host.Host
		for _, h := range locality {
			if h.Healthy() {
				healthy = append(healthy, h)
			}
		}
		result[i] = healthy
	}
	return result
}

func (s *FakeHostSet) healthyLocked() []host.Host {
	var healthy []host.Host
	for _, h := range s.hosts {
		if h.Healthy() {
			healthy = append(healthy, h)
		}
	}
	return healthy
}

func (s *FakeHostSet) MaxHostWeight() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var max uint32
	for _, h := range s.hosts {
		if h.Weight() > max {
			max = h.Weight()
		}
	}
	return max
}

// SetHosts replaces the full host list (and, if non-nil, the locality
// partitioning) without notifying subscribers. Pair with
// FakePrioritySet.Notify.
func (s *FakeHostSet) SetHosts(hosts []host.Host, perLocality [][]host.Host) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hosts = hosts
	if perLocality != nil {
		s.perLocality = perLocality
	}
}

// FakePrioritySet is a mutable host.PrioritySet for tests. Notify must be
// called explicitly after mutating any of its host sets to simulate the
// membership subsystem firing an update callback.
type FakePrioritySet struct {
	mu        sync.Mutex
	hostSets  []host.HostSet
	callbacks []host.UpdateCallback
}

// NewFakePrioritySet builds a FakePrioritySet from priority-ordered host sets.
func NewFakePrioritySet(hostSets ...host.HostSet) *FakePrioritySet {
	return &FakePrioritySet{hostSets: hostSets}
}

func (s *FakePrioritySet) HostSetsByPriority() []host.HostSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hostSets
}

func (s *FakePrioritySet) AddUpdateCallback(cb host.UpdateCallback) (unregister func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, cb)
	idx := len(s.callbacks) - 1
	return func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.callbacks) {
			s.callbacks[idx] = nil
		}
		return nil
	}
}

// AddPriority appends a new priority tier and notifies subscribers, as the
// membership subsystem does when a priority first appears.
func (s *FakePrioritySet) AddPriority(hs host.HostSet) {
	s.mu.Lock()
	s.hostSets = append(s.hostSets, hs)
	s.mu.Unlock()
	s.Notify()
}

// Notify invokes every registered callback, simulating a membership
// change. Safe to call after mutating a FakeHost or FakeHostSet directly.
func (s *FakePrioritySet) Notify() {
	s.mu.Lock()
	callbacks := make([]host.UpdateCallback, len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()
	for _, cb := range callbacks {
		if cb != nil {
			cb()
		}
	}
}
