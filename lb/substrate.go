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

// Package lb implements the host-selection core: the panic detector, the
// priority selector, the locality router, and the substrate (hostsToUse)
// that combines them into the single decision every picker policy builds
// on.
package lb

import (
	"sync"

	"go.uber.org/zap"

	"github.com/coredataplane/upstreamlb/host"
	"github.com/coredataplane/upstreamlb/internal"
	"github.com/coredataplane/upstreamlb/internal/log"
	"github.com/coredataplane/upstreamlb/runtime"
	"github.com/coredataplane/upstreamlb/stats"
)

// Option configures a Substrate at construction time.
type Option interface {
	apply(*substrateOptions)
}

type substrateOptions struct {
	local          host.PrioritySet
	loader         runtime.Loader
	sink           stats.Sink
	source         internal.Source
	minClusterSize uint64
	logger         *zap.Logger
}

type optionFunc func(*substrateOptions)

func (f optionFunc) apply(o *substrateOptions) { f(o) }

// WithLocalPrioritySet supplies the local (proxy-local) priority set used
// for locality-aware routing. Only its priority-0 host set is consulted.
// If never set, locality routing is always off.
func WithLocalPrioritySet(local host.PrioritySet) Option {
	return optionFunc(func(o *substrateOptions) { o.local = local })
}

// WithRuntime supplies the keyed configuration lookup used for the core's
// runtime keys. Defaults to a StaticLoader with no overrides, i.e. every
// key uses its documented default.
func WithRuntime(loader runtime.Loader) Option {
	return optionFunc(func(o *substrateOptions) { o.loader = loader })
}

// WithStats supplies the counter sink the substrate writes through.
// Defaults to stats.NoOp.
func WithStats(sink stats.Sink) Option {
	return optionFunc(func(o *substrateOptions) { o.sink = sink })
}

// WithSource overrides the random source used for locality sampling.
// Defaults to internal.NewSource(). Tests use this to pin a scripted
// sequence.
func WithSource(src internal.Source) Option {
	return optionFunc(func(o *substrateOptions) { o.source = src })
}

// WithMinClusterSize overrides the static default used for
// upstream.zone_routing.min_cluster_size when no runtime loader overrides
// it. Mirrors the original load balancer's construction-time zone-routing
// config (SPEC_FULL.md, supplemented feature 1).
func WithMinClusterSize(n uint64) Option {
	return optionFunc(func(o *substrateOptions) { o.minClusterSize = n })
}

// WithLogger supplies the logger used for debug-build assertions.
// Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(o *substrateOptions) { o.logger = logger })
}

// Substrate is the selection core's combination of the priority selector,
// panic detector, and locality router into a single hostsToUse decision.
// Every picker policy is built on top of one Substrate.
//
// A Substrate is not safe for concurrent use: it is owned by exactly one
// worker, matching a single-threaded-per-worker scheduling model. It
// allocates nothing on the hostsToUse path.
type Substrate struct {
	priorities host.PrioritySet
	local      host.PrioritySet
	loader     runtime.Loader
	sink       stats.Sink
	source     internal.Source
	minCluster uint64
	logger     *zap.Logger

	mu sync.Mutex
	// +checklocks:mu
	bestAvailable int
	// +checklocks:mu
	perPriority []PerPriorityState

	upstreamReg Registration
	localReg    Registration
}

// New builds a Substrate over priorities (the upstream cluster's
// per-priority host sets) and subscribes to its membership changes, and
// those of the local priority set if WithLocalPrioritySet is given.
func New(priorities host.PrioritySet, opts ...Option) *Substrate {
	options := substrateOptions{
		loader:         runtime.StaticLoader{},
		sink:           stats.NoOp,
		source:         internal.NewSource(),
		minClusterSize: defaultMinClusterSize,
		logger:         log.NoOp,
	}
	for _, opt := range opts {
		opt.apply(&options)
	}

	s := &Substrate{
		priorities: priorities,
		local:      options.local,
		loader:     options.loader,
		sink:       options.sink,
		source:     options.source,
		minCluster: options.minClusterSize,
		logger:     options.logger,
	}

	s.upstreamReg = newRegistration(priorities.AddUpdateCallback(s.recompute))
	if s.local != nil {
		s.localReg = newRegistration(s.local.AddUpdateCallback(s.recompute))
	}

	s.recompute()
	return s
}

// recompute is the update-plumbing callback: on any
// membership change to either priority set, it recomputes the best
// available host set across all priorities and the locality-routing
// state for every priority, not only the active one, since gentle
// failover may promote any priority at any time.
func (s *Substrate) recompute() {
	hostSets := s.priorities.HostSetsByPriority()

	var localHostSet host.HostSet
	if s.local != nil {
		if localSets := s.local.HostSetsByPriority(); len(localSets) > 0 {
			localHostSet = localSets[0]
		}
	}

	perPriority := make([]PerPriorityState, len(hostSets))
	for i, hs := range hostSets {
		if log.Assertions {
			log.AssertInvariant(s.logger, healthyHostsSubsetOfHosts(hs), "healthy hosts must be a subset of all hosts", zap.Int("priority", i))
		}
		perPriority[i] = computePerPriorityState(hs, localHostSet, s.loader, s.source, s.minCluster, s.sink)
	}

	s.mu.Lock()
	s.bestAvailable = bestAvailableHostSet(hostSets)
	s.perPriority = perPriority
	s.mu.Unlock()
}

// healthyHostsSubsetOfHosts checks the membership subsystem's own
// contract: every host HealthyHosts reports must also appear in Hosts.
// recompute only calls it when debug assertions are enabled, so this walk
// never runs on a production hot path.
func healthyHostsSubsetOfHosts(hs host.HostSet) bool {
	all := make(map[host.Host]struct{}, len(hs.Hosts()))
	for _, h := range hs.Hosts() {
		all[h] = struct{}{}
	}
	for _, h := range hs.HealthyHosts() {
		if _, ok := all[h]; !ok {
			return false
		}
	}
	return true
}

// currentPriority returns the host set HostsToUse and MaxHostWeight
// currently operate on, and its index, or (nil, -1) if there are no
// priorities at all.
func (s *Substrate) currentPriority() (host.HostSet, int) {
	hostSets := s.priorities.HostSetsByPriority()
	if len(hostSets) == 0 {
		return nil, -1
	}

	s.mu.Lock()
	idx := s.bestAvailable
	s.mu.Unlock()

	if idx >= len(hostSets) {
		// A membership change shrank the priority count since the last
		// recompute observed it; the callback that would correct this
		// has already been queued by the membership subsystem. Fall back
		// to priority 0 for this one call rather than index out of range.
		idx = 0
	}
	return hostSets[idx], idx
}

// HostsToUse implements the substrate decision: the candidate
// pool every picker policy selects from for this call. Returns nil if
// there are currently no hosts at all.
func (s *Substrate) HostsToUse() []host.Host {
	hostSet, idx := s.currentPriority()
	if hostSet == nil || len(hostSet.Hosts()) == 0 {
		return nil
	}

	if isGlobalPanic(hostSet, s.loader) {
		s.sink.IncHealthyPanic()
		return hostSet.Hosts()
	}

	s.mu.Lock()
	perPriority := s.perPriority
	s.mu.Unlock()

	state := PerPriorityState{State: NoLocalityRouting}
	if idx < len(perPriority) {
		state = perPriority[idx]
	}
	if state.State == NoLocalityRouting {
		return hostSet.HealthyHosts()
	}

	return tryChooseLocalLocalityHosts(state, hostSet, s.loader, s.source, s.sink)
}

// MaxHostWeight returns the max_host_weight gauge for the priority
// HostsToUse is currently drawing from: the maximum weight among every
// host configured there, healthy or not, as maintained by the membership
// subsystem. Returns 0 if there are currently no priorities at all.
func (s *Substrate) MaxHostWeight() uint32 {
	hostSet, _ := s.currentPriority()
	if hostSet == nil {
		return 0
	}
	return hostSet.MaxHostWeight()
}

// Close revokes the substrate's subscriptions to its priority sets. It is
// safe to call once; subsequent calls are no-ops that return nil.
func (s *Substrate) Close() error {
	err := closeRegistrations(s.upstreamReg, s.localReg)
	s.upstreamReg, s.localReg = Registration{}, Registration{}
	return err
}
