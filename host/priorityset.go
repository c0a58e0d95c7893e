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

package host

// UpdateCallback is invoked by a PrioritySet whenever its membership
// changes: a host's health flips, a host is added or removed, or a new
// priority tier appears. The callback receives no arguments; callers are
// expected to re-read the PrioritySet's current state rather than diff
// against a prior snapshot.
type UpdateCallback func()

// PrioritySet is an ordered, dense-but-growable sequence of HostSets,
// indexed by priority (0 = most preferred). It is produced and owned by
// the cluster-membership subsystem; the selection core only reads it and
// subscribes to its changes.
type PrioritySet interface {
	// HostSetsByPriority returns the current host sets, indexed by
	// priority. Indices never shift once assigned, though the slice may
	// grow as new priorities appear.
	HostSetsByPriority() []HostSet

	// AddUpdateCallback registers cb to be invoked after any membership
	// change to any existing or future priority in this set, including
	// the appearance of a brand new priority tier. It returns a function
	// that revokes the registration; callers must invoke it when they no
	// longer need updates, to avoid a dangling invocation into a
	// destroyed subscriber. The returned function may report an
	// error if the underlying registry failed to revoke cleanly.
	AddUpdateCallback(cb UpdateCallback) (unregister func() error)
}

// StaticPrioritySet is an immutable PrioritySet for tests and examples.
// Since it never changes, AddUpdateCallback never invokes cb and
// unregister is a no-op.
type StaticPrioritySet struct {
	hostSets []HostSet
}

// NewStaticPrioritySet builds a PrioritySet from priority-ordered host sets.
func NewStaticPrioritySet(hostSets ...HostSet) *StaticPrioritySet {
	return &StaticPrioritySet{hostSets: hostSets}
}

func (s *StaticPrioritySet) HostSetsByPriority() []HostSet { return s.hostSets }

func (s *StaticPrioritySet) AddUpdateCallback(_ UpdateCallback) (unregister func() error) {
	return func() error { return nil }
}
