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

// Package picker implements the three selection policies layered on top
// of the lb substrate: round-robin, weighted-least-request, and uniform
// random. Each policy reads lb.Substrate.HostsToUse fresh on every call;
// none of them cache the candidate list across calls.
package picker

import (
	"context"

	"github.com/coredataplane/upstreamlb/host"
)

// Substrate is the subset of lb.Substrate a policy depends on. Defined
// here, rather than imported directly, so policies can be tested against
// a fake without constructing a real priority set.
type Substrate interface {
	HostsToUse() []host.Host

	// MaxHostWeight returns the max_host_weight gauge for the priority
	// HostsToUse is currently drawing from: the maximum weight among every
	// host configured at that priority, healthy or not, as maintained by
	// the membership subsystem. This is deliberately not derivable from
	// HostsToUse's own return value, since that list is already filtered
	// by panic/health/locality and may exclude the very host carrying the
	// maximum weight.
	MaxHostWeight() uint32
}

// Picker selects one host per call. A nil Host with a nil error means
// there were no candidates to choose from; callers must check for nil
// before using the result. The returned func, if non-nil, is invoked when
// the caller is done with the host (e.g. to decrement a load counter);
// policies that don't track in-flight state return a nil func.
type Picker interface {
	Pick(ctx context.Context) (host.Host, func(), error)
}

// Factory builds a Picker given the current substrate. prev is the
// previously built Picker, if any, so a policy can carry state across
// membership changes (the round-robin counter, a random source) or
// reset it (weight-sticky random's last host); stateless factories
// ignore prev.
type Factory interface {
	New(prev Picker, sub Substrate) Picker
}

type factoryFunc func(prev Picker, sub Substrate) Picker

func (f factoryFunc) New(prev Picker, sub Substrate) Picker { return f(prev, sub) }

// pickerFunc adapts a plain function to the Picker interface.
type pickerFunc func(ctx context.Context) (host.Host, func(), error)

func (f pickerFunc) Pick(ctx context.Context) (host.Host, func(), error) { return f(ctx) }

// ErrorPicker returns a Picker that always fails with err.
func ErrorPicker(err error) Picker {
	return pickerFunc(func(context.Context) (host.Host, func(), error) {
		return nil, nil, err
	})
}
