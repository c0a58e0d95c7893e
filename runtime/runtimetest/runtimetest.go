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

// Package runtimetest adapts clockwork's fake clock to runtime.Clock.
// Compatibility between Go interfaces is shallow: a method returning
// clockwork.Ticker is not compatible with one returning runtime.Ticker
// even though every clockwork.Ticker satisfies runtime.Ticker, so the
// return value has to be re-boxed explicitly.
package runtimetest

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/coredataplane/upstreamlb/runtime"
)

// FakeClock adapts *clockwork.FakeClock to runtime.Clock and additionally
// exposes Advance, so tests can drive FileLoader's poll loop deterministically.
type FakeClock struct {
	*clockwork.FakeClock
}

// NewFakeClock returns a FakeClock wrapping a fresh clockwork fake clock,
// which starts at clockwork's default fake time.
func NewFakeClock() *FakeClock {
	return &FakeClock{clockwork.NewFakeClock()}
}

var _ runtime.Clock = (*FakeClock)(nil)

func (f *FakeClock) NewTicker(d time.Duration) runtime.Ticker {
	return f.FakeClock.NewTicker(d)
}
