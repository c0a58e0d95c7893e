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

// Package randtest provides a scripted stand-in for internal.Source, so
// tests can pin the exact sequence of draws the core and its policies
// observe ("Tests replace the generator with a scripted
// sequence").
package randtest

import "github.com/coredataplane/upstreamlb/internal"

// Scripted is an internal.Source that replays a fixed sequence of Uint64
// values, looping once exhausted. It panics if constructed with no values.
type Scripted struct {
	values []uint64
	next   int
	calls  int
}

var _ internal.Source = (*Scripted)(nil)

// NewScripted returns a Scripted source that yields values in order,
// wrapping around once the sequence is exhausted.
func NewScripted(values ...uint64) *Scripted {
	if len(values) == 0 {
		panic("randtest: NewScripted requires at least one value")
	}
	return &Scripted{values: values}
}

func (s *Scripted) Uint64() uint64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	s.calls++
	return v
}

// Calls returns how many draws have been made so far.
func (s *Scripted) Calls() int {
	return s.calls
}
