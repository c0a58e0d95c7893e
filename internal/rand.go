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

// Package internal holds allocation-free primitives shared by the
// selection core and its policies: a per-worker random source.
package internal

import (
	"hash/maphash"
	"math/rand"
)

// Source is the single 64-bit uniform generator the core and its policies
// draw from. Each worker owns its own Source; nothing here is
// safe for concurrent use, matching the single-threaded-per-worker
// scheduling model.
type Source interface {
	// Uint64 returns a uniformly distributed value across the full
	// 64-bit range.
	Uint64() uint64
}

// Intn draws a uniform value in [0, n) from src, using `draw mod n`,
// which is biased only when n approaches 2^63 — negligible for cluster
// and locality sizes in practice. Panics if n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		panic("internal.Intn: n must be positive")
	}
	return int(src.Uint64() % uint64(n))
}

// NewSource returns a properly seeded Source. The seed is computed using
// "hash/maphash", which can be used concurrently and is lock-free:
// effectively, the runtime's internal per-thread RNG seeds a new
// math/rand source, avoiding any synchronization with the global rand.
// This solution comes from a discussion in a Reddit thread:
//
//	https://www.reddit.com/r/golang/comments/m9b0yp/comment/grotn1f/
func NewSource() Source {
	return mathRandSource{rand.New(rand.NewSource(randomSeed()))} //nolint:gosec // don't need cryptographic RNG
}

func randomSeed() int64 {
	var hash maphash.Hash
	return int64(hash.Sum64())
}

type mathRandSource struct {
	rnd *rand.Rand
}

func (m mathRandSource) Uint64() uint64 {
	return m.rnd.Uint64()
}
