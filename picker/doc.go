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

// Package picker implements host-selection policies on top of the lb
// substrate's candidate list.
//
// This package defines the core interface, [Picker], used to select a
// single host from a substrate's current candidates, and [Factory],
// used to build (and rebuild, on membership change) a Picker.
//
// It provides three concrete policies: [RoundRobinFactory],
// [RandomFactory], and [LeastRequestFactory]. None of them inspect
// anything beyond host.Host's own accessors; a caller wanting
// affinity-aware or capacity-aware selection implements its own Factory.
package picker
