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

package stats

// NoOp is a Sink that discards every increment. It is the default when no
// sink is configured.
//
//nolint:gochecknoglobals
var NoOp Sink = noOpSink{}

type noOpSink struct{}

func (noOpSink) IncHealthyPanic()           {}
func (noOpSink) IncZoneClusterTooSmall()    {}
func (noOpSink) IncZoneNumberDiffers()      {}
func (noOpSink) IncLocalClusterNotOK()      {}
func (noOpSink) IncZoneRoutingAllDirectly() {}
func (noOpSink) IncZoneRoutingSampled()     {}
func (noOpSink) IncZoneRoutingCrossZone()   {}
func (noOpSink) IncZoneNoCapacityLeft()     {}
