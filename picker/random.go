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

package picker

import (
	"context"

	"github.com/coredataplane/upstreamlb/host"
	"github.com/coredataplane/upstreamlb/internal"
)

//nolint:gochecknoglobals
var (
	// RandomFactory creates pickers that draw a uniform index over
	// lb.Substrate.HostsToUse on every call.
	RandomFactory Factory = randomFactory{}
)

type randomFactory struct{}

func (randomFactory) New(prev Picker, sub Substrate) Picker {
	if prevRandom, ok := prev.(*random); ok {
		return &random{sub: sub, src: prevRandom.src}
	}
	return &random{sub: sub, src: internal.NewSource()}
}

// NewRandomFactory builds a random-policy Factory drawing from src instead
// of a freshly seeded source, for tests that need a scripted sequence.
func NewRandomFactory(src internal.Source) Factory {
	return factoryFunc(func(_ Picker, sub Substrate) Picker {
		return &random{sub: sub, src: src}
	})
}

type random struct {
	sub Substrate
	src internal.Source
}

func (r *random) Pick(context.Context) (host.Host, func(), error) {
	list := r.sub.HostsToUse()
	if len(list) == 0 {
		return nil, nil, nil
	}
	return list[internal.Intn(r.src, len(list))], nil, nil
}
