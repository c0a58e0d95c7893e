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

package subset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDisabledWithNoSelectors(t *testing.T) {
	info, err := New(nil, NoFallback, nil)
	require.NoError(t, err)
	require.False(t, info.IsEnabled())
	require.Nil(t, info.SubsetKeys())
	require.Nil(t, info.DefaultSubset())
}

func TestNewRejectsInvalidFallbackPolicy(t *testing.T) {
	_, err := New(nil, FallbackPolicy(99), nil)
	require.ErrorIs(t, err, ErrInvalidFallbackPolicy)
}

func TestNewSkipsEmptySelectors(t *testing.T) {
	info, err := New([]Selector{
		{Keys: []string{"region"}},
		{Keys: nil},
		{Keys: []string{"az", "shard"}},
	}, DefaultSubset, map[string]string{"region": "us-east"})
	require.NoError(t, err)

	require.True(t, info.IsEnabled())
	require.Equal(t, DefaultSubset, info.FallbackPolicy())

	keys := info.SubsetKeys()
	require.Len(t, keys, 2)
	require.Contains(t, keys[0], "region")
	require.Contains(t, keys[1], "az")
	require.Contains(t, keys[1], "shard")

	require.Equal(t, map[string]string{"region": "us-east"}, info.DefaultSubset())
}

func TestDefaultSubsetIsCopied(t *testing.T) {
	src := map[string]string{"region": "us-east"}
	info, err := New([]Selector{{Keys: []string{"region"}}}, AnyEndpoint, src)
	require.NoError(t, err)

	src["region"] = "eu-west"
	require.Equal(t, map[string]string{"region": "us-east"}, info.DefaultSubset())

	got := info.DefaultSubset()
	got["region"] = "mutated"
	require.Equal(t, map[string]string{"region": "us-east"}, info.DefaultSubset())
}

func TestFallbackPolicyString(t *testing.T) {
	require.Equal(t, "NO_FALLBACK", NoFallback.String())
	require.Equal(t, "ANY_ENDPOINT", AnyEndpoint.String())
	require.Equal(t, "DEFAULT_SUBSET", DefaultSubset.String())
}
