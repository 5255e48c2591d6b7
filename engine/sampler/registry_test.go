// Copyright 2023 The CubeFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package sampler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/graphserving/proto"
)

type fakeSource struct {
	nodePop Population
	edgePop Population
}

func (f fakeSource) NodePopulation(_ []proto.Type) Population { return f.nodePop }
func (f fakeSource) EdgePopulation(_ []proto.Type) Population { return f.edgePop }

func TestCreateNodeWeightedSampler(t *testing.T) {
	r := New()
	src := fakeSource{nodePop: Population{
		Types:   []proto.Type{1, 1, 2},
		NodeIDs: []proto.NodeId{10, 20, 30},
		Weights: []float32{1, 2, 3},
	}}

	id, weight, err := r.Create(src, []proto.Type{1, 2}, false, proto.Weighted)
	require.NoError(t, err)
	require.Equal(t, float32(6), weight)
	require.Equal(t, 1, r.Len())

	types, ids, err := r.Sample(id, 42, 5)
	require.NoError(t, err)
	require.Len(t, types, 5)
	require.Len(t, ids, 5)
	for _, id := range ids {
		require.Contains(t, []proto.NodeId{10, 20, 30}, id)
	}
}

func TestCreateEdgeUniformSampler(t *testing.T) {
	r := New()
	src := fakeSource{edgePop: Population{
		Types: []proto.Type{1, 1},
		Src:   []proto.NodeId{1, 2},
		Dst:   []proto.NodeId{100, 200},
	}}

	id, weight, err := r.Create(src, []proto.Type{1}, true, proto.UniformWithoutReplacement)
	require.NoError(t, err)
	require.Equal(t, float32(2), weight)

	types, ids, err := r.Sample(id, 7, 2)
	require.NoError(t, err)
	require.Len(t, types, 2)
	require.Len(t, ids, 4)
	for _, src := range ids[:2] {
		require.Contains(t, []proto.NodeId{1, 2}, src)
	}
	for _, dst := range ids[2:] {
		require.Contains(t, []proto.NodeId{100, 200}, dst)
	}
}

func TestSampleUnknownID(t *testing.T) {
	r := New()
	_, _, err := r.Sample(999, 1, 1)
	require.Error(t, err)
}

func TestCreateUnknownCategory(t *testing.T) {
	r := New()
	_, _, err := r.Create(fakeSource{}, nil, false, proto.SamplerCategory(99))
	require.Error(t, err)
}
