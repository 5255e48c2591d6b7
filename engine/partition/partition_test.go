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

package partition_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/graphserving/engine/partition"
	"github.com/cubefs/graphserving/engine/partition/partitiontest"
	"github.com/cubefs/graphserving/proto"
)

func build(t *testing.T, fn func(b *partitiontest.Builder)) *partition.Partition {
	t.Helper()
	b := partitiontest.NewBuilder()
	fn(b)
	dir := t.TempDir()
	require.NoError(t, b.Build(dir, "p0"))
	p, err := partition.Load(partition.Config{DataPath: dir, StorageMode: proto.Streaming}, "p0")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, p.Close()) })
	return p
}

func TestNodeTypeAndExternalID(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		b.AddNode(100, 1)
		b.AddNode(200, 2)
	})
	require.EqualValues(t, 2, p.NodeCount())
	require.EqualValues(t, 1, p.GetNodeType(0))
	require.EqualValues(t, 2, p.GetNodeType(1))
	require.EqualValues(t, 100, p.ExternalID(0))
	require.EqualValues(t, 200, p.ExternalID(1))
	require.Equal(t, proto.DefaultNodeType, p.GetNodeType(99))
}

func TestEachNodeMapRecord(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		b.AddNode(10, 0)
		b.AddNode(20, 0)
	})
	var got []proto.NodeId
	p.EachNodeMapRecord(func(externalID proto.NodeId, internal uint64, nodeType proto.Type) {
		got = append(got, externalID)
	})
	require.Equal(t, []proto.NodeId{10, 20}, got)
}

func TestDenseNodeFeature(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		n := b.AddNode(1, 0)
		b.SetNodeDense(n, partitiontest.ByteFeature{ID: 5, Value: []byte{1, 2, 3}})
		b.AddNode(2, 0) // no features
	})

	require.True(t, p.HasNodeFeatures(0))
	require.False(t, p.HasNodeFeatures(1))

	out := p.GetNodeFeature(0, []proto.FeatureMeta{{Id: 5, Size: 5}})
	require.Equal(t, []byte{1, 2, 3, 0, 0}, out) // zero-padded to requested size

	out = p.GetNodeFeature(0, []proto.FeatureMeta{{Id: 5, Size: 2}})
	require.Equal(t, []byte{1, 2}, out) // truncated

	out = p.GetNodeFeature(0, []proto.FeatureMeta{{Id: 99, Size: 3}})
	require.Equal(t, []byte{0, 0, 0}, out) // missing feature id -> all zero
}

func TestStringNodeFeature(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		n := b.AddNode(1, 0)
		b.SetNodeString(n, partitiontest.ByteFeature{ID: 1, Value: []byte("hello")})
	})

	res := p.GetNodeStringFeature(0, []proto.FeatureId{1, 2})
	require.Len(t, res, 1)
	require.Equal(t, 0, res[0].FeatureIdx)
	require.Equal(t, []byte("hello"), res[0].Bytes)
}

func TestSparseNodeFeature(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		n := b.AddNode(1, 0)
		b.SetNodeSparse(n, partitiontest.SparseFeature{
			ID: 7, Dimension: 100,
			Indices: []int64{3, 9}, Values: []float32{0.5, 1.5},
		})
	})

	res := p.GetNodeSparseFeature(0, []proto.FeatureId{7})
	require.Len(t, res, 1)
	require.EqualValues(t, 100, res[0].Dimension)
	require.Equal(t, []int64{3, 9}, res[0].Indices)
	require.Equal(t, []float32{0.5, 1.5}, res[0].Values)
}

func TestEdgeFeaturesAndLookup(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		src := b.AddNode(1, 0)
		b.AddNode(2, 0)
		h := b.AddEdge(src, 2, 4, 0.75)
		h.Dense(partitiontest.ByteFeature{ID: 1, Value: []byte{9, 9}})
		h.String(partitiontest.ByteFeature{ID: 2, Value: []byte("edge")})
		h.Sparse(partitiontest.SparseFeature{ID: 3, Dimension: 10, Indices: []int64{1}, Values: []float32{2}})
	})

	data, found := p.GetEdgeFeature(0, 2, 4, []proto.FeatureMeta{{Id: 1, Size: 2}})
	require.True(t, found)
	require.Equal(t, []byte{9, 9}, data)

	_, found = p.GetEdgeFeature(0, 2, 99, []proto.FeatureMeta{{Id: 1, Size: 2}})
	require.False(t, found, "wrong edge type must not match")

	strRes, found := p.GetEdgeStringFeature(0, 2, 4, []proto.FeatureId{2})
	require.True(t, found)
	require.Equal(t, []byte("edge"), strRes[0].Bytes)

	sparseRes, found := p.GetEdgeSparseFeature(0, 2, 4, []proto.FeatureId{3})
	require.True(t, found)
	require.Equal(t, []float32{2}, sparseRes[0].Values)
}

func TestNeighborEnumerationAndCount(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		src := b.AddNode(1, 0)
		b.AddNode(2, 0)
		b.AddNode(3, 0)
		b.AddEdge(src, 2, 1, 1.0)
		b.AddEdge(src, 3, 2, 2.0)
	})

	ids, types, weights := p.FullNeighbor(0, nil)
	require.Len(t, ids, 2)
	require.ElementsMatch(t, []proto.Type{1, 2}, types)
	require.ElementsMatch(t, []float32{1.0, 2.0}, weights)

	require.EqualValues(t, 1, p.NeighborCount(0, []proto.Type{2}))
	require.EqualValues(t, 0, p.NeighborCount(0, []proto.Type{99}))
}

func TestSampleNeighborWeighted(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		src := b.AddNode(1, 0)
		b.AddNode(2, 0)
		b.AddNode(3, 0)
		b.AddEdge(src, 2, 1, 1.0)
		b.AddEdge(src, 3, 1, 3.0)
	})

	rng := rand.New(rand.NewSource(42))
	ids, weights, types, total, ok := p.SampleNeighbor(rng, 0, nil, 10)
	require.True(t, ok)
	require.Len(t, ids, 10)
	require.Len(t, weights, 10)
	require.Len(t, types, 10)
	require.EqualValues(t, 4.0, total)
	for _, id := range ids {
		require.Contains(t, []proto.NodeId{2, 3}, id)
	}
}

func TestUniformSampleNeighborWithoutReplacement(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		src := b.AddNode(1, 0)
		b.AddNode(2, 0)
		b.AddNode(3, 0)
		b.AddEdge(src, 2, 1, 1.0)
		b.AddEdge(src, 3, 1, 1.0)
	})

	rng := rand.New(rand.NewSource(1))
	ids, _, shardCount, ok := p.UniformSampleNeighbor(rng, true, 0, nil, 5)
	require.True(t, ok)
	require.EqualValues(t, 2, shardCount)
	require.Len(t, ids, 2, "without replacement caps draws at the number of matching neighbors")

	seen := map[proto.NodeId]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "without replacement must not repeat a neighbor")
		seen[id] = true
	}
}

func TestSampleNeighborNoMatch(t *testing.T) {
	p := build(t, func(b *partitiontest.Builder) {
		b.AddNode(1, 0)
	})
	rng := rand.New(rand.NewSource(1))
	_, _, _, _, ok := p.SampleNeighbor(rng, 0, nil, 3)
	require.False(t, ok)
}
