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

package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/graphserving/engine/partition/partitiontest"
	"github.com/cubefs/graphserving/proto"
)

// Node 1 is replicated: partition 0 has no dense feature for it, partition 1
// does. GetNodeFeatures must skip the non-owning placement and use the
// first one that actually owns data, not simply the first placement.
func TestGetNodeFeaturesFirstOwningPlacementWins(t *testing.T) {
	e := buildEngine(t, 2,
		func(b *partitiontest.Builder) {
			b.AddNode(1, 0) // no dense feature at this placement
			b.AddNode(2, 0)
		},
		func(b *partitiontest.Builder) {
			n := b.AddNode(1, 0)
			b.SetNodeDense(n, partitiontest.ByteFeature{ID: 9, Value: []byte{7, 7}})
		},
	)

	reply, err := e.GetNodeFeatures(context.Background(), &proto.NodeFeaturesRequest{
		NodeIds:  []proto.NodeId{1, 2},
		Features: []proto.FeatureMeta{{Id: 9, Size: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{0}, reply.Offsets, "node 2 has no feature anywhere and must be absent")
	require.Equal(t, []byte{7, 7}, reply.FeatureValues)
}

func TestGetNodeFeaturesUnknownNodeOmitted(t *testing.T) {
	e := buildEngine(t, 1, func(b *partitiontest.Builder) {
		b.AddNode(1, 0)
	})
	reply, err := e.GetNodeFeatures(context.Background(), &proto.NodeFeaturesRequest{
		NodeIds:  []proto.NodeId{999},
		Features: []proto.FeatureMeta{{Id: 1, Size: 2}},
	})
	require.NoError(t, err)
	require.Empty(t, reply.Offsets)
	require.Empty(t, reply.FeatureValues)
}

func TestGetEdgeFeaturesSizeMismatch(t *testing.T) {
	e := buildEngine(t, 1, func(b *partitiontest.Builder) {
		b.AddNode(1, 0)
	})
	_, err := e.GetEdgeFeatures(context.Background(), &proto.EdgeFeaturesRequest{
		NodeIds: []proto.NodeId{1},
		Types:   []proto.Type{1, 2},
	})
	require.Error(t, err)
}

func TestGetEdgeFeaturesFound(t *testing.T) {
	e := buildEngine(t, 1, func(b *partitiontest.Builder) {
		src := b.AddNode(1, 0)
		b.AddNode(2, 0)
		b.AddEdge(src, 2, 4, 1.0).Dense(partitiontest.ByteFeature{ID: 1, Value: []byte{3, 4}})
	})

	reply, err := e.GetEdgeFeatures(context.Background(), &proto.EdgeFeaturesRequest{
		NodeIds:  []proto.NodeId{1, 2},
		Types:    []proto.Type{4},
		Features: []proto.FeatureMeta{{Id: 1, Size: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4}, reply.FeatureValues)
	require.Equal(t, []uint32{0}, reply.Offsets)
}

func TestGetNodeSparseFeaturesDimensionsAndCounts(t *testing.T) {
	e := buildEngine(t, 2, func(b *partitiontest.Builder) {
		n := b.AddNode(1, 0)
		b.SetNodeSparse(n, partitiontest.SparseFeature{
			ID: 5, Dimension: 50, Indices: []int64{2, 4}, Values: []float32{1, 2},
		})
		b.AddNode(2, 0) // no sparse feature
	})

	reply, err := e.GetNodeSparseFeatures(context.Background(), &proto.NodeSparseFeaturesRequest{
		NodeIds:    []proto.NodeId{1, 2},
		FeatureIds: []proto.FeatureId{5},
	})
	require.NoError(t, err)
	require.Equal(t, []int64{50}, reply.Dimensions)
	// Node-sparse counts are split by feature, not by worker: with 2 workers
	// splitting the 2 requested nodes, worker 0 (node 1) finds the feature
	// and worker 1 (node 2, no sparse data) contributes nothing, but both
	// fold into the same num_features-sized slot.
	require.Equal(t, []int64{4}, reply.IndicesCounts) // 2 values * 2 (row,col)
	require.Equal(t, []int64{2}, reply.ValuesCounts)
	require.Len(t, reply.Values, 8) // 2 float32 values, 4 bytes each
	// indices are (row_index, col_index) pairs; row 0 is node 1's request slot.
	require.Equal(t, []int64{0, 2, 0, 4}, reply.Indices)
}

// TestGetNodeSparseFeaturesPoolSizeInvariant pins the shape in the previous
// test against pool size: a node-sparse reply's IndicesCounts/ValuesCounts
// are sized num_features regardless of how many workers the request fans
// out across, unlike edge-sparse's num_features*num_workers shape.
func TestGetNodeSparseFeaturesPoolSizeInvariant(t *testing.T) {
	build := func(b *partitiontest.Builder) {
		n := b.AddNode(1, 0)
		b.SetNodeSparse(n, partitiontest.SparseFeature{
			ID: 5, Dimension: 50, Indices: []int64{2, 4}, Values: []float32{1, 2},
		})
		b.AddNode(2, 0)
	}
	req := &proto.NodeSparseFeaturesRequest{
		NodeIds:    []proto.NodeId{1, 2},
		FeatureIds: []proto.FeatureId{5},
	}

	single := buildEngine(t, 1, build)
	singleReply, err := single.GetNodeSparseFeatures(context.Background(), req)
	require.NoError(t, err)

	parallel := buildEngine(t, 2, build)
	parallelReply, err := parallel.GetNodeSparseFeatures(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, []int64{4}, singleReply.IndicesCounts)
	require.Equal(t, singleReply.IndicesCounts, parallelReply.IndicesCounts)
	require.Equal(t, singleReply.ValuesCounts, parallelReply.ValuesCounts)
	require.Equal(t, singleReply.Dimensions, parallelReply.Dimensions)
}

func TestGetNodeStringFeaturesAlwaysEmitsDimsRow(t *testing.T) {
	e := buildEngine(t, 1, func(b *partitiontest.Builder) {
		n := b.AddNode(1, 0)
		b.SetNodeString(n, partitiontest.ByteFeature{ID: 1, Value: []byte("abc")})
		b.AddNode(2, 0)
	})

	reply, err := e.GetNodeStringFeatures(context.Background(), &proto.NodeSparseFeaturesRequest{
		NodeIds:    []proto.NodeId{1, 2},
		FeatureIds: []proto.FeatureId{1},
	})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 0}, reply.Dimensions, "every row gets a dims entry; missing is zero-length, not absent")
	require.Equal(t, []byte("abc"), reply.Values)
}
