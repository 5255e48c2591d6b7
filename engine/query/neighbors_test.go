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

func TestGetNodeTypesSkipsDefault(t *testing.T) {
	e := buildEngine(t, 1, func(b *partitiontest.Builder) {
		b.AddNode(1, 3)
	})

	reply, err := e.GetNodeTypes(context.Background(), &proto.NodeTypesRequest{
		NodeIds: []proto.NodeId{1, 404},
	})
	require.NoError(t, err)
	require.Equal(t, []proto.Type{3}, reply.Types)
	require.Equal(t, []uint32{0}, reply.Offsets)
}

func TestGetNeighborsRejectsUnsortedEdgeTypes(t *testing.T) {
	e := buildEngine(t, 1, func(b *partitiontest.Builder) {
		b.AddNode(1, 0)
	})
	_, err := e.GetNeighbors(context.Background(), &proto.GetNeighborsRequest{
		NodeIds:   []proto.NodeId{1},
		EdgeTypes: []proto.Type{2, 1},
	})
	require.Error(t, err)

	_, err = e.GetNeighborCounts(context.Background(), &proto.GetNeighborsRequest{
		NodeIds:   []proto.NodeId{1},
		EdgeTypes: []proto.Type{2, 1},
	})
	require.Error(t, err)
}

// Node 1 is replicated across both partitions with a distinct neighbor at
// each placement: every placement must contribute (unlike features, where
// only the first owner wins).
func TestGetNeighborsAccumulatesAcrossPlacements(t *testing.T) {
	e := buildEngine(t, 2,
		func(b *partitiontest.Builder) {
			src := b.AddNode(1, 0)
			b.AddNode(2, 0)
			b.AddEdge(src, 2, 1, 1.0)
		},
		func(b *partitiontest.Builder) {
			src := b.AddNode(1, 0)
			b.AddNode(3, 0)
			b.AddEdge(src, 3, 1, 2.0)
		},
	)

	reply, err := e.GetNeighbors(context.Background(), &proto.GetNeighborsRequest{
		NodeIds: []proto.NodeId{1},
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []proto.NodeId{2, 3}, reply.NodeIds)
	require.Equal(t, []uint64{2}, reply.NeighborCounts)

	countReply, err := e.GetNeighborCounts(context.Background(), &proto.GetNeighborsRequest{
		NodeIds: []proto.NodeId{1},
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{2}, countReply.NeighborCounts)
}

func TestGetNeighborsUnknownNodeZeroCount(t *testing.T) {
	e := buildEngine(t, 1, func(b *partitiontest.Builder) {
		b.AddNode(1, 0)
	})
	reply, err := e.GetNeighbors(context.Background(), &proto.GetNeighborsRequest{
		NodeIds: []proto.NodeId{999},
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, reply.NeighborCounts)
	require.Empty(t, reply.NodeIds)
}
