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

package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/graphserving/proto"
)

func TestLocateUnknownNode(t *testing.T) {
	ix := New()
	_, _, ok := ix.Locate(42)
	require.False(t, ok)
}

func TestSinglePlacement(t *testing.T) {
	ix := New()
	ix.Add(100, 0, 7)

	placements, ok := ix.Placements(100)
	require.True(t, ok)
	require.Equal(t, []Placement{{PartitionIndex: 0, InternalIndex: 7}}, placements)
}

// TestReplicatedNode matches scenario S2: a node present in more than one
// partition must report every placement, in insertion order, and nothing
// from the dead prior run should leak into a later Locate call.
func TestReplicatedNode(t *testing.T) {
	ix := New()
	ix.Add(100, 0, 7)
	ix.Add(100, 2, 3)
	ix.Add(100, 1, 9)

	placements, ok := ix.Placements(100)
	require.True(t, ok)
	require.Equal(t, []Placement{
		{PartitionIndex: 0, InternalIndex: 7},
		{PartitionIndex: 2, InternalIndex: 3},
		{PartitionIndex: 1, InternalIndex: 9},
	}, placements)

	offset, count, ok := ix.Locate(100)
	require.True(t, ok)
	require.Equal(t, 3, count)
	for p := 0; p < count; p++ {
		require.Equal(t, count, ix.counts[offset+p])
	}
}

func TestMultipleNodesIndependent(t *testing.T) {
	ix := New()
	ix.Add(1, 0, 0)
	ix.Add(2, 0, 1)
	ix.Add(1, 1, 0)

	p1, ok := ix.Placements(1)
	require.True(t, ok)
	require.Len(t, p1, 2)

	p2, ok := ix.Placements(2)
	require.True(t, ok)
	require.Equal(t, []Placement{{PartitionIndex: 0, InternalIndex: 1}}, p2)

	require.Equal(t, 2, ix.Len())
}

type fakePartition struct {
	records []fakeRecord
}

type fakeRecord struct {
	externalID proto.NodeId
	internal   uint64
	nodeType   proto.Type
}

func (f fakePartition) EachNodeMapRecord(cb func(proto.NodeId, uint64, proto.Type)) {
	for _, r := range f.records {
		cb(r.externalID, r.internal, r.nodeType)
	}
}

// TestBuildIndexReconstruction matches the "index reconstruction" testable
// property: rebuilding from partitions in order reproduces every placement
// with no spurious entries.
func TestBuildIndexReconstruction(t *testing.T) {
	partitions := []PartitionSource{
		fakePartition{records: []fakeRecord{
			{externalID: 10, internal: 0, nodeType: 1},
			{externalID: 20, internal: 1, nodeType: 2},
		}},
		fakePartition{records: []fakeRecord{
			{externalID: 10, internal: 0, nodeType: 1},
			{externalID: 30, internal: 1, nodeType: 3},
		}},
	}

	ix := Build(partitions)
	require.Equal(t, 3, ix.Len())

	p10, ok := ix.Placements(10)
	require.True(t, ok)
	require.Equal(t, []Placement{
		{PartitionIndex: 0, InternalIndex: 0},
		{PartitionIndex: 1, InternalIndex: 0},
	}, p10)

	p20, ok := ix.Placements(20)
	require.True(t, ok)
	require.Equal(t, []Placement{{PartitionIndex: 0, InternalIndex: 1}}, p20)

	p30, ok := ix.Placements(30)
	require.True(t, ok)
	require.Equal(t, []Placement{{PartitionIndex: 1, InternalIndex: 1}}, p30)
}
