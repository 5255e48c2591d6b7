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

// Package index holds the process-wide node-location index: the map from a
// public node id to the (partition, internal index) placements that host it.
// It is built once at startup from every partition's node map and never
// mutated again at request time.
package index

import "github.com/cubefs/graphserving/proto"

// Placement is one (partition, internal index) location for a node.
type Placement struct {
	PartitionIndex int
	InternalIndex  uint64
}

// Index is the three-parallel-slice, copy-and-append placement store
// described for the node-location index: a node's run lives at
// partitionIndices[offset:offset+count] / internalIndices[offset:offset+count],
// and counts[offset:offset+count] repeats count at every slot in the run so a
// lookup only needs the offset to learn both the run and its length.
type Index struct {
	offsets map[proto.NodeId]int

	partitionIndices []int
	internalIndices  []uint64
	counts           []int
}

// New returns an empty index ready for Add calls.
func New() *Index {
	return &Index{offsets: make(map[proto.NodeId]int)}
}

// Add records one more placement for nodeID. If the node already has
// placements, the existing run is copied to the tail and extended (the dead
// old run is left in place) rather than updated in place, trading space for
// an O(1) map update.
func (ix *Index) Add(nodeID proto.NodeId, partitionIndex int, internalIndex uint64) {
	if off, ok := ix.offsets[nodeID]; ok {
		count := ix.counts[off]
		newOff := len(ix.partitionIndices)
		ix.partitionIndices = append(ix.partitionIndices, ix.partitionIndices[off:off+count]...)
		ix.internalIndices = append(ix.internalIndices, ix.internalIndices[off:off+count]...)
		ix.partitionIndices = append(ix.partitionIndices, partitionIndex)
		ix.internalIndices = append(ix.internalIndices, internalIndex)
		newCount := count + 1
		for k := 0; k < newCount; k++ {
			ix.counts = append(ix.counts, newCount)
		}
		ix.offsets[nodeID] = newOff
		return
	}

	off := len(ix.partitionIndices)
	ix.partitionIndices = append(ix.partitionIndices, partitionIndex)
	ix.internalIndices = append(ix.internalIndices, internalIndex)
	ix.counts = append(ix.counts, 1)
	ix.offsets[nodeID] = off
}

// Locate returns the offset and placement count for nodeID, or ok == false
// if the node is not present in this index.
func (ix *Index) Locate(nodeID proto.NodeId) (offset int, count int, ok bool) {
	off, present := ix.offsets[nodeID]
	if !present {
		return 0, 0, false
	}
	return off, ix.counts[off], true
}

// At returns the placement at slot offset+p, where p is in [0, count) from a
// prior Locate call. Callers iterate with
// for p := 0; p < count; p++ { ix.At(offset, p) }.
func (ix *Index) At(offset, p int) Placement {
	return Placement{
		PartitionIndex: ix.partitionIndices[offset+p],
		InternalIndex:  ix.internalIndices[offset+p],
	}
}

// Placements is a convenience wrapper over Locate+At for callers that want
// the whole run materialised (index construction tests, small fan-outs).
func (ix *Index) Placements(nodeID proto.NodeId) ([]Placement, bool) {
	offset, count, ok := ix.Locate(nodeID)
	if !ok {
		return nil, false
	}
	out := make([]Placement, count)
	for p := 0; p < count; p++ {
		out[p] = ix.At(offset, p)
	}
	return out, true
}

// Len returns the number of distinct node ids held by the index.
func (ix *Index) Len() int {
	return len(ix.offsets)
}

// PartitionSource is the subset of partition.Partition the index builder
// needs: enough to replay every node map record without this package
// depending on the partition package's on-disk layout.
type PartitionSource interface {
	EachNodeMapRecord(f func(externalID proto.NodeId, internal uint64, nodeType proto.Type))
}

// Build constructs an Index from a slice of already-loaded partitions, in
// partition order, which is also the order their local indices were
// assigned (sorted partition suffix order per the specification).
func Build(partitions []PartitionSource) *Index {
	ix := New()
	for pIdx, part := range partitions {
		part.EachNodeMapRecord(func(externalID proto.NodeId, internal uint64, _ proto.Type) {
			ix.Add(externalID, pIdx, internal)
		})
	}
	return ix
}
