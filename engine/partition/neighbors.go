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

package partition

import "github.com/cubefs/graphserving/proto"

// MatchingNeighbors returns, for this placement of node i, every neighbor
// reachable via one of edgeTypes (sorted ascending; empty means "any type").
// It is the shared basis for NeighborCount, FullNeighbor and both sampling
// primitives: each of them either counts, concatenates, or samples from
// exactly this list.
func (p *Partition) MatchingNeighbors(i uint64, edgeTypes []proto.Type) (ids []proto.NodeId, types []proto.Type, weights []float32) {
	start, end := p.neighborRange(i)
	for idx := start; idx < end; idx++ {
		rec := p.neighborAt(idx)
		if !typeMatches(edgeTypes, rec.EdgeType) {
			continue
		}
		ids = append(ids, rec.Dst)
		types = append(types, rec.EdgeType)
		weights = append(weights, rec.Weight)
	}
	return
}

// NeighborCount reports how many neighbor records at this placement match
// edgeTypes, without materialising them.
func (p *Partition) NeighborCount(i uint64, edgeTypes []proto.Type) uint64 {
	start, end := p.neighborRange(i)
	var count uint64
	for idx := start; idx < end; idx++ {
		if typeMatches(edgeTypes, p.neighborAt(idx).EdgeType) {
			count++
		}
	}
	return count
}

// FullNeighbor enumerates every matching neighbor of this placement.
func (p *Partition) FullNeighbor(i uint64, edgeTypes []proto.Type) (ids []proto.NodeId, types []proto.Type, weights []float32) {
	return p.MatchingNeighbors(i, edgeTypes)
}

// findEdge locates the first neighbor record at this placement reaching dst
// via edgeType, used by the edge feature lookups ("edge exists" is decided
// per placement, first match wins within the placement's own record run).
func (p *Partition) findEdge(i uint64, dst proto.NodeId, edgeType proto.Type) (neighborRecord, bool) {
	start, end := p.neighborRange(i)
	for idx := start; idx < end; idx++ {
		rec := p.neighborAt(idx)
		if rec.Dst == dst && rec.EdgeType == edgeType {
			return rec, true
		}
	}
	return neighborRecord{}, false
}
