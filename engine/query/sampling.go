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

	graphErrors "github.com/cubefs/graphserving/errors"
	"github.com/cubefs/graphserving/engine/sample"
	"github.com/cubefs/graphserving/proto"
)

const (
	rpcWeightedSampleNeighbors = "WeightedSampleNeighbors"
	rpcUniformSampleNeighbors  = "UniformSampleNeighbors"
)

// locatedNode is a node that was found in the index, carrying the starting
// seed for its first placement: the determinism contract requires that
// seed advance by exactly one per (node, placement) visited in placement-
// array order, so this offset must be computed from a sequential pass over
// the request before any fan-out begins — a worker can't know its starting
// seed without knowing how many placements every earlier node consumed.
type locatedNode struct {
	slot      int
	offset    int
	count     int
	seedStart uint64
}

func locateAndAssignSeeds(nodeIds []proto.NodeId, seed uint64, locate func(proto.NodeId) (int, int, bool)) []locatedNode {
	var found []locatedNode
	var used uint64
	for i, id := range nodeIds {
		offset, count, ok := locate(id)
		if !ok {
			continue
		}
		found = append(found, locatedNode{slot: i, offset: offset, count: count, seedStart: seed + used})
		used += uint64(count)
	}
	return found
}

func (e *Engine) WeightedSampleNeighbors(_ context.Context, req *proto.WeightedSampleNeighborsRequest) (*proto.WeightedSampleNeighborsReply, error) {
	if !isSortedTypes(req.EdgeTypes) {
		return nil, graphErrors.ErrEdgeTypesNotSorted
	}

	found := locateAndAssignSeeds(req.NodeIds, req.Seed, e.idx.Locate)

	type slot struct {
		ids         []proto.NodeId
		weights     []float32
		types       []proto.Type
		shardWeight float32
	}
	slots := make([]slot, len(found))

	e.pool.Run(len(found), func(fi int) {
		node := found[fi]
		ids := make([]proto.NodeId, req.Count)
		weights := make([]float32, req.Count)
		types := make([]proto.Type, req.Count)
		for k := range ids {
			ids[k] = req.DefaultNodeId
			weights[k] = req.DefaultWeight
			types[k] = req.DefaultEdgeType
		}

		var shardWeight float32
		for p := 0; p < node.count; p++ {
			pl := e.idx.At(node.offset, p)
			visitPlacement(rpcWeightedSampleNeighbors)
			rng := sample.NewRand(node.seedStart + uint64(p))
			consumeSeed(rpcWeightedSampleNeighbors)
			pIds, pWeights, pTypes, total, ok := e.partitions[pl.PartitionIndex].SampleNeighbor(rng, pl.InternalIndex, req.EdgeTypes, req.Count)
			if !ok {
				continue
			}
			copy(ids, pIds)
			copy(weights, pWeights)
			copy(types, pTypes)
			shardWeight += total
		}
		slots[fi] = slot{ids: ids, weights: weights, types: types, shardWeight: shardWeight}
	})

	reply := &proto.WeightedSampleNeighborsReply{}
	for fi, s := range slots {
		reply.NeighborIds = append(reply.NeighborIds, s.ids...)
		reply.NeighborWeights = append(reply.NeighborWeights, s.weights...)
		reply.NeighborTypes = append(reply.NeighborTypes, s.types...)
		reply.NodeIds = append(reply.NodeIds, req.NodeIds[found[fi].slot])
		reply.ShardWeights = append(reply.ShardWeights, s.shardWeight)
	}
	return reply, nil
}

func (e *Engine) UniformSampleNeighbors(_ context.Context, req *proto.UniformSampleNeighborsRequest) (*proto.UniformSampleNeighborsReply, error) {
	if !isSortedTypes(req.EdgeTypes) {
		return nil, graphErrors.ErrEdgeTypesNotSorted
	}

	found := locateAndAssignSeeds(req.NodeIds, req.Seed, e.idx.Locate)

	type slot struct {
		ids        []proto.NodeId
		types      []proto.Type
		shardCount uint64
	}
	slots := make([]slot, len(found))

	e.pool.Run(len(found), func(fi int) {
		node := found[fi]
		ids := make([]proto.NodeId, req.Count)
		types := make([]proto.Type, req.Count)
		for k := range ids {
			ids[k] = req.DefaultNodeId
			types[k] = req.DefaultEdgeType
		}

		var shardCount uint64
		for p := 0; p < node.count; p++ {
			pl := e.idx.At(node.offset, p)
			visitPlacement(rpcUniformSampleNeighbors)
			rng := sample.NewRand(node.seedStart + uint64(p))
			consumeSeed(rpcUniformSampleNeighbors)
			pIds, pTypes, total, ok := e.partitions[pl.PartitionIndex].UniformSampleNeighbor(rng, req.WithoutReplacement, pl.InternalIndex, req.EdgeTypes, req.Count)
			if !ok {
				continue
			}
			copy(ids, pIds)
			copy(types, pTypes)
			shardCount += total
		}
		slots[fi] = slot{ids: ids, types: types, shardCount: shardCount}
	})

	reply := &proto.UniformSampleNeighborsReply{}
	for fi, s := range slots {
		reply.NeighborIds = append(reply.NeighborIds, s.ids...)
		reply.NeighborTypes = append(reply.NeighborTypes, s.types...)
		reply.NodeIds = append(reply.NodeIds, req.NodeIds[found[fi].slot])
		reply.ShardCounts = append(reply.ShardCounts, s.shardCount)
	}
	return reply, nil
}
