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
	"sort"

	"github.com/cubefs/graphserving/engine/sampler"
	"github.com/cubefs/graphserving/proto"
)

// NodePopulation scans every loaded partition for nodes whose type is in
// entityTypes (or every node, if entityTypes is empty) and reports them
// with a uniform weight of 1: unlike edges, the on-disk format carries no
// per-node sampling weight, so a Weighted node sampler degenerates to
// uniform mass per node.
func (e *Engine) NodePopulation(entityTypes []proto.Type) sampler.Population {
	var pop sampler.Population
	for _, part := range e.partitions {
		n := part.NodeCount()
		for i := uint64(0); i < n; i++ {
			t := part.GetNodeType(i)
			if !typeMatchesAny(entityTypes, t) {
				continue
			}
			pop.Types = append(pop.Types, t)
			pop.NodeIDs = append(pop.NodeIDs, part.ExternalID(i))
			pop.Weights = append(pop.Weights, 1)
		}
	}
	return pop
}

// EdgePopulation scans every loaded partition's adjacency for edges whose
// type is in entityTypes, carrying each edge's real stored weight.
func (e *Engine) EdgePopulation(entityTypes []proto.Type) sampler.Population {
	// MatchingNeighbors requires its filter sorted ascending; entityTypes
	// here is caller-supplied and, unlike the per-request edge_types
	// fields, carries no sortedness contract.
	sorted := append([]proto.Type(nil), entityTypes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var pop sampler.Population
	for _, part := range e.partitions {
		n := part.NodeCount()
		for i := uint64(0); i < n; i++ {
			src := part.ExternalID(i)
			dsts, types, weights := part.MatchingNeighbors(i, sorted)
			for k := range dsts {
				pop.Types = append(pop.Types, types[k])
				pop.Src = append(pop.Src, src)
				pop.Dst = append(pop.Dst, dsts[k])
				pop.Weights = append(pop.Weights, weights[k])
			}
		}
	}
	return pop
}

func typeMatchesAny(sortedTypes []proto.Type, t proto.Type) bool {
	if len(sortedTypes) == 0 {
		return true
	}
	for _, want := range sortedTypes {
		if want == t {
			return true
		}
	}
	return false
}

// CreateSampler and Sample implement proto.GraphSamplerServer.
func (e *Engine) CreateSampler(_ context.Context, req *proto.CreateSamplerRequest) (*proto.CreateSamplerReply, error) {
	id, weight, err := e.samplers.Create(e, req.EntityTypes, req.IsEdge, req.Category)
	if err != nil {
		return nil, err
	}
	return &proto.CreateSamplerReply{SamplerId: id, Weight: weight}, nil
}

func (e *Engine) Sample(_ context.Context, req *proto.SampleRequest) (*proto.SampleReply, error) {
	types, nodeIds, err := e.samplers.Sample(req.SamplerId, req.Seed, req.Count)
	if err != nil {
		return nil, err
	}
	return &proto.SampleReply{Types: types, NodeIds: nodeIds}, nil
}
