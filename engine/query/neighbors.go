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
	"github.com/cubefs/graphserving/proto"
)

const (
	rpcGetNodeTypes      = "GetNodeTypes"
	rpcGetNeighborCounts = "GetNeighborCounts"
	rpcGetNeighbors      = "GetNeighbors"
)

func (e *Engine) GetNodeTypes(_ context.Context, req *proto.NodeTypesRequest) (*proto.NodeTypesReply, error) {
	n := len(req.NodeIds)
	rs := e.ranges(n)

	type typesBuf struct {
		types   []proto.Type
		offsets []uint32
	}
	bufs := make([]typesBuf, len(rs))

	e.pool.Run(len(rs), func(w int) {
		r := rs[w]
		var buf typesBuf
		for i := r.Start; i < r.End; i++ {
			offset, count, ok := e.idx.Locate(req.NodeIds[i])
			if !ok || count == 0 {
				continue
			}
			pl := e.idx.At(offset, 0)
			visitPlacement(rpcGetNodeTypes)
			t := e.partitions[pl.PartitionIndex].GetNodeType(pl.InternalIndex)
			if t == proto.DefaultNodeType {
				continue
			}
			buf.types = append(buf.types, t)
			buf.offsets = append(buf.offsets, uint32(i))
		}
		bufs[w] = buf
	})

	reply := &proto.NodeTypesReply{}
	for _, b := range bufs {
		reply.Types = append(reply.Types, b.types...)
		reply.Offsets = append(reply.Offsets, b.offsets...)
	}
	return reply, nil
}

func (e *Engine) GetNeighborCounts(_ context.Context, req *proto.GetNeighborsRequest) (*proto.GetNeighborCountsReply, error) {
	if !isSortedTypes(req.EdgeTypes) {
		return nil, graphErrors.ErrEdgeTypesNotSorted
	}

	n := len(req.NodeIds)
	counts := make([]uint64, n)
	rs := e.ranges(n)

	e.pool.Run(len(rs), func(w int) {
		r := rs[w]
		for i := r.Start; i < r.End; i++ {
			offset, count, ok := e.idx.Locate(req.NodeIds[i])
			if !ok {
				continue
			}
			var total uint64
			for p := 0; p < count; p++ {
				pl := e.idx.At(offset, p)
				visitPlacement(rpcGetNeighborCounts)
				total += e.partitions[pl.PartitionIndex].NeighborCount(pl.InternalIndex, req.EdgeTypes)
			}
			counts[i] = total
		}
	})

	return &proto.GetNeighborCountsReply{NeighborCounts: counts}, nil
}

func (e *Engine) GetNeighbors(_ context.Context, req *proto.GetNeighborsRequest) (*proto.GetNeighborsReply, error) {
	if !isSortedTypes(req.EdgeTypes) {
		return nil, graphErrors.ErrEdgeTypesNotSorted
	}

	n := len(req.NodeIds)
	rs := e.ranges(n)

	type neighBuf struct {
		ids     []proto.NodeId
		weights []float32
		types   []proto.Type
		counts  []uint64
	}
	bufs := make([]neighBuf, len(rs))

	e.pool.Run(len(rs), func(w int) {
		r := rs[w]
		var buf neighBuf
		for i := r.Start; i < r.End; i++ {
			var total uint64
			if offset, count, ok := e.idx.Locate(req.NodeIds[i]); ok {
				for p := 0; p < count; p++ {
					pl := e.idx.At(offset, p)
					visitPlacement(rpcGetNeighbors)
					ids, types, weights := e.partitions[pl.PartitionIndex].FullNeighbor(pl.InternalIndex, req.EdgeTypes)
					buf.ids = append(buf.ids, ids...)
					buf.types = append(buf.types, types...)
					buf.weights = append(buf.weights, weights...)
					total += uint64(len(ids))
				}
			}
			buf.counts = append(buf.counts, total)
		}
		bufs[w] = buf
	})

	reply := &proto.GetNeighborsReply{}
	for _, b := range bufs {
		reply.NodeIds = append(reply.NodeIds, b.ids...)
		reply.EdgeWeights = append(reply.EdgeWeights, b.weights...)
		reply.EdgeTypes = append(reply.EdgeTypes, b.types...)
		reply.NeighborCounts = append(reply.NeighborCounts, b.counts...)
	}
	return reply, nil
}
