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
	"github.com/cubefs/graphserving/engine/partition"
	"github.com/cubefs/graphserving/proto"
)

type denseBuf struct {
	values  []byte
	offsets []uint32
}

// GetNodeFeatures implements the dense node-feature query: per node, stop
// at the first placement that owns the data.
func (e *Engine) GetNodeFeatures(_ context.Context, req *proto.NodeFeaturesRequest) (*proto.NodeFeaturesReply, error) {
	n := len(req.NodeIds)
	rs := e.ranges(n)
	bufs := make([]denseBuf, len(rs))

	e.pool.Run(len(rs), func(w int) {
		r := rs[w]
		var buf denseBuf
		for i := r.Start; i < r.End; i++ {
			offset, count, ok := e.idx.Locate(req.NodeIds[i])
			if !ok {
				continue
			}
			for p := 0; p < count; p++ {
				pl := e.idx.At(offset, p)
				visitPlacement("GetNodeFeatures")
				part := e.partitions[pl.PartitionIndex]
				if !part.HasNodeFeatures(pl.InternalIndex) {
					continue
				}
				buf.values = append(buf.values, part.GetNodeFeature(pl.InternalIndex, req.Features)...)
				buf.offsets = append(buf.offsets, uint32(i))
				break
			}
		}
		bufs[w] = buf
	})

	reply := &proto.NodeFeaturesReply{}
	for _, b := range bufs {
		reply.FeatureValues = append(reply.FeatureValues, b.values...)
		reply.Offsets = append(reply.Offsets, b.offsets...)
	}
	return reply, nil
}

// GetEdgeFeatures implements the dense edge-feature query. node_ids carries
// [src..., dst...]; the invariant len(node_ids) == 2*len(types) is enforced
// here, not left to the partition layer.
func (e *Engine) GetEdgeFeatures(_ context.Context, req *proto.EdgeFeaturesRequest) (*proto.EdgeFeaturesReply, error) {
	m := len(req.Types)
	if len(req.NodeIds) != 2*m {
		return nil, graphErrors.ErrNodeEdgeSizeMismatch
	}
	src, dst := req.NodeIds[:m], req.NodeIds[m:]

	rs := e.ranges(m)
	bufs := make([]denseBuf, len(rs))

	e.pool.Run(len(rs), func(w int) {
		r := rs[w]
		var buf denseBuf
		for i := r.Start; i < r.End; i++ {
			offset, count, ok := e.idx.Locate(src[i])
			if !ok {
				continue
			}
			for p := 0; p < count; p++ {
				pl := e.idx.At(offset, p)
				visitPlacement("GetEdgeFeatures")
				part := e.partitions[pl.PartitionIndex]
				data, found := part.GetEdgeFeature(pl.InternalIndex, dst[i], req.Types[i], req.Features)
				if !found {
					continue
				}
				buf.values = append(buf.values, data...)
				buf.offsets = append(buf.offsets, uint32(i))
				break
			}
		}
		bufs[w] = buf
	})

	reply := &proto.EdgeFeaturesReply{}
	for _, b := range bufs {
		reply.FeatureValues = append(reply.FeatureValues, b.values...)
		reply.Offsets = append(reply.Offsets, b.offsets...)
	}
	return reply, nil
}

type sparseBuf struct {
	values        []byte
	indices       []int64
	indicesCounts []int64
	valuesCounts  []int64
}

// runSparse is the edge-sparse assembly path: compute(i) returns whatever
// sparse rows this request position contributed (already stopped at the
// first owning placement by the caller), and runSparse handles the
// row_index-prepending, per-feature counting, and worker-major assembly —
// IndicesCounts/ValuesCounts come out sized num_features*num_workers, one
// block of per-feature counts per worker, concatenated in worker order.
func (e *Engine) runSparse(n, numFeatures int, compute func(i int) []partition.SparseResult) *proto.SparseFeaturesReply {
	rs := e.ranges(n)
	bufs := make([]sparseBuf, len(rs))
	dimsPerWorker := make([][]int64, len(rs))

	e.pool.Run(len(rs), func(w int) {
		r := rs[w]
		buf := sparseBuf{
			indicesCounts: make([]int64, numFeatures),
			valuesCounts:  make([]int64, numFeatures),
		}
		dims := make([]int64, numFeatures)
		for i := r.Start; i < r.End; i++ {
			for _, res := range compute(i) {
				if res.Dimension != 0 && dims[res.FeatureIdx] == 0 {
					dims[res.FeatureIdx] = res.Dimension
				}
				for k := range res.Values {
					buf.indices = append(buf.indices, int64(i), res.Indices[k])
					buf.values = append(buf.values, encodeFloat32(res.Values[k])...)
				}
				buf.indicesCounts[res.FeatureIdx] += int64(2 * len(res.Values))
				buf.valuesCounts[res.FeatureIdx] += int64(len(res.Values))
			}
		}
		bufs[w] = buf
		dimsPerWorker[w] = dims
	})

	// dims is merged sequentially, after every worker has returned, so two
	// workers finding the same feature id never race on the same slot.
	dims := make([]int64, numFeatures)
	for _, wd := range dimsPerWorker {
		for k, d := range wd {
			if d != 0 && dims[k] == 0 {
				dims[k] = d
			}
		}
	}

	reply := &proto.SparseFeaturesReply{Dimensions: dims}
	for _, b := range bufs {
		reply.Values = append(reply.Values, b.values...)
		reply.Indices = append(reply.Indices, b.indices...)
		reply.IndicesCounts = append(reply.IndicesCounts, b.indicesCounts...)
		reply.ValuesCounts = append(reply.ValuesCounts, b.valuesCounts...)
	}
	return reply
}

// runSparseByFeature is the node-sparse assembly path: unlike edge-sparse,
// node-sparse is split by feature first and worker second, so
// IndicesCounts/ValuesCounts come out sized num_features, each entry summed
// across every worker that contributed a row for that feature.
func (e *Engine) runSparseByFeature(n, numFeatures int, compute func(i int) []partition.SparseResult) *proto.SparseFeaturesReply {
	rs := e.ranges(n)
	type perWorker struct {
		indices       [][]int64
		values        [][]byte
		dims          []int64
		indicesCounts []int64
		valuesCounts  []int64
	}
	workers := make([]perWorker, len(rs))

	e.pool.Run(len(rs), func(w int) {
		pw := perWorker{
			indices:       make([][]int64, numFeatures),
			values:        make([][]byte, numFeatures),
			dims:          make([]int64, numFeatures),
			indicesCounts: make([]int64, numFeatures),
			valuesCounts:  make([]int64, numFeatures),
		}
		r := rs[w]
		for i := r.Start; i < r.End; i++ {
			for _, res := range compute(i) {
				if res.Dimension != 0 && pw.dims[res.FeatureIdx] == 0 {
					pw.dims[res.FeatureIdx] = res.Dimension
				}
				for k := range res.Values {
					pw.indices[res.FeatureIdx] = append(pw.indices[res.FeatureIdx], int64(i), res.Indices[k])
					pw.values[res.FeatureIdx] = append(pw.values[res.FeatureIdx], encodeFloat32(res.Values[k])...)
				}
				pw.indicesCounts[res.FeatureIdx] += int64(2 * len(res.Values))
				pw.valuesCounts[res.FeatureIdx] += int64(len(res.Values))
			}
		}
		workers[w] = pw
	})

	// dims is merged sequentially, after every worker has returned, so two
	// workers finding the same feature id never race on the same slot.
	dims := make([]int64, numFeatures)
	for _, pw := range workers {
		for k, d := range pw.dims {
			if d != 0 && dims[k] == 0 {
				dims[k] = d
			}
		}
	}

	reply := &proto.SparseFeaturesReply{
		Dimensions:    dims,
		IndicesCounts: make([]int64, numFeatures),
		ValuesCounts:  make([]int64, numFeatures),
	}
	// Feature-major: every worker's rows for feature k are concatenated
	// before moving on to feature k+1. Worker ranges are disjoint and cover
	// request rows in increasing order, so concatenating in worker order
	// here still yields each feature's rows in request order.
	for k := 0; k < numFeatures; k++ {
		for _, pw := range workers {
			reply.Indices = append(reply.Indices, pw.indices[k]...)
			reply.Values = append(reply.Values, pw.values[k]...)
			reply.IndicesCounts[k] += pw.indicesCounts[k]
			reply.ValuesCounts[k] += pw.valuesCounts[k]
		}
	}
	return reply
}

func (e *Engine) GetNodeSparseFeatures(_ context.Context, req *proto.NodeSparseFeaturesRequest) (*proto.SparseFeaturesReply, error) {
	n := len(req.NodeIds)
	return e.runSparseByFeature(n, len(req.FeatureIds), func(i int) []partition.SparseResult {
		offset, count, ok := e.idx.Locate(req.NodeIds[i])
		if !ok {
			return nil
		}
		for p := 0; p < count; p++ {
			pl := e.idx.At(offset, p)
			visitPlacement("GetNodeSparseFeatures")
			res := e.partitions[pl.PartitionIndex].GetNodeSparseFeature(pl.InternalIndex, req.FeatureIds)
			if len(res) > 0 {
				return res
			}
		}
		return nil
	}), nil
}

func (e *Engine) GetEdgeSparseFeatures(_ context.Context, req *proto.EdgeSparseFeaturesRequest) (*proto.SparseFeaturesReply, error) {
	m := len(req.Types)
	if len(req.NodeIds) != 2*m {
		return nil, graphErrors.ErrNodeEdgeSizeMismatch
	}
	src, dst := req.NodeIds[:m], req.NodeIds[m:]

	return e.runSparse(m, len(req.FeatureIds), func(i int) []partition.SparseResult {
		offset, count, ok := e.idx.Locate(src[i])
		if !ok {
			return nil
		}
		for p := 0; p < count; p++ {
			pl := e.idx.At(offset, p)
			visitPlacement("GetEdgeSparseFeatures")
			res, found := e.partitions[pl.PartitionIndex].GetEdgeSparseFeature(pl.InternalIndex, dst[i], req.Types[i], req.FeatureIds)
			if found {
				return res
			}
		}
		return nil
	}), nil
}

type stringBuf struct {
	values []byte
	dims   []int64
}

// runString is the string-shape counterpart of runSparse. Unlike dense and
// sparse, string replies carry no offsets column: every requested row gets
// a dims entry, zero-length marking "not found", per the wire format's
// fixed num_rows x num_features table.
func (e *Engine) runString(n, numFeatures int, compute func(i int) []partition.StringResult) *proto.StringFeaturesReply {
	rs := e.ranges(n)
	bufs := make([]stringBuf, len(rs))

	e.pool.Run(len(rs), func(w int) {
		r := rs[w]
		var buf stringBuf
		for i := r.Start; i < r.End; i++ {
			row := make([]int64, numFeatures)
			for _, res := range compute(i) {
				row[res.FeatureIdx] = int64(len(res.Bytes))
				buf.values = append(buf.values, res.Bytes...)
			}
			buf.dims = append(buf.dims, row...)
		}
		bufs[w] = buf
	})

	reply := &proto.StringFeaturesReply{}
	for _, b := range bufs {
		reply.Values = append(reply.Values, b.values...)
		reply.Dimensions = append(reply.Dimensions, b.dims...)
	}
	return reply
}

func (e *Engine) GetNodeStringFeatures(_ context.Context, req *proto.NodeSparseFeaturesRequest) (*proto.StringFeaturesReply, error) {
	n := len(req.NodeIds)
	return e.runString(n, len(req.FeatureIds), func(i int) []partition.StringResult {
		offset, count, ok := e.idx.Locate(req.NodeIds[i])
		if !ok {
			return nil
		}
		for p := 0; p < count; p++ {
			pl := e.idx.At(offset, p)
			visitPlacement("GetNodeStringFeatures")
			res := e.partitions[pl.PartitionIndex].GetNodeStringFeature(pl.InternalIndex, req.FeatureIds)
			if len(res) > 0 {
				return res
			}
		}
		return nil
	}), nil
}

func (e *Engine) GetEdgeStringFeatures(_ context.Context, req *proto.EdgeSparseFeaturesRequest) (*proto.StringFeaturesReply, error) {
	m := len(req.Types)
	if len(req.NodeIds) != 2*m {
		return nil, graphErrors.ErrNodeEdgeSizeMismatch
	}
	src, dst := req.NodeIds[:m], req.NodeIds[m:]

	return e.runString(m, len(req.FeatureIds), func(i int) []partition.StringResult {
		offset, count, ok := e.idx.Locate(src[i])
		if !ok {
			return nil
		}
		for p := 0; p < count; p++ {
			pl := e.idx.At(offset, p)
			visitPlacement("GetEdgeStringFeatures")
			res, found := e.partitions[pl.PartitionIndex].GetEdgeStringFeature(pl.InternalIndex, dst[i], req.Types[i], req.FeatureIds)
			if found {
				return res
			}
		}
		return nil
	}), nil
}
