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

func (s *byteFeatureStore) find(start, count uint32, featureID proto.FeatureId) ([]byte, bool) {
	for k := uint32(0); k < count; k++ {
		e := s.entry(start + k)
		if e.FeatureId == featureID {
			return s.blobBytes(e), true
		}
	}
	return nil, false
}

func (s *sparseFeatureStore) find(start, count uint32, featureID proto.FeatureId) (sparseFeatureEntry, bool) {
	for k := uint32(0); k < count; k++ {
		e := s.entry(start + k)
		if e.FeatureId == featureID {
			return e, true
		}
	}
	return sparseFeatureEntry{}, false
}

// padOrTruncate implements the dense-feature contract: shorter stored values
// are zero-padded to size, longer ones truncated.
func padOrTruncate(val []byte, size int) []byte {
	out := make([]byte, size)
	n := copy(out, val)
	_ = n
	return out
}

// HasNodeFeatures reports whether this placement stores any dense feature
// for node i.
func (p *Partition) HasNodeFeatures(i uint64) bool {
	_, count := p.nodeDense.nodeRange(i)
	return count > 0
}

// GetNodeFeature copies the concatenation of the requested dense feature
// columns for node i, zero-padding or truncating each to its requested size.
// Callers must have already checked HasNodeFeatures.
func (p *Partition) GetNodeFeature(i uint64, metas []proto.FeatureMeta) []byte {
	start, count := p.nodeDense.nodeRange(i)
	var out []byte
	for _, m := range metas {
		val, _ := p.nodeDense.find(start, count, m.Id)
		out = append(out, padOrTruncate(val, int(m.Size))...)
	}
	return out
}

// GetEdgeFeature reports whether an edge of edgeType from node i to dst
// exists in this placement and, if so, copies its requested dense feature
// columns the same way GetNodeFeature does.
func (p *Partition) GetEdgeFeature(i uint64, dst proto.NodeId, edgeType proto.Type, metas []proto.FeatureMeta) ([]byte, bool) {
	rec, found := p.findEdge(i, dst, edgeType)
	if !found {
		return nil, false
	}
	var out []byte
	for _, m := range metas {
		val, _ := p.edgeDense.find(uint32(rec.DenseOffset), rec.DenseCount, m.Id)
		out = append(out, padOrTruncate(val, int(m.Size))...)
	}
	return out, true
}

// SparseResult is one found (feature, row) pair: FeatureIdx is the position
// of the feature id within the request, so the query engine can route it
// into the right per-feature bucket.
type SparseResult struct {
	FeatureIdx int
	Dimension  int64
	Indices    []int64
	Values     []float32
}

func gatherSparse(store *sparseFeatureStore, start, count uint32, featureIds []proto.FeatureId) []SparseResult {
	var out []SparseResult
	for idx, id := range featureIds {
		e, ok := store.find(start, count, id)
		if !ok {
			continue
		}
		out = append(out, SparseResult{
			FeatureIdx: idx,
			Dimension:  e.Dimension,
			Indices:    store.indexValues(e),
			Values:     store.floatValues(e),
		})
	}
	return out
}

// GetNodeSparseFeature returns one SparseResult per requested feature id
// that this placement stores for node i.
func (p *Partition) GetNodeSparseFeature(i uint64, featureIds []proto.FeatureId) []SparseResult {
	start, count := p.nodeSparse.nodeRange(i)
	return gatherSparse(&p.nodeSparse, start, count, featureIds)
}

// GetEdgeSparseFeature is the sparse analogue of GetEdgeFeature.
func (p *Partition) GetEdgeSparseFeature(i uint64, dst proto.NodeId, edgeType proto.Type, featureIds []proto.FeatureId) ([]SparseResult, bool) {
	rec, found := p.findEdge(i, dst, edgeType)
	if !found {
		return nil, false
	}
	return gatherSparse(&p.edgeSparse, uint32(rec.SparseOffset), rec.SparseCount, featureIds), true
}

// StringResult is one found (feature, row) pair for the string feature
// shape: FeatureIdx is the position of the feature id within the request.
type StringResult struct {
	FeatureIdx int
	Bytes      []byte
}

func gatherString(store *byteFeatureStore, start, count uint32, featureIds []proto.FeatureId) []StringResult {
	var out []StringResult
	for idx, id := range featureIds {
		val, ok := store.find(start, count, id)
		if !ok {
			continue
		}
		out = append(out, StringResult{FeatureIdx: idx, Bytes: val})
	}
	return out
}

// GetNodeStringFeature returns one StringResult per requested feature id
// that this placement stores for node i.
func (p *Partition) GetNodeStringFeature(i uint64, featureIds []proto.FeatureId) []StringResult {
	start, count := p.nodeString.nodeRange(i)
	return gatherString(&p.nodeString, start, count, featureIds)
}

// GetEdgeStringFeature is the string analogue of GetEdgeFeature.
func (p *Partition) GetEdgeStringFeature(i uint64, dst proto.NodeId, edgeType proto.Type, featureIds []proto.FeatureId) ([]StringResult, bool) {
	rec, found := p.findEdge(i, dst, edgeType)
	if !found {
		return nil, false
	}
	return gatherString(&p.edgeString, uint32(rec.StringOffset), rec.StringCount, featureIds), true
}
