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

// Package partitiontest builds the on-disk files engine/partition.Load
// expects, so tests can construct a realistic Partition without a real
// ingestion pipeline. It mirrors engine/partition's wire layout (see
// format.go) deliberately rather than importing it, to avoid depending on
// that package's unexported encoders.
package partitiontest

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/cubefs/graphserving/proto"
)

var byteOrder = binary.LittleEndian

// ByteFeature is one dense or string feature value attached to a node or an
// edge.
type ByteFeature struct {
	ID    proto.FeatureId
	Value []byte
}

// SparseFeature is one sparse feature value attached to a node or an edge.
type SparseFeature struct {
	ID        proto.FeatureId
	Dimension int64
	Indices   []int64
	Values    []float32
}

type edge struct {
	dst    proto.NodeId
	typ    proto.Type
	weight float32
	dense  []ByteFeature
	str    []ByteFeature
	sparse []SparseFeature
}

type node struct {
	externalID proto.NodeId
	typ        proto.Type
	dense      []ByteFeature
	str        []ByteFeature
	sparse     []SparseFeature
	edges      []edge
}

// Builder assembles one partition's files in memory, then writes them with
// Build. Nodes are written in AddNode call order, which becomes their
// internal index.
type Builder struct {
	nodes []*node
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddNode registers a node and returns its internal index within this
// partition.
func (b *Builder) AddNode(externalID proto.NodeId, nodeType proto.Type) int {
	b.nodes = append(b.nodes, &node{externalID: externalID, typ: nodeType})
	return len(b.nodes) - 1
}

func (b *Builder) SetNodeDense(nodeIdx int, feats ...ByteFeature) {
	b.nodes[nodeIdx].dense = feats
}

func (b *Builder) SetNodeString(nodeIdx int, feats ...ByteFeature) {
	b.nodes[nodeIdx].str = feats
}

func (b *Builder) SetNodeSparse(nodeIdx int, feats ...SparseFeature) {
	b.nodes[nodeIdx].sparse = feats
}

// EdgeHandle lets a caller attach edge features right after AddEdge.
type EdgeHandle struct {
	n   *node
	idx int
}

func (h *EdgeHandle) Dense(feats ...ByteFeature) *EdgeHandle {
	h.n.edges[h.idx].dense = feats
	return h
}

func (h *EdgeHandle) String(feats ...ByteFeature) *EdgeHandle {
	h.n.edges[h.idx].str = feats
	return h
}

func (h *EdgeHandle) Sparse(feats ...SparseFeature) *EdgeHandle {
	h.n.edges[h.idx].sparse = feats
	return h
}

// AddEdge attaches an outgoing edge to the node at nodeIdx.
func (b *Builder) AddEdge(nodeIdx int, dst proto.NodeId, edgeType proto.Type, weight float32) *EdgeHandle {
	n := b.nodes[nodeIdx]
	n.edges = append(n.edges, edge{dst: dst, typ: edgeType, weight: weight})
	return &EdgeHandle{n: n, idx: len(n.edges) - 1}
}

// Build writes every file a partition with suffix needs under dir.
func (b *Builder) Build(dir, suffix string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := b.writeNodeMap(dir, suffix); err != nil {
		return err
	}
	if err := b.writeNeighbors(dir, suffix); err != nil {
		return err
	}
	if err := b.writeNodeByteStore(dir, suffix, "nodefeatures", "dense", func(n *node) []ByteFeature { return n.dense }); err != nil {
		return err
	}
	if err := b.writeNodeByteStore(dir, suffix, "nodefeatures", "string", func(n *node) []ByteFeature { return n.str }); err != nil {
		return err
	}
	// Edge dense/string/sparse files are written by writeNeighbors, since
	// each edge's offset/count lives in its own neighbor record rather than
	// in a per-node offsets array.
	return b.writeNodeSparseStore(dir, suffix, "nodefeatures", func(n *node) []SparseFeature { return n.sparse })
}

func (b *Builder) writeNodeMap(dir, suffix string) error {
	buf := make([]byte, 0, len(b.nodes)*20)
	for i, n := range b.nodes {
		rec := make([]byte, 20)
		byteOrder.PutUint64(rec[0:8], uint64(n.externalID))
		byteOrder.PutUint64(rec[8:16], uint64(i))
		byteOrder.PutUint32(rec[16:20], uint32(n.typ))
		buf = append(buf, rec...)
	}
	return os.WriteFile(filepath.Join(dir, "node_"+suffix+".map"), buf, 0o644)
}

func (b *Builder) writeNeighbors(dir, suffix string) error {
	offsets := make([]uint64, len(b.nodes)+1)
	var records []byte

	// Per-node edge feature offsets are resolved into a flat, partition-wide
	// records/entries/blob layout as each node's sorted edges are visited.
	var denseEntries, denseBlob []byte
	var strEntries, strBlob []byte
	var sparseEntries, sparseIndices, sparseValues []byte

	for i, n := range b.nodes {
		edges := append([]edge(nil), n.edges...)
		sort.Slice(edges, func(a, c int) bool {
			if edges[a].typ != edges[c].typ {
				return edges[a].typ < edges[c].typ
			}
			return edges[a].dst < edges[c].dst
		})

		for _, e := range edges {
			denseStart := uint64(len(denseEntries)) / 16
			for _, f := range e.dense {
				denseEntries = appendByteEntry(denseEntries, &denseBlob, f)
			}
			strStart := uint64(len(strEntries)) / 16
			for _, f := range e.str {
				strEntries = appendByteEntry(strEntries, &strBlob, f)
			}
			sparseStart := uint64(len(sparseEntries)) / 32
			for _, f := range e.sparse {
				sparseEntries = appendSparseEntry(sparseEntries, &sparseIndices, &sparseValues, f)
			}

			rec := make([]byte, 52)
			byteOrder.PutUint64(rec[0:8], uint64(e.dst))
			byteOrder.PutUint32(rec[8:12], uint32(e.typ))
			byteOrder.PutUint32(rec[12:16], math.Float32bits(e.weight))
			byteOrder.PutUint64(rec[16:24], denseStart)
			byteOrder.PutUint32(rec[24:28], uint32(len(e.dense)))
			byteOrder.PutUint64(rec[28:36], strStart)
			byteOrder.PutUint32(rec[36:40], uint32(len(e.str)))
			byteOrder.PutUint64(rec[40:48], sparseStart)
			byteOrder.PutUint32(rec[48:52], uint32(len(e.sparse)))
			records = append(records, rec...)
		}

		offsets[i+1] = offsets[i] + uint64(len(edges))
	}

	if err := writeUint64Array(filepath.Join(dir, "neighbors_"+suffix+".offsets"), offsets); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "neighbors_"+suffix+".records"), records, 0o644); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, "edgefeatures_"+suffix+".dense.index"), denseEntries, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "edgefeatures_"+suffix+".dense.blob"), denseBlob, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "edgefeatures_"+suffix+".string.index"), strEntries, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "edgefeatures_"+suffix+".string.blob"), strBlob, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "edgefeatures_"+suffix+".sparse.index"), sparseEntries, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "edgefeatures_"+suffix+".sparse.indices"), sparseIndices, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "edgefeatures_"+suffix+".sparse.values"), sparseValues, 0o644)
}

func (b *Builder) writeNodeByteStore(dir, suffix, kind, shape string, pick func(*node) []ByteFeature) error {
	offsets := make([]uint64, len(b.nodes)+1)
	var entries, blob []byte
	for i, n := range b.nodes {
		feats := pick(n)
		for _, f := range feats {
			entries = appendByteEntry(entries, &blob, f)
		}
		offsets[i+1] = offsets[i] + uint64(len(feats))
	}
	if err := writeUint64Array(filepath.Join(dir, kind+"_"+suffix+"."+shape+".offsets"), offsets); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, kind+"_"+suffix+"."+shape+".index"), entries, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, kind+"_"+suffix+"."+shape+".blob"), blob, 0o644)
}

func (b *Builder) writeNodeSparseStore(dir, suffix, kind string, pick func(*node) []SparseFeature) error {
	offsets := make([]uint64, len(b.nodes)+1)
	var entries, indices, values []byte
	for i, n := range b.nodes {
		feats := pick(n)
		for _, f := range feats {
			entries = appendSparseEntry(entries, &indices, &values, f)
		}
		offsets[i+1] = offsets[i] + uint64(len(feats))
	}
	if err := writeUint64Array(filepath.Join(dir, kind+"_"+suffix+".sparse.offsets"), offsets); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, kind+"_"+suffix+".sparse.index"), entries, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, kind+"_"+suffix+".sparse.indices"), indices, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, kind+"_"+suffix+".sparse.values"), values, 0o644)
}

func appendByteEntry(entries []byte, blob *[]byte, f ByteFeature) []byte {
	e := make([]byte, 16)
	byteOrder.PutUint32(e[0:4], uint32(f.ID))
	byteOrder.PutUint32(e[4:8], uint32(len(f.Value)))
	byteOrder.PutUint64(e[8:16], uint64(len(*blob)))
	*blob = append(*blob, f.Value...)
	return append(entries, e...)
}

func appendSparseEntry(entries []byte, indices, values *[]byte, f SparseFeature) []byte {
	e := make([]byte, 32)
	byteOrder.PutUint32(e[0:4], uint32(f.ID))
	byteOrder.PutUint64(e[4:12], uint64(f.Dimension))
	byteOrder.PutUint32(e[12:16], uint32(len(f.Values)))
	byteOrder.PutUint64(e[16:24], uint64(len(*indices)))
	byteOrder.PutUint64(e[24:32], uint64(len(*values)))
	for _, idx := range f.Indices {
		b := make([]byte, 8)
		byteOrder.PutUint64(b, uint64(idx))
		*indices = append(*indices, b...)
	}
	for _, v := range f.Values {
		b := make([]byte, 4)
		byteOrder.PutUint32(b, math.Float32bits(v))
		*values = append(*values, b...)
	}
	return append(entries, e...)
}

func writeUint64Array(path string, vals []uint64) error {
	buf := make([]byte, len(vals)*8)
	for i, v := range vals {
		byteOrder.PutUint64(buf[i*8:i*8+8], v)
	}
	return os.WriteFile(path, buf, 0o644)
}
