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

// Package partition loads and queries a single partition's binary files:
// the node map, the adjacency lists, and the dense/sparse/string feature
// blobs. Every method here is a leaf primitive the query engine fans out
// over; none of them know about other partitions or about replication.
package partition

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/cubefs/graphserving/proto"
)

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// NodeMapRecord is the (external_id, internal_index, node_type) triple read
// from a partition's node_<suffix>.map file, exposed so the node-location
// index can be built without this package knowing anything about placements.
type NodeMapRecord struct {
	ExternalID proto.NodeId
	Internal   uint64
	NodeType   proto.Type
}

// byteFeatureStore backs both the dense and the string feature shapes: they
// differ only in how the caller interprets the blob bytes (padded/truncated
// to a requested size for dense, reported verbatim by length for string).
type byteFeatureStore struct {
	nodeOffsets []uint64 // len == N+1, absent for edge-only stores
	entries     byteSource
	blob        byteSource
}

func (s *byteFeatureStore) nodeRange(i uint64) (start, count uint32) {
	if s.nodeOffsets == nil || i+1 >= uint64(len(s.nodeOffsets)) {
		return 0, 0
	}
	return uint32(s.nodeOffsets[i]), uint32(s.nodeOffsets[i+1] - s.nodeOffsets[i])
}

func (s *byteFeatureStore) entry(idx uint32) byteFeatureEntry {
	b := s.entries.bytes()
	off := int(idx) * byteFeatureEntrySize
	return decodeByteFeatureEntry(b[off : off+byteFeatureEntrySize])
}

func (s *byteFeatureStore) blobBytes(e byteFeatureEntry) []byte {
	b := s.blob.bytes()
	return b[e.BlobOffset : e.BlobOffset+uint64(e.Length)]
}

type sparseFeatureStore struct {
	nodeOffsets []uint64
	entries     byteSource
	indices     byteSource
	values      byteSource
}

func (s *sparseFeatureStore) nodeRange(i uint64) (start, count uint32) {
	if s.nodeOffsets == nil || i+1 >= uint64(len(s.nodeOffsets)) {
		return 0, 0
	}
	return uint32(s.nodeOffsets[i]), uint32(s.nodeOffsets[i+1] - s.nodeOffsets[i])
}

func (s *sparseFeatureStore) entry(idx uint32) sparseFeatureEntry {
	b := s.entries.bytes()
	off := int(idx) * sparseFeatureEntrySize
	return decodeSparseFeatureEntry(b[off : off+sparseFeatureEntrySize])
}

func (s *sparseFeatureStore) indexValues(e sparseFeatureEntry) []int64 {
	b := s.indices.bytes()
	out := make([]int64, e.NumValues)
	off := e.IndicesOffset
	for i := range out {
		out[i] = int64(byteOrder.Uint64(b[off : off+8]))
		off += 8
	}
	return out
}

func (s *sparseFeatureStore) floatValues(e sparseFeatureEntry) []float32 {
	b := s.values.bytes()
	out := make([]float32, e.NumValues)
	off := e.ValuesOffset
	for i := range out {
		out[i] = decodeFloat32(b[off : off+4])
		off += 4
	}
	return out
}

// Partition is an immutable, loaded view of one on-disk partition bundle.
type Partition struct {
	Suffix string
	nodes  uint64

	nodeTypes   []proto.Type
	externalIDs []proto.NodeId

	neighborOffsets []uint64
	neighborRecords byteSource

	nodeDense  byteFeatureStore
	nodeString byteFeatureStore
	nodeSparse sparseFeatureStore

	edgeDense  byteFeatureStore
	edgeString byteFeatureStore
	edgeSparse sparseFeatureStore

	sources []byteSource // every opened source, for Close
}

// Config controls how a partition's files are opened.
type Config struct {
	DataPath    string
	StorageMode proto.PartitionStorageMode
}

// Load opens every file belonging to the partition identified by suffix and
// decodes the fixed-size index arrays (node map, neighbor offsets, feature
// offsets) into memory; the large record/blob files stay mapped or buffered
// in the chosen storage mode. A missing required file (node map, neighbor
// adjacency) is a startup-fatal error per the specification; a missing
// optional feature file simply yields an empty store.
func Load(cfg Config, suffix string) (*Partition, error) {
	p := &Partition{Suffix: suffix}

	nodeMapPath := filepath.Join(cfg.DataPath, fmt.Sprintf("node_%s.map", suffix))
	nodeMapSrc, err := openSource(nodeMapPath, cfg.StorageMode)
	if err != nil {
		return nil, fmt.Errorf("partition %s: node map: %w", suffix, err)
	}
	defer nodeMapSrc.close()

	nmBytes := nodeMapSrc.bytes()
	if len(nmBytes)%nodeMapRecordSize != 0 {
		return nil, fmt.Errorf("partition %s: node map file size %d is not a multiple of %d", suffix, len(nmBytes), nodeMapRecordSize)
	}
	n := len(nmBytes) / nodeMapRecordSize
	p.nodes = uint64(n)
	p.nodeTypes = make([]proto.Type, n)
	p.externalIDs = make([]proto.NodeId, n)
	for i := 0; i < n; i++ {
		rec := decodeNodeMapRecord(nmBytes[i*nodeMapRecordSize : (i+1)*nodeMapRecordSize])
		if rec.Internal != uint64(i) {
			return nil, fmt.Errorf("partition %s: node map record %d claims internal index %d: %w", suffix, i, rec.Internal, errNodeMapCorrupt)
		}
		p.nodeTypes[i] = rec.NodeType
		p.externalIDs[i] = rec.ExternalID
	}

	neighborOffsetsPath := filepath.Join(cfg.DataPath, fmt.Sprintf("neighbors_%s.offsets", suffix))
	offSrc, err := openSource(neighborOffsetsPath, proto.MemoryMapped)
	if err != nil {
		return nil, fmt.Errorf("partition %s: neighbor offsets: %w", suffix, err)
	}
	defer offSrc.close()
	p.neighborOffsets = decodeUint64Array(offSrc.bytes())
	if len(p.neighborOffsets) != n+1 {
		return nil, fmt.Errorf("partition %s: neighbor offsets length %d, want %d", suffix, len(p.neighborOffsets), n+1)
	}

	recPath := filepath.Join(cfg.DataPath, fmt.Sprintf("neighbors_%s.records", suffix))
	p.neighborRecords, err = openSource(recPath, cfg.StorageMode)
	if err != nil {
		return nil, fmt.Errorf("partition %s: neighbor records: %w", suffix, err)
	}
	p.sources = append(p.sources, p.neighborRecords)

	p.nodeDense, err = p.loadByteFeatureStore(cfg, suffix, "nodefeatures", "dense", n)
	if err != nil {
		return nil, err
	}
	p.nodeString, err = p.loadByteFeatureStore(cfg, suffix, "nodefeatures", "string", n)
	if err != nil {
		return nil, err
	}
	p.nodeSparse, err = p.loadSparseFeatureStore(cfg, suffix, "nodefeatures", n)
	if err != nil {
		return nil, err
	}
	p.edgeDense, err = p.loadByteFeatureStore(cfg, suffix, "edgefeatures", "dense", -1)
	if err != nil {
		return nil, err
	}
	p.edgeString, err = p.loadByteFeatureStore(cfg, suffix, "edgefeatures", "string", -1)
	if err != nil {
		return nil, err
	}
	p.edgeSparse, err = p.loadSparseFeatureStore(cfg, suffix, "edgefeatures", -1)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Partition) loadByteFeatureStore(cfg Config, suffix, kind, shape string, nodeCount int) (byteFeatureStore, error) {
	var store byteFeatureStore
	if nodeCount >= 0 {
		offPath := filepath.Join(cfg.DataPath, fmt.Sprintf("%s_%s.%s.offsets", kind, suffix, shape))
		offSrc, err := openSourceOptional(offPath, proto.MemoryMapped)
		if err != nil {
			return store, err
		}
		defer offSrc.close()
		store.nodeOffsets = decodeUint64Array(offSrc.bytes())
		if store.nodeOffsets != nil && len(store.nodeOffsets) != nodeCount+1 {
			return store, fmt.Errorf("partition %s: %s.%s offsets length %d, want %d", suffix, kind, shape, len(store.nodeOffsets), nodeCount+1)
		}
	}

	entriesPath := filepath.Join(cfg.DataPath, fmt.Sprintf("%s_%s.%s.index", kind, suffix, shape))
	entries, err := openSourceOptional(entriesPath, cfg.StorageMode)
	if err != nil {
		return store, err
	}
	store.entries = entries
	p.sources = append(p.sources, entries)

	blobPath := filepath.Join(cfg.DataPath, fmt.Sprintf("%s_%s.%s.blob", kind, suffix, shape))
	blob, err := openSourceOptional(blobPath, cfg.StorageMode)
	if err != nil {
		return store, err
	}
	store.blob = blob
	p.sources = append(p.sources, blob)

	return store, nil
}

func (p *Partition) loadSparseFeatureStore(cfg Config, suffix, kind string, nodeCount int) (sparseFeatureStore, error) {
	var store sparseFeatureStore
	if nodeCount >= 0 {
		offPath := filepath.Join(cfg.DataPath, fmt.Sprintf("%s_%s.sparse.offsets", kind, suffix))
		offSrc, err := openSourceOptional(offPath, proto.MemoryMapped)
		if err != nil {
			return store, err
		}
		defer offSrc.close()
		store.nodeOffsets = decodeUint64Array(offSrc.bytes())
		if store.nodeOffsets != nil && len(store.nodeOffsets) != nodeCount+1 {
			return store, fmt.Errorf("partition %s: %s.sparse offsets length %d, want %d", suffix, kind, len(store.nodeOffsets), nodeCount+1)
		}
	}

	entriesPath := filepath.Join(cfg.DataPath, fmt.Sprintf("%s_%s.sparse.index", kind, suffix))
	entries, err := openSourceOptional(entriesPath, cfg.StorageMode)
	if err != nil {
		return store, err
	}
	store.entries = entries
	p.sources = append(p.sources, entries)

	idxPath := filepath.Join(cfg.DataPath, fmt.Sprintf("%s_%s.sparse.indices", kind, suffix))
	idx, err := openSourceOptional(idxPath, cfg.StorageMode)
	if err != nil {
		return store, err
	}
	store.indices = idx
	p.sources = append(p.sources, idx)

	valPath := filepath.Join(cfg.DataPath, fmt.Sprintf("%s_%s.sparse.values", kind, suffix))
	val, err := openSourceOptional(valPath, cfg.StorageMode)
	if err != nil {
		return store, err
	}
	store.values = val
	p.sources = append(p.sources, val)

	return store, nil
}

// Close releases every mapped/buffered file the partition opened.
func (p *Partition) Close() error {
	var first error
	if p.neighborRecords != nil {
		if err := p.neighborRecords.close(); err != nil && first == nil {
			first = err
		}
	}
	for _, s := range p.sources {
		if s == nil {
			continue
		}
		if err := s.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NodeCount returns how many internal indices this partition hosts.
func (p *Partition) NodeCount() uint64 { return p.nodes }

// EachNodeMapRecord is used only at index-build time; it replays what Load
// already decoded rather than re-reading the file.
func (p *Partition) EachNodeMapRecord(f func(externalID proto.NodeId, internal uint64, nodeType proto.Type)) {
	for i, t := range p.nodeTypes {
		f(p.externalIDs[i], uint64(i), t)
	}
}

// GetNodeType returns the stored type or DefaultNodeType if i is out of
// range (not present in this partition).
func (p *Partition) GetNodeType(i uint64) proto.Type {
	if i >= p.nodes {
		return proto.DefaultNodeType
	}
	return p.nodeTypes[i]
}

// ExternalID returns the public node id stored at internal index i, used by
// the global sampler registry to turn a partition-local scan back into
// wire-visible node ids.
func (p *Partition) ExternalID(i uint64) proto.NodeId {
	if i >= p.nodes {
		return 0
	}
	return p.externalIDs[i]
}

func decodeUint64Array(b []byte) []uint64 {
	if len(b) == 0 {
		return nil
	}
	out := make([]uint64, len(b)/8)
	for i := range out {
		out[i] = byteOrder.Uint64(b[i*8 : i*8+8])
	}
	return out
}

func openSourceOptional(path string, mode proto.PartitionStorageMode) (byteSource, error) {
	src, err := openSource(path, mode)
	if err != nil {
		if isNotExist(err) {
			return emptySource{}, nil
		}
		return nil, err
	}
	return src, nil
}

// neighborRange returns the record-index range [start, end) of this node's
// neighbor records (sorted by edge type, then destination, at partition
// build time). The range covers every edge type; callers filter it with
// typeMatches.
func (p *Partition) neighborRange(i uint64) (start, end uint64) {
	if i+1 >= uint64(len(p.neighborOffsets)) {
		return 0, 0
	}
	return p.neighborOffsets[i], p.neighborOffsets[i+1]
}

func (p *Partition) neighborAt(idx uint64) neighborRecord {
	b := p.neighborRecords.bytes()
	off := idx * neighborRecordSize
	return decodeNeighborRecord(b[off : off+neighborRecordSize])
}

// typeMatches reports whether t is present in the caller-supplied sorted
// edge_types filter (or the filter is empty, meaning "all edge types").
func typeMatches(sortedTypes []proto.Type, t proto.Type) bool {
	if len(sortedTypes) == 0 {
		return true
	}
	i := sort.Search(len(sortedTypes), func(i int) bool { return sortedTypes[i] >= t })
	return i < len(sortedTypes) && sortedTypes[i] == t
}

var errNodeMapCorrupt = fmt.Errorf("node map record position does not match its internal index")
