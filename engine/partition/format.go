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

import (
	"encoding/binary"
	"math"

	"github.com/cubefs/graphserving/proto"
)

// On-disk record sizes. Every record is decoded field by field with
// encoding/binary rather than cast through unsafe.Pointer, so there is no
// struct-layout/alignment requirement on these sizes.
const (
	nodeMapRecordSize = 8 + 8 + 4 // external_id, internal_index, node_type

	// neighborRecordSize: dst, edge_type, weight, then three (offset,count)
	// pairs addressing this edge's dense/string/sparse feature entries in
	// the partition-wide edge feature stores.
	neighborRecordSize = 8 + 4 + 4 + (8+4)*3

	byteFeatureEntrySize = 4 + 4 + 8 // feature_id, length, blob_offset

	sparseFeatureEntrySize = 4 + 8 + 4 + 8 + 8 // feature_id, dimension, num_values, indices_offset, values_offset
)

var byteOrder = binary.LittleEndian

type nodeMapRecord struct {
	ExternalID proto.NodeId
	Internal   uint64
	NodeType   proto.Type
}

func decodeNodeMapRecord(b []byte) nodeMapRecord {
	return nodeMapRecord{
		ExternalID: int64(byteOrder.Uint64(b[0:8])),
		Internal:   byteOrder.Uint64(b[8:16]),
		NodeType:   int32(byteOrder.Uint32(b[16:20])),
	}
}

func encodeNodeMapRecord(b []byte, r nodeMapRecord) {
	byteOrder.PutUint64(b[0:8], uint64(r.ExternalID))
	byteOrder.PutUint64(b[8:16], r.Internal)
	byteOrder.PutUint32(b[16:20], uint32(r.NodeType))
}

type neighborRecord struct {
	Dst      proto.NodeId
	EdgeType proto.Type
	Weight   float32

	DenseOffset  uint64
	DenseCount   uint32
	StringOffset uint64
	StringCount  uint32
	SparseOffset uint64
	SparseCount  uint32
}

func decodeNeighborRecord(b []byte) neighborRecord {
	return neighborRecord{
		Dst:          int64(byteOrder.Uint64(b[0:8])),
		EdgeType:     int32(byteOrder.Uint32(b[8:12])),
		Weight:       decodeFloat32(b[12:16]),
		DenseOffset:  byteOrder.Uint64(b[16:24]),
		DenseCount:   byteOrder.Uint32(b[24:28]),
		StringOffset: byteOrder.Uint64(b[28:36]),
		StringCount:  byteOrder.Uint32(b[36:40]),
		SparseOffset: byteOrder.Uint64(b[40:48]),
		SparseCount:  byteOrder.Uint32(b[48:52]),
	}
}

func encodeNeighborRecord(b []byte, r neighborRecord) {
	byteOrder.PutUint64(b[0:8], uint64(r.Dst))
	byteOrder.PutUint32(b[8:12], uint32(r.EdgeType))
	encodeFloat32(b[12:16], r.Weight)
	byteOrder.PutUint64(b[16:24], r.DenseOffset)
	byteOrder.PutUint32(b[24:28], r.DenseCount)
	byteOrder.PutUint64(b[28:36], r.StringOffset)
	byteOrder.PutUint32(b[36:40], r.StringCount)
	byteOrder.PutUint64(b[40:48], r.SparseOffset)
	byteOrder.PutUint32(b[48:52], r.SparseCount)
}

type byteFeatureEntry struct {
	FeatureId  proto.FeatureId
	Length     uint32
	BlobOffset uint64
}

func decodeByteFeatureEntry(b []byte) byteFeatureEntry {
	return byteFeatureEntry{
		FeatureId:  int32(byteOrder.Uint32(b[0:4])),
		Length:     byteOrder.Uint32(b[4:8]),
		BlobOffset: byteOrder.Uint64(b[8:16]),
	}
}

func encodeByteFeatureEntry(b []byte, e byteFeatureEntry) {
	byteOrder.PutUint32(b[0:4], uint32(e.FeatureId))
	byteOrder.PutUint32(b[4:8], e.Length)
	byteOrder.PutUint64(b[8:16], e.BlobOffset)
}

type sparseFeatureEntry struct {
	FeatureId     proto.FeatureId
	Dimension     int64
	NumValues     uint32
	IndicesOffset uint64
	ValuesOffset  uint64
}

func decodeSparseFeatureEntry(b []byte) sparseFeatureEntry {
	return sparseFeatureEntry{
		FeatureId:     int32(byteOrder.Uint32(b[0:4])),
		Dimension:     int64(byteOrder.Uint64(b[4:12])),
		NumValues:     byteOrder.Uint32(b[12:16]),
		IndicesOffset: byteOrder.Uint64(b[16:24]),
		ValuesOffset:  byteOrder.Uint64(b[24:32]),
	}
}

func encodeSparseFeatureEntry(b []byte, e sparseFeatureEntry) {
	byteOrder.PutUint32(b[0:4], uint32(e.FeatureId))
	byteOrder.PutUint64(b[4:12], uint64(e.Dimension))
	byteOrder.PutUint32(b[12:16], e.NumValues)
	byteOrder.PutUint64(b[16:24], e.IndicesOffset)
	byteOrder.PutUint64(b[24:32], e.ValuesOffset)
}

func decodeFloat32(b []byte) float32 {
	return math.Float32frombits(byteOrder.Uint32(b))
}

func encodeFloat32(b []byte, v float32) {
	byteOrder.PutUint32(b, math.Float32bits(v))
}
