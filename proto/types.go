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

// Package proto holds the wire message shapes of the graph engine's gRPC
// surface. The messages are plain Go structs carried by a gob codec
// (see codec.go) rather than protoc-generated types.
package proto

type (
	// NodeId is the public, stable identifier of a node.
	NodeId = int64
	// Type is a node or edge type. Node types and edge types occupy disjoint
	// spaces even though they share this representation.
	Type = int32
	// FeatureId identifies a single dense, sparse or string feature column.
	FeatureId = int32
)

// DefaultNodeType marks "no type / not present".
const DefaultNodeType Type = -1

// PartitionStorageMode selects how a partition's files are opened.
type PartitionStorageMode int

const (
	// MemoryMapped maps every partition file read-only for the process lifetime.
	MemoryMapped PartitionStorageMode = iota
	// Streaming opens a buffered reader per file, used for HDFS-backed partitions.
	Streaming
)

// SamplerCategory selects the sampling strategy of a registered GraphSampler.
type SamplerCategory int32

const (
	Weighted SamplerCategory = iota
	UniformWithReplacement
	UniformWithoutReplacement
)

// FeatureMeta describes a single dense-feature column to fetch: its id and
// the number of bytes the caller wants copied out (shorter stored values are
// zero-padded, longer ones truncated).
type FeatureMeta struct {
	Id   FeatureId
	Size uint32
}
