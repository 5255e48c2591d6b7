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

package proto

// NodeFeaturesRequest asks for dense feature columns of a set of nodes.
type NodeFeaturesRequest struct {
	NodeIds  []NodeId
	Features []FeatureMeta
}

// NodeFeaturesReply is the columnar dense-feature reply: feature_values is the
// concatenation of every requested column for every node that had at least
// one matching placement, and Offsets[i] is the request position the i-th
// payload row came from.
type NodeFeaturesReply struct {
	FeatureValues []byte
	Offsets       []uint32
}

// EdgeFeaturesRequest carries edge endpoints as the concatenation
// [src_0..src_n, dst_0..dst_n] with a parallel Types of length n
// (|NodeIds| == 2*|Types| is a request-level invariant).
type EdgeFeaturesRequest struct {
	NodeIds  []NodeId
	Types    []Type
	Features []FeatureMeta
}

type EdgeFeaturesReply struct {
	FeatureValues []byte
	Offsets       []uint32
}

type NodeSparseFeaturesRequest struct {
	NodeIds    []NodeId
	FeatureIds []FeatureId
}

type EdgeSparseFeaturesRequest struct {
	NodeIds    []NodeId
	Types      []Type
	FeatureIds []FeatureId
}

// SparseFeaturesReply is shared by node- and edge-sparse requests. Dimensions
// holds one declared width per feature; the _Counts slices split the flat
// Indices/Values arrays by (worker, feature) for edge-sparse replies and by
// feature alone for node-sparse replies.
type SparseFeaturesReply struct {
	Values        []byte
	Indices       []int64
	Dimensions    []int64
	IndicesCounts []int64
	ValuesCounts  []int64
}

// StringFeaturesReply is shared by node- and edge-string requests. Dimensions
// is a flat num_rows x num_features table of byte lengths.
type StringFeaturesReply struct {
	Values     []byte
	Dimensions []int64
}

type GetNeighborsRequest struct {
	NodeIds   []NodeId
	EdgeTypes []Type // must be sorted ascending
}

type GetNeighborsReply struct {
	NodeIds        []NodeId
	EdgeWeights    []float32
	EdgeTypes      []Type
	NeighborCounts []uint64 // one per input node
}

type GetNeighborCountsReply struct {
	NeighborCounts []uint64
}

type WeightedSampleNeighborsRequest struct {
	Seed            uint64
	NodeIds         []NodeId
	EdgeTypes       []Type // must be sorted ascending
	DefaultNodeId   NodeId
	DefaultWeight   float32
	DefaultEdgeType Type
	Count           uint64
}

type WeightedSampleNeighborsReply struct {
	NeighborIds   []NodeId  // len == len(NodeIds)*Count
	NeighborWeights []float32
	NeighborTypes []Type
	NodeIds       []NodeId // found input nodes, in request order
	ShardWeights  []float32
}

type UniformSampleNeighborsRequest struct {
	Seed              uint64
	NodeIds           []NodeId
	EdgeTypes         []Type
	DefaultNodeId     NodeId
	DefaultEdgeType   Type
	Count             uint64
	WithoutReplacement bool
}

type UniformSampleNeighborsReply struct {
	NeighborIds   []NodeId
	NeighborTypes []Type
	ShardCounts   []uint64
	NodeIds       []NodeId
}

type MetadataRequest struct{}

type MetadataReply struct {
	Nodes               uint64
	Edges               uint64
	NodeTypes           uint32
	EdgeTypes           uint32
	NodeFeatures        uint32
	EdgeFeatures        uint32
	Partitions          uint32
	NodePartitionWeights []float32 // partitions x node_types
	EdgePartitionWeights []float32 // partitions x edge_types
	NodeCountPerType    []uint64
	EdgeCountPerType    []uint64
	Version             string
}

type NodeTypesRequest struct {
	NodeIds []NodeId
}

// NodeTypesReply reports only nodes with a non-default type; Offsets[i] is
// the request position that produced Types[i].
type NodeTypesReply struct {
	Types   []Type
	Offsets []uint32
}

type CreateSamplerRequest struct {
	EntityTypes []Type
	IsEdge      bool
	Category    SamplerCategory
}

type CreateSamplerReply struct {
	SamplerId uint32
	Weight    float32
}

type SampleRequest struct {
	SamplerId uint32
	Seed      uint64
	Count     uint64
	IsEdge    bool
}

// SampleReply: for edge samplers NodeIds is [src.., dst..] of length 2*Count.
type SampleReply struct {
	Types   []Type
	NodeIds []NodeId
}
