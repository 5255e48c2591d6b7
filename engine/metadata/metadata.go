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

// Package metadata loads the partition manifest (meta.json) written by the
// offline graph-build pipeline: global counts, feature counts, and the
// per-partition node/edge weight vectors used for federated sampling. It is
// read once at startup and never mutated.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	graphErrors "github.com/cubefs/graphserving/errors"
	"github.com/cubefs/graphserving/proto"
)

// Manifest mirrors the on-disk meta.json shape.
type Manifest struct {
	Version    string `json:"version"`
	Nodes      uint64 `json:"nodes"`
	Edges      uint64 `json:"edges"`
	Partitions uint32 `json:"partitions"`

	NodeCountPerType []uint64 `json:"node_count_per_type"`
	EdgeCountPerType []uint64 `json:"edge_count_per_type"`

	NodeFeatureCount uint32 `json:"node_feature_count"`
	EdgeFeatureCount uint32 `json:"edge_feature_count"`

	// NodePartitionWeights[p][t] / EdgePartitionWeights[p][t] is the total
	// weight partition p contributes for type t, used both to assemble
	// MetadataReply's flattened columns and to seed the sampler registry.
	NodePartitionWeights [][]float32 `json:"node_partition_weights"`
	EdgePartitionWeights [][]float32 `json:"edge_partition_weights"`
}

// Store is the loaded, immutable view of the manifest.
type Store struct {
	m Manifest
}

// Load reads and validates the manifest at path. Malformed JSON and a
// node/edge weight matrix whose row count differs from the declared
// partition count are reported so the caller can treat them as
// startup-fatal; absent fields are not checked and load as zero values.
func Load(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("metadata: read %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("metadata: %s: %w: %v", path, graphErrors.ErrMetadataMalformed, err)
	}

	if uint32(len(m.NodePartitionWeights)) != 0 && uint32(len(m.NodePartitionWeights)) != m.Partitions {
		return nil, fmt.Errorf("metadata: %s: %w: node_partition_weights has %d rows, want %d partitions",
			path, graphErrors.ErrMetadataMalformed, len(m.NodePartitionWeights), m.Partitions)
	}
	if uint32(len(m.EdgePartitionWeights)) != 0 && uint32(len(m.EdgePartitionWeights)) != m.Partitions {
		return nil, fmt.Errorf("metadata: %s: %w: edge_partition_weights has %d rows, want %d partitions",
			path, graphErrors.ErrMetadataMalformed, len(m.EdgePartitionWeights), m.Partitions)
	}

	return &Store{m: m}, nil
}

// Reply assembles the flattened MetadataReply the query engine returns for
// GetMetadata, row-major partitions x types as the wire format requires.
func (s *Store) Reply() proto.MetadataReply {
	return proto.MetadataReply{
		Nodes:                s.m.Nodes,
		Edges:                s.m.Edges,
		NodeTypes:            uint32(len(s.m.NodeCountPerType)),
		EdgeTypes:            uint32(len(s.m.EdgeCountPerType)),
		NodeFeatures:         s.m.NodeFeatureCount,
		EdgeFeatures:         s.m.EdgeFeatureCount,
		Partitions:           s.m.Partitions,
		NodePartitionWeights: flatten(s.m.NodePartitionWeights),
		EdgePartitionWeights: flatten(s.m.EdgePartitionWeights),
		NodeCountPerType:     s.m.NodeCountPerType,
		EdgeCountPerType:     s.m.EdgeCountPerType,
		Version:              s.m.Version,
	}
}

// NodeWeights returns partition p's per-type node weight row, used by the
// sampler registry to build a global weighted-node sampler.
func (s *Store) NodeWeights(partition int) []float32 {
	if partition < 0 || partition >= len(s.m.NodePartitionWeights) {
		return nil
	}
	return s.m.NodePartitionWeights[partition]
}

// EdgeWeights returns partition p's per-type edge weight row.
func (s *Store) EdgeWeights(partition int) []float32 {
	if partition < 0 || partition >= len(s.m.EdgePartitionWeights) {
		return nil
	}
	return s.m.EdgePartitionWeights[partition]
}

// PartitionCount returns the manifest's declared partition count. The server
// does not compare it with the number of partitions discovered on disk.
func (s *Store) PartitionCount() uint32 { return s.m.Partitions }

func flatten(rows [][]float32) []float32 {
	if len(rows) == 0 {
		return nil
	}
	width := len(rows[0])
	out := make([]float32, 0, len(rows)*width)
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
