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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubefs/graphserving/engine/fanout"
	"github.com/cubefs/graphserving/engine/index"
	"github.com/cubefs/graphserving/engine/metadata"
	"github.com/cubefs/graphserving/engine/partition"
	"github.com/cubefs/graphserving/engine/partition/partitiontest"
	"github.com/cubefs/graphserving/proto"
)

// buildEngine loads one partition per builder function and wires them into
// an Engine the same way cmd's startup sequence would: load every
// partition, build the index from them, load the manifest, construct the
// engine over a worker pool sized to force real fan-out.
func buildEngine(t *testing.T, poolSize int, builders ...func(b *partitiontest.Builder)) *Engine {
	t.Helper()

	var parts []*partition.Partition
	for i, fn := range builders {
		b := partitiontest.NewBuilder()
		fn(b)
		dir := t.TempDir()
		suffix := filepath.Base(dir)
		require.NoError(t, b.Build(dir, suffix))
		p, err := partition.Load(partition.Config{DataPath: dir, StorageMode: proto.Streaming}, suffix)
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, p.Close()) })
		parts = append(parts, p)
		_ = i
	}

	sources := make([]index.PartitionSource, len(parts))
	for i, p := range parts {
		sources[i] = p
	}
	idx := index.Build(sources)

	meta := buildManifest(t, uint32(len(parts)))

	return New(parts, idx, meta, fanout.NewPool(poolSize))
}

func buildManifest(t *testing.T, partitions uint32) *metadata.Store {
	t.Helper()
	m := metadata.Manifest{
		Version:    "test",
		Nodes:      0,
		Edges:      0,
		Partitions: partitions,
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "meta.json")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	store, err := metadata.Load(path)
	require.NoError(t, err)
	return store
}
