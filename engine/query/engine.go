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

// Package query implements the request engine: for every RPC it consults
// the node-location index, iterates placements, fans the per-node work out
// across a worker pool, and concatenates per-worker results back in
// worker-index order so replies stay deterministic under parallelism.
// Engine implements both proto.GraphQueryServer and, together with
// CreateSampler/Sample, proto.GraphSamplerServer.
package query

import (
	"encoding/binary"
	"math"

	"github.com/cubefs/graphserving/engine/fanout"
	"github.com/cubefs/graphserving/engine/index"
	"github.com/cubefs/graphserving/engine/metadata"
	"github.com/cubefs/graphserving/engine/partition"
	"github.com/cubefs/graphserving/engine/sampler"
	"github.com/cubefs/graphserving/metrics"
	"github.com/cubefs/graphserving/proto"
)

// Engine is the query dispatch and fan-out layer described in the
// specification's component design. It holds no mutable state beyond the
// sampler registry (itself internally synchronized); every field set at
// construction time is read-only for the server's lifetime.
type Engine struct {
	partitions []*partition.Partition
	idx        *index.Index
	meta       *metadata.Store
	pool       *fanout.Pool
	samplers   *sampler.Registry
}

// New builds a query engine over already-loaded partitions, index and
// metadata. pool governs the per-request fan-out concurrency; pass
// fanout.NewPool(1) to run every request on the calling goroutine.
func New(partitions []*partition.Partition, idx *index.Index, meta *metadata.Store, pool *fanout.Pool) *Engine {
	return &Engine{
		partitions: partitions,
		idx:        idx,
		meta:       meta,
		pool:       pool,
		samplers:   sampler.New(),
	}
}

// workerRange is one contiguous slice of request positions assigned to a
// single worker.
type workerRange struct {
	Start, End int
}

// splitRanges implements the fan-out rule of the specification: concurrency
// equals the pool's worker budget when there are at least that many items,
// otherwise everything runs as a single range; the last range absorbs any
// remainder so every item is covered exactly once.
func splitRanges(n, workers int) []workerRange {
	if n == 0 {
		return nil
	}
	if workers <= 1 || n < workers {
		return []workerRange{{0, n}}
	}
	chunk := n / workers
	rem := n % workers
	out := make([]workerRange, workers)
	start := 0
	for w := 0; w < workers; w++ {
		size := chunk
		if w == workers-1 {
			size += rem
		}
		out[w] = workerRange{start, start + size}
		start += size
	}
	return out
}

func (e *Engine) ranges(n int) []workerRange {
	workers := e.pool.Size()
	if n < workers {
		workers = 1
	}
	return splitRanges(n, workers)
}

func isSortedTypes(types []proto.Type) bool {
	for i := 1; i < len(types); i++ {
		if types[i] < types[i-1] {
			return false
		}
	}
	return true
}

// encodeFloat32 matches engine/partition's on-disk little-endian convention
// so SparseFeaturesReply.Values round trips the same way dense feature
// bytes do.
func encodeFloat32(v float32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	return b[:]
}

// visitPlacement records one (node, partition) placement visited while
// serving rpc. CounterVec is safe for concurrent use, so this can be called
// directly from worker goroutines without any extra synchronization.
func visitPlacement(rpc string) {
	metrics.PlacementsVisited.WithLabelValues(rpc).Inc()
}

// consumeSeed records one per-placement seed value consumed during neighbor
// sampling for rpc.
func consumeSeed(rpc string) {
	metrics.SeedsConsumed.WithLabelValues(rpc).Inc()
}
