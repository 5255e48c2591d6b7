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
	"math/rand"

	"github.com/cubefs/graphserving/engine/sample"
	"github.com/cubefs/graphserving/proto"
)

// SampleNeighbor draws count neighbors with replacement from this
// placement's matching edges, each chosen proportionally to edge weight. It
// returns the placement's total matching weight (shardWeight) separately
// from the draws themselves: the caller is responsible for accumulating
// shardWeight across placements and for leaving the corresponding output
// slots untouched when ok is false (no matching neighbors at this
// placement).
func (p *Partition) SampleNeighbor(rng *rand.Rand, i uint64, edgeTypes []proto.Type, count uint64) (ids []proto.NodeId, weights []float32, types []proto.Type, shardWeight float32, ok bool) {
	nIds, nTypes, nWeights := p.MatchingNeighbors(i, edgeTypes)
	if len(nIds) == 0 {
		return nil, nil, nil, 0, false
	}

	fw := make([]float64, len(nWeights))
	var total float32
	for i, w := range nWeights {
		fw[i] = float64(w)
		total += w
	}
	if total <= 0 {
		return nil, nil, nil, 0, false
	}

	picks := sample.Weighted(rng, fw, int(count))
	ids = make([]proto.NodeId, len(picks))
	weights = make([]float32, len(picks))
	types = make([]proto.Type, len(picks))
	for j, p := range picks {
		ids[j] = nIds[p]
		weights[j] = nWeights[p]
		types[j] = nTypes[p]
	}
	return ids, weights, types, total, true
}

// UniformSampleNeighbor draws from this placement's matching edges
// uniformly: count draws with replacement, or min(count, matching) distinct
// draws without replacement. shardCount is the placement's total matching
// neighbor count, reported independently of how many slots this placement
// actually filled (relevant when withoutReplacement leaves slots for other
// placements, or for the caller's own defaults, to fill).
func (p *Partition) UniformSampleNeighbor(rng *rand.Rand, withoutReplacement bool, i uint64, edgeTypes []proto.Type, count uint64) (ids []proto.NodeId, types []proto.Type, shardCount uint64, ok bool) {
	nIds, nTypes, _ := p.MatchingNeighbors(i, edgeTypes)
	if len(nIds) == 0 {
		return nil, nil, 0, false
	}

	var picks []int
	if withoutReplacement {
		picks = sample.UniformWithoutReplacement(rng, len(nIds), int(count))
	} else {
		picks = sample.UniformWithReplacement(rng, len(nIds), int(count))
	}

	ids = make([]proto.NodeId, len(picks))
	types = make([]proto.Type, len(picks))
	for j, p := range picks {
		ids[j] = nIds[p]
		types[j] = nTypes[p]
	}
	return ids, types, uint64(len(nIds)), true
}
