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

// Package sample holds the sampling primitives the partition store and the
// global sampler registry both need: draw-with-replacement proportional to
// weight, draw-with-replacement uniformly, and draw-k-distinct-without-
// replacement. All three are seeded from a caller-supplied *rand.Rand so
// that the one-seed-per-placement determinism contract lives entirely in
// the caller, never inside this package.
package sample

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// randSource adapts *math/rand.Rand to the golang.org/x/exp/rand.Source
// interface that gonum's sampleuv.NewWeighted requires.
type randSource struct {
	*rand.Rand
}

func (s randSource) Seed(seed uint64) {
	s.Rand.Seed(int64(seed))
}

// NewRand returns the deterministic source for one placement call. The
// specification's "seed++ per placement" contract is implemented by the
// caller simply constructing a fresh Rand per call with the next seed value;
// it never reuses or advances a shared generator across placements.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(int64(seed)))
}

// Weighted draws count indices into weights, each pick independent and
// proportional to weight (the classic "with replacement" weighted draw the
// specification requires for SampleNeighbor). gonum's sampleuv.Weighted
// removes a picked item's mass after each Take, which is the wrong contract
// here, so this builds its own cumulative-weight table instead.
func Weighted(rng *rand.Rand, weights []float64, count int) []int {
	if len(weights) == 0 || count <= 0 {
		return nil
	}

	cum := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		total += w
		cum[i] = total
	}
	if total <= 0 {
		return nil
	}

	out := make([]int, count)
	for i := range out {
		target := rng.Float64() * total
		out[i] = sort.Search(len(cum), func(j int) bool { return cum[j] > target })
	}
	return out
}

// UniformWithReplacement draws count indices in [0, n) uniformly, with
// replacement.
func UniformWithReplacement(rng *rand.Rand, n, count int) []int {
	if n <= 0 || count <= 0 {
		return nil
	}
	out := make([]int, count)
	for i := range out {
		out[i] = rng.Intn(n)
	}
	return out
}

// UniformWithoutReplacement draws min(count, n) distinct indices in [0, n).
// It is implemented on top of gonum's sampleuv.Weighted fed equal weights:
// Take() zeroes a chosen item's mass before the next draw, which is exactly
// "sample without replacement" when every item starts with the same weight.
func UniformWithoutReplacement(rng *rand.Rand, n, count int) []int {
	if n <= 0 || count <= 0 {
		return nil
	}
	if count > n {
		count = n
	}

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}
	w := sampleuv.NewWeighted(weights, randSource{rng})

	out := make([]int, 0, count)
	for len(out) < count {
		idx, ok := w.Take()
		if !ok {
			break
		}
		out = append(out, idx)
	}
	return out
}
