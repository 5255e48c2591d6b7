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

// Package sampler implements the graph sampler service: process-wide keyed
// sampler objects for global node/edge sampling, independent of the
// per-node neighbor sampling in engine/partition. The registry is a
// sync.RWMutex-guarded map keyed by a uint32 sampler id, grounded on the
// teacher's shardsMu guarded-map pattern; samplers are immutable once
// created and only ever removed wholesale at shutdown.
package sampler

import (
	"sync"
	"sync/atomic"

	graphErrors "github.com/cubefs/graphserving/errors"
	"github.com/cubefs/graphserving/engine/sample"
	"github.com/cubefs/graphserving/proto"
)

// Population is the fixed set a sampler draws from: parallel Types/weight
// slices plus either NodeIDs (node samplers) or Src/Dst (edge samplers).
type Population struct {
	Types   []proto.Type
	NodeIDs []proto.NodeId
	Src     []proto.NodeId
	Dst     []proto.NodeId
	Weights []float32
}

func (p Population) size() int {
	if len(p.NodeIDs) > 0 {
		return len(p.NodeIDs)
	}
	return len(p.Src)
}

// Source builds the population a Create call samples from. A server wires
// this to its loaded partitions: node samplers draw from every node whose
// type is in entityTypes, edge samplers from every edge whose type is.
type Source interface {
	NodePopulation(entityTypes []proto.Type) Population
	EdgePopulation(entityTypes []proto.Type) Population
}

type entry struct {
	category proto.SamplerCategory
	isEdge   bool
	pop      Population
}

// Registry is the process-wide sampler table.
type Registry struct {
	mu      sync.RWMutex
	entries map[uint32]entry
	nextID  uint32
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[uint32]entry)}
}

// Create builds a new sampler over src's population for entityTypes/isEdge
// and registers it under a fresh id. The returned weight is the total mass
// this shard contributes for the category: summed edge/node weight for
// Weighted samplers, population size for the uniform categories (their
// federated merge uses plain counts, not weights).
func (r *Registry) Create(src Source, entityTypes []proto.Type, isEdge bool, category proto.SamplerCategory) (uint32, float32, error) {
	switch category {
	case proto.Weighted, proto.UniformWithReplacement, proto.UniformWithoutReplacement:
	default:
		return 0, 0, graphErrors.ErrUnknownCategory
	}

	var pop Population
	if isEdge {
		pop = src.EdgePopulation(entityTypes)
	} else {
		pop = src.NodePopulation(entityTypes)
	}

	var weight float32
	if category == proto.Weighted {
		for _, w := range pop.Weights {
			weight += w
		}
	} else {
		weight = float32(pop.size())
	}

	id := atomic.AddUint32(&r.nextID, 1)
	r.mu.Lock()
	r.entries[id] = entry{category: category, isEdge: isEdge, pop: pop}
	r.mu.Unlock()

	return id, weight, nil
}

// Sample draws count picks from samplerID's population using seed as the
// single per-call RNG seed (this is a whole-call seed, not the
// per-placement seed++ contract neighbor sampling uses, since a global
// sampler has no placement notion).
func (r *Registry) Sample(samplerID uint32, seed uint64, count uint64) (types []proto.Type, nodeIDs []proto.NodeId, err error) {
	r.mu.RLock()
	e, ok := r.entries[samplerID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, graphErrors.ErrUnknownSampler
	}

	n := e.pop.size()
	if n == 0 {
		return nil, nil, nil
	}

	rng := sample.NewRand(seed)
	var picks []int
	switch e.category {
	case proto.Weighted:
		fw := make([]float64, len(e.pop.Weights))
		for i, w := range e.pop.Weights {
			fw[i] = float64(w)
		}
		picks = sample.Weighted(rng, fw, int(count))
	case proto.UniformWithReplacement:
		picks = sample.UniformWithReplacement(rng, n, int(count))
	case proto.UniformWithoutReplacement:
		picks = sample.UniformWithoutReplacement(rng, n, int(count))
	default:
		return nil, nil, graphErrors.ErrUnknownCategory
	}

	types = make([]proto.Type, len(picks))
	if e.isEdge {
		nodeIDs = make([]proto.NodeId, 2*len(picks))
		for j, p := range picks {
			types[j] = e.pop.Types[p]
			nodeIDs[j] = e.pop.Src[p]
			nodeIDs[len(picks)+j] = e.pop.Dst[p]
		}
		return types, nodeIDs, nil
	}

	nodeIDs = make([]proto.NodeId, len(picks))
	for j, p := range picks {
		types[j] = e.pop.Types[p]
		nodeIDs[j] = e.pop.NodeIDs[p]
	}
	return types, nodeIDs, nil
}

// Len reports how many samplers are currently registered (test/diagnostic
// use only).
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
