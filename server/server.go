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

package server

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cubefs/cubefs/blobstore/util/log"
	"golang.org/x/sync/errgroup"

	"github.com/cubefs/graphserving/engine/fanout"
	"github.com/cubefs/graphserving/engine/index"
	"github.com/cubefs/graphserving/engine/metadata"
	"github.com/cubefs/graphserving/engine/partition"
	"github.com/cubefs/graphserving/engine/query"
	"github.com/cubefs/graphserving/proto"
)

// Config is the startup configuration for a graph-serving node: where the
// partition files and manifest live, how they should be opened, and how
// much per-request fan-out concurrency to run with.
type Config struct {
	DataPath     string                     `json:"data_path"`
	MetadataPath string                     `json:"metadata_path"`
	StorageMode  proto.PartitionStorageMode `json:"storage_mode"`
	PoolSize     int                        `json:"pool_size"`

	// PartitionSet restricts which discovered partition suffixes this node
	// hosts, keyed by the suffix's numeric tail (e.g. "000" -> 0). A nil or
	// empty set hosts every partition discovered under DataPath.
	PartitionSet []int `json:"partition_set"`
}

// Server holds everything a node needs for its lifetime: the loaded,
// read-only partition set and the query engine built over it. Nothing here
// is mutated once NewServer returns.
type Server struct {
	cfg        *Config
	partitions []*partition.Partition
	engine     *query.Engine
}

// NewServer discovers every partition under cfg.DataPath, loads them
// concurrently, builds the node-location index and the metadata store, and
// wires them into a query engine. A missing node map or adjacency file for
// a discovered suffix is startup-fatal, per the specification's lifecycle
// section.
func NewServer(cfg *Config) *Server {
	suffixes, err := discoverSuffixes(cfg.DataPath, cfg.PartitionSet)
	if err != nil {
		log.Fatalf("server: discover partitions under %s: %s", cfg.DataPath, err)
	}
	if len(suffixes) == 0 {
		log.Fatalf("server: no partitions found under %s", cfg.DataPath)
	}

	partitions := make([]*partition.Partition, len(suffixes))
	var eg errgroup.Group
	for i, suffix := range suffixes {
		i, suffix := i, suffix
		eg.Go(func() error {
			p, err := partition.Load(partition.Config{DataPath: cfg.DataPath, StorageMode: cfg.StorageMode}, suffix)
			if err != nil {
				return fmt.Errorf("partition %s: %w", suffix, err)
			}
			partitions[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatalf("server: loading partitions: %s", err)
	}
	log.Info("server: loaded partitions: ", suffixes)

	sources := make([]index.PartitionSource, len(partitions))
	for i, p := range partitions {
		sources[i] = p
	}
	idx := index.Build(sources)

	meta, err := metadata.Load(cfg.MetadataPath)
	if err != nil {
		log.Fatalf("server: load metadata %s: %s", cfg.MetadataPath, err)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 1
	}
	engine := query.New(partitions, idx, meta, fanout.NewPool(poolSize))

	return &Server{cfg: cfg, partitions: partitions, engine: engine}
}

// Close releases every partition's memory-mapped or streamed file handles.
func (s *Server) Close() error {
	var firstErr error
	for _, p := range s.partitions {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// discoverSuffixes lists dataPath for neighbors_<suffix>.records files whose
// numeric tail is in partitionSet (hosting every discovered suffix when
// partitionSet is empty), and returns the surviving suffixes in sorted
// lexicographic order, which is also the order partitions are assigned
// local indices in.
func discoverSuffixes(dataPath string, partitionSet []int) ([]string, error) {
	entries, err := os.ReadDir(dataPath)
	if err != nil {
		return nil, err
	}

	var wanted map[int]struct{}
	if len(partitionSet) > 0 {
		wanted = make(map[int]struct{}, len(partitionSet))
		for _, p := range partitionSet {
			wanted[p] = struct{}{}
		}
	}

	var suffixes []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		const prefix, ext = "neighbors_", ".records"
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		suffix := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
		if wanted != nil {
			tail, err := strconv.Atoi(suffix)
			if err != nil {
				continue
			}
			if _, ok := wanted[tail]; !ok {
				continue
			}
		}
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes, nil
}

// logHandler is the request-logging middleware the HTTP control surface
// wraps every route with.
func (s *Server) logHandler(w http.ResponseWriter, r *http.Request, next func(http.ResponseWriter, *http.Request)) {
	start := time.Now()
	next(w, r)
	log.Infof("http: %s %s (%s)", r.Method, r.URL.Path, time.Since(start))
}
