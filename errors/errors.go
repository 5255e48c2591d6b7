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

package errors

import "errors"

var (
	// ErrPartitionDoesNotExist marks a partition suffix with no on-disk companion files.
	ErrPartitionDoesNotExist = errors.New("partition does not exist")

	ErrNodeMapCorrupt   = errors.New("node map record position does not match its internal index")
	ErrMetadataMalformed = errors.New("metadata manifest malformed")

	ErrEdgeTypesNotSorted  = errors.New("edge_types must be sorted ascending")
	ErrNodeEdgeSizeMismatch = errors.New("len(node_ids) must be 2 * len(types)")

	ErrUnknownSampler = errors.New("unknown sampler_id")
	ErrUnknownCategory = errors.New("unknown sampler category")
)
