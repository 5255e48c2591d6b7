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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverSuffixes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"neighbors_001.records",
		"neighbors_000.records",
		"node_map_000.records",
		"neighbors_002.records.tmp",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	suffixes, err := discoverSuffixes(dir, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"000", "001"}, suffixes)
}

func TestDiscoverSuffixesEmptyDir(t *testing.T) {
	suffixes, err := discoverSuffixes(t.TempDir(), nil)
	require.NoError(t, err)
	require.Empty(t, suffixes)
}

func TestDiscoverSuffixesFilteredByPartitionSet(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"neighbors_000.records",
		"neighbors_001.records",
		"neighbors_002.records",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	suffixes, err := discoverSuffixes(dir, []int{0, 2})
	require.NoError(t, err)
	require.Equal(t, []string{"000", "002"}, suffixes)
}
