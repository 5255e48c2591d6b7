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

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestGobCodecRoundTrip(t *testing.T) {
	c := encoding.GetCodec(codecName)
	require.NotNil(t, c)

	req := &NodeFeaturesRequest{
		NodeIds:  []NodeId{1, 2, 3},
		Features: []FeatureMeta{{Id: 0, Size: 4}, {Id: 1, Size: 8}},
	}

	data, err := c.Marshal(req)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	var got NodeFeaturesRequest
	require.NoError(t, c.Unmarshal(data, &got))
	require.Equal(t, req.NodeIds, got.NodeIds)
	require.Equal(t, req.Features, got.Features)
}

func TestGobCodecMarshalReturnsIndependentBuffer(t *testing.T) {
	c := encoding.GetCodec(codecName)

	first, err := c.Marshal(&NodeFeaturesRequest{NodeIds: []NodeId{1}})
	require.NoError(t, err)
	firstCopy := append([]byte(nil), first...)

	// Marshaling again recycles the pooled writer; the bytes already
	// returned from the first call must not be clobbered by it.
	_, err = c.Marshal(&NodeFeaturesRequest{NodeIds: []NodeId{1, 2, 3, 4, 5}})
	require.NoError(t, err)

	require.Equal(t, firstCopy, first)
}
