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
	"bytes"
	"encoding/gob"
	"fmt"

	"google.golang.org/grpc/encoding"

	"github.com/cubefs/graphserving/util"
)

// codecName is negotiated over the wire via the grpc "content-subtype"; it
// has nothing to do with protobuf even though it rides the same transport.
const codecName = "gob"

// gobCodec lets the request/reply structs in this package travel over a
// standard grpc.Server/grpc.ClientConn without protoc-generated marshalers.
// It is registered globally via init() and selected per-call with
// grpc.CallContentSubtype(codecName) on the client and
// grpc.ForceServerCodec on the server.
type gobCodec struct{}

func (gobCodec) Marshal(v interface{}) ([]byte, error) {
	buf := util.GetBufferWriter(4096)
	defer util.PutBufferWriter(buf)

	if err := gob.NewEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("gob marshal: %w", err)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func (gobCodec) Unmarshal(data []byte, v interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("gob unmarshal: %w", err)
	}
	return nil
}

func (gobCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(gobCodec{})
}
