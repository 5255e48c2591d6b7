// Copyright 2023 The Cuber Authors.
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

package util

import (
	"bytes"
	"errors"
	"net"

	"github.com/cubefs/cubefs/blobstore/util/bytespool"
)

// GetLocalIp reports the first non-loopback IPv4 address, used by cmd to
// fill in the node's bind address when none is configured.
func GetLocalIp() (string, error) {
	addresses, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addresses {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	return "", errors.New("can not find the local ip address")
}

func GetBufferWriter(size int) *bytes.Buffer {
	return bytes.NewBuffer(bytespool.Alloc(size)[:0])
}

func PutBufferWriter(br *bytes.Buffer) {
	bytespool.Free(br.Bytes())
}
