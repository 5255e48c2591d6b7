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
	"bufio"
	"io"
	"os"

	"github.com/cubefs/cubefs/blobstore/util/log"

	"github.com/cubefs/graphserving/engine/mmap"
	"github.com/cubefs/graphserving/proto"
	"github.com/cubefs/graphserving/util"
)

// byteSource is the common contract between a memory-mapped partition file
// and a streamed one: a flat, read-only byte slice held in memory for the
// partition's lifetime. The distinction is only in how the bytes got there.
type byteSource interface {
	bytes() []byte
	close() error
}

type mmapSource struct{ f *mmap.File }

func (s *mmapSource) bytes() []byte { return s.f.Bytes() }
func (s *mmapSource) close() error  { return s.f.Close() }

// streamSource reads the whole file up front through a buffered reader. It
// stands in for the HDFS streaming client the specification calls out: what
// matters to the rest of the package is that both modes yield a []byte, not
// how the bytes were fetched.
type streamSource struct{ data []byte }

func (s *streamSource) bytes() []byte { return s.data }
func (s *streamSource) close() error  { return nil }

func openSource(path string, mode proto.PartitionStorageMode) (byteSource, error) {
	switch mode {
	case proto.MemoryMapped:
		f, err := mmap.Open(path)
		if err != nil {
			return nil, err
		}
		return &mmapSource{f: f}, nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		tr := &util.TimeReader{R: bufio.NewReaderSize(f, 1<<20)}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		log.Debugf("partition: streamed %s (%d bytes) in %s", path, len(data), tr.GetCost())
		return &streamSource{data: data}, nil
	}
}

// emptySource models a companion file that is legitimately absent (e.g. a
// partition with no sparse features at all): every lookup against it finds
// nothing, never errors.
type emptySource struct{}

func (emptySource) bytes() []byte { return nil }
func (emptySource) close() error  { return nil }
