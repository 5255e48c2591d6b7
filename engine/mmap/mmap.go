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

// Package mmap maps partition files read-only for the lifetime of the
// process. Every partition file is opened once at startup and never
// unmapped until the server shuts down.
package mmap

import (
	"fmt"
	"os"
	"syscall"
)

// File is a read-only memory mapping of a single partition file.
type File struct {
	f    *os.File
	data []byte
}

// Open maps path read-only. An empty file maps to a zero-length File whose
// Bytes() is nil, which every partition primitive treats as "no records".
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := stat.Size()
	if size == 0 {
		return &File{f: f}, nil
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &File{f: f, data: data}, nil
}

// Bytes returns the mapped region. Callers never mutate it.
func (m *File) Bytes() []byte {
	return m.data
}

// Close unmaps the region and closes the underlying file descriptor.
func (m *File) Close() error {
	var err error
	if m.data != nil {
		if unmapErr := syscall.Munmap(m.data); unmapErr != nil {
			err = fmt.Errorf("munmap: %w", unmapErr)
		}
		m.data = nil
	}
	if m.f != nil {
		if closeErr := m.f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close: %w", closeErr)
		}
		m.f = nil
	}
	return err
}
