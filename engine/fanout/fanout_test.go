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

package fanout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunSequential(t *testing.T) {
	p := NewPool(1)
	out := make([]int, 10)
	p.Run(10, func(i int) { out[i] = i * i })
	for i, v := range out {
		require.Equal(t, i*i, v)
	}
}

func TestRunConcurrentDeterministicJoin(t *testing.T) {
	p := NewPool(4)
	out := make([]int, 100)
	p.Run(100, func(i int) { out[i] = i * 2 })
	for i, v := range out {
		require.Equal(t, i*2, v)
	}
}

func TestRunRespectsPoolSize(t *testing.T) {
	p := NewPool(3)
	var current, max int32
	p.Run(50, func(i int) {
		n := atomic.AddInt32(&current, 1)
		for {
			m := atomic.LoadInt32(&max)
			if n <= m || atomic.CompareAndSwapInt32(&max, m, n) {
				break
			}
		}
		atomic.AddInt32(&current, -1)
	})
	require.LessOrEqual(t, int(max), 3)
}

func TestRunErrStopsOnFirstError(t *testing.T) {
	sentinel := errors.New("boom")
	var calls int32
	err := RunErr(context.Background(), 2, 20, func(_ context.Context, i int) error {
		atomic.AddInt32(&calls, 1)
		if i == 5 {
			return sentinel
		}
		return nil
	})
	require.ErrorIs(t, err, sentinel)
}
