// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package histo

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPartition_Completeness gives every index a sentinel owner during a dry
// run and checks each index ends up with exactly one owner.
func TestPartition_Completeness(t *testing.T) {
	shapes := []struct{ n, threads int }{
		{16, 2}, {8, 8}, {1000, 8}, {100_000, 8},
		{1003, 8}, {7, 8}, {0, 4}, {1, 1},
	}
	for _, sh := range shapes {
		owners := make([]int32, sh.n)
		for i := range owners {
			owners[i] = -1
		}
		var dupes atomic.Int64
		Launch(sh.threads, func(id int) {
			r := Partition(sh.n, sh.threads, id)
			for i := r.Start; i < r.End; i++ {
				if !atomic.CompareAndSwapInt32(&owners[i], -1, int32(id)) {
					dupes.Add(1)
				}
			}
		})
		require.Zero(t, dupes.Load(), "n=%d threads=%d: overlapping ranges", sh.n, sh.threads)
		for i, o := range owners {
			if o < 0 {
				t.Fatalf("n=%d threads=%d: index %d has no owner", sh.n, sh.threads, i)
			}
		}
	}
}

func TestPartition_EvenSplitIsExact(t *testing.T) {
	const n, threads = 100_000_000, 8
	step := n / threads
	for id := range threads {
		require.Equal(t, Range{Start: id * step, End: (id + 1) * step}, Partition(n, threads, id))
	}
}

func TestPartitions_ContiguousAndOrdered(t *testing.T) {
	rs := Partitions(1003, 8)
	require.Len(t, rs, 8)
	require.Equal(t, 0, rs[0].Start)
	require.Equal(t, 1003, rs[7].End)
	total := 0
	for i, r := range rs {
		if i > 0 {
			require.Equal(t, rs[i-1].End, r.Start)
		}
		total += r.Len()
	}
	require.Equal(t, 1003, total)
}
