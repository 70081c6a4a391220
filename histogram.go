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

	"github.com/samber/lo"
)

// Histogram is the shared output of a run: B signed counters indexed by
// bucket. During the parallel phase it is written only through a strategy's
// fold step; it is read after the join barrier.
type Histogram struct {
	counts []int64
}

// NewHistogram returns a zeroed histogram with the given number of buckets.
func NewHistogram(buckets int) *Histogram {
	if buckets <= 0 {
		panic("histo: bucket count must be positive")
	}
	return &Histogram{counts: make([]int64, buckets)}
}

// Len returns the number of buckets.
func (h *Histogram) Len() int { return len(h.counts) }

// Counts exposes the counters. Only valid once every worker has been joined.
func (h *Histogram) Counts() []int64 { return h.counts }

// Total returns the sum of all buckets.
func (h *Histogram) Total() int64 { return lo.Sum(h.counts) }

// Reset zeroes every counter.
func (h *Histogram) Reset() { clear(h.counts) }

// AddAtomic folds v into bucket b with a lock-free fetch-and-add.
func (h *Histogram) AddAtomic(b int, v int64) {
	atomic.AddInt64(&h.counts[b], v)
}

// addLocked is a plain add; the caller must hold the merge lock for b.
func (h *Histogram) addLocked(b int, v int64) {
	h.counts[b] += v
}

// BucketOf maps a sample to its bucket: sample mod buckets, always in
// [0, buckets) even for negative samples.
func BucketOf(sample int32, buckets int) int {
	b := int(sample) % buckets
	if b < 0 {
		b += buckets
	}
	return b
}
