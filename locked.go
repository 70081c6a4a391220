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
	"sync"

	"golang.org/x/sys/cpu"
)

// paddedMutex keeps neighbouring bucket locks on separate cache lines.
type paddedMutex struct {
	sync.Mutex
	_ cpu.CacheLinePad
}

// LockedMerge is the low-cardinality strategy. Each worker counts into a
// private B-sized array and then folds it into the shared histogram under a
// lock. With few buckets the fold is O(B) per worker, so the lock is
// negligible next to the O(N/T) scan.
type LockedMerge struct {
	perBucket bool

	buckets int
	mu      sync.Mutex
	locks   []paddedMutex
}

// NewLockedMerge returns the locked strategy. perBucket switches from one
// engine-wide mutex to one mutex per bucket.
func NewLockedMerge(perBucket bool) *LockedMerge {
	return &LockedMerge{perBucket: perBucket}
}

func (m *LockedMerge) Name() string {
	if m.perBucket {
		return "locked-per-bucket"
	}
	return "locked"
}

// Setup re-creates the merge locks for a new trial.
func (m *LockedMerge) Setup(threads, buckets int) {
	m.buckets = buckets
	m.mu = sync.Mutex{}
	if m.perBucket {
		m.locks = make([]paddedMutex, buckets)
	} else {
		m.locks = nil
	}
}

// Work scans item's range into a local array, then folds it.
func (m *LockedMerge) Work(item WorkItem) {
	b := item.Hist.Len()
	local := make([]int64, b)
	r := item.Range()
	for _, s := range item.Data[r.Start:r.End] {
		local[BucketOf(s, b)]++
	}
	m.fold(local, item.Hist)
}

func (m *LockedMerge) fold(local []int64, hist *Histogram) {
	for i, c := range local {
		if c == 0 {
			continue
		}
		mu := &m.mu
		if m.locks != nil {
			mu = &m.locks[i].Mutex
		}
		mu.Lock()
		hist.addLocked(i, c)
		mu.Unlock()
	}
}
