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

// Accumulator is the T×B table of private partial histograms used by the
// atomic strategy. Row id is written only by worker id. It persists across
// trials and must be reset before each one.
type Accumulator struct {
	threads int
	buckets int
	table   []int32
}

// NewAccumulator allocates a zeroed threads×buckets table.
func NewAccumulator(threads, buckets int) *Accumulator {
	return &Accumulator{
		threads: threads,
		buckets: buckets,
		table:   make([]int32, threads*buckets),
	}
}

// Row returns the private row owned by worker id.
func (a *Accumulator) Row(id int) []int32 {
	return a.table[id*a.buckets : (id+1)*a.buckets]
}

// Reset zeroes every row, one worker per row.
func (a *Accumulator) Reset() {
	Launch(a.threads, func(id int) {
		clear(a.Row(id))
	})
}

// Shape returns the table dimensions.
func (a *Accumulator) Shape() (threads, buckets int) { return a.threads, a.buckets }

// AtomicMerge is the high-cardinality strategy. Workers count into their own
// accumulator row, then fold the whole row into the shared histogram with one
// atomic add per non-empty bucket. Different workers rarely hit the same
// bucket at the same instant, so the fold runs in parallel.
type AtomicMerge struct {
	acc *Accumulator
}

func NewAtomicMerge() *AtomicMerge { return &AtomicMerge{} }

func (m *AtomicMerge) Name() string { return "atomic" }

// Setup allocates the accumulator on first use or on a shape change and
// zeroes it otherwise.
func (m *AtomicMerge) Setup(threads, buckets int) {
	if m.acc != nil {
		if t, b := m.acc.Shape(); t == threads && b == buckets {
			m.acc.Reset()
			return
		}
	}
	m.acc = NewAccumulator(threads, buckets)
}

// Accumulator exposes the private table.
func (m *AtomicMerge) Accumulator() *Accumulator { return m.acc }

// Work scans item's range into row item.ID, then folds that row.
func (m *AtomicMerge) Work(item WorkItem) {
	b := item.Hist.Len()
	row := m.acc.Row(item.ID)
	r := item.Range()
	for _, s := range item.Data[r.Start:r.End] {
		row[BucketOf(s, b)]++
	}
	for i, c := range row {
		if c != 0 {
			item.Hist.AddAtomic(i, int64(c))
		}
	}
}
