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

// Package histo computes frequency histograms over large flat arrays of
// integer samples with a fixed pool of workers. Work is split into disjoint
// contiguous ranges; each worker counts privately and then folds its partial
// counts into one shared Histogram using a merge strategy picked by bucket
// count: a locked fold for few buckets, an atomic fold for many.
package histo

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultThreads is the worker pool size used by every configured workload.
	DefaultThreads = 8
	// DefaultLowCardinalityMax is the largest bucket count for which "auto"
	// picks the locked strategy.
	DefaultLowCardinalityMax = 1 << 16
)

// Strategy names accepted by Options.Strategy.
const (
	StrategyAuto   = "auto"
	StrategyLocked = "locked"
	StrategyAtomic = "atomic"
)

// WorkItem is what one worker receives: the shared input and output plus its
// identity, which fixes the range it owns.
type WorkItem struct {
	Data    []int32
	Hist    *Histogram
	ID      int
	Threads int
}

// Range returns the sample range owned by this item.
func (w WorkItem) Range() Range { return Partition(len(w.Data), w.Threads, w.ID) }

// Strategy is an accumulate-and-merge discipline. Implementations must leave
// the shared histogram equal to Reference once all workers are joined.
type Strategy interface {
	Name() string
	// Setup is the per-trial hook: it re-initializes locks and any private
	// accumulator state.
	Setup(threads, buckets int)
	// Work is the worker routine, called once per identity.
	Work(item WorkItem)
}

// Options configures an Engine.
type Options struct {
	// Threads is the worker count. 0 uses DefaultThreads.
	Threads int
	// Strategy is one of StrategyAuto, StrategyLocked or StrategyAtomic.
	// Empty means auto.
	Strategy string
	// LowCardinalityMax bounds the bucket count for which auto picks the
	// locked strategy. 0 uses DefaultLowCardinalityMax.
	LowCardinalityMax int
	// PerBucketLocks gives the locked strategy one mutex per bucket instead of
	// a single engine-wide mutex.
	PerBucketLocks bool
}

// Engine owns a strategy and its state for one workload shape. The same
// engine is reused across trials; call Setup before every trial.
type Engine struct {
	threads  int
	buckets  int
	strategy Strategy
	// dirty is set by Run and cleared by Setup.
	dirty bool
}

// New builds an engine for histograms with the given bucket count.
func New(buckets int, opts Options) (*Engine, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("histo: bucket count must be positive, got %d", buckets)
	}
	lowMax := opts.LowCardinalityMax
	if lowMax <= 0 {
		lowMax = DefaultLowCardinalityMax
	}

	var s Strategy
	switch opts.Strategy {
	case "", StrategyAuto:
		if buckets <= lowMax {
			s = NewLockedMerge(opts.PerBucketLocks)
		} else {
			s = NewAtomicMerge()
		}
	case StrategyLocked:
		s = NewLockedMerge(opts.PerBucketLocks)
	case StrategyAtomic:
		s = NewAtomicMerge()
	default:
		return nil, fmt.Errorf("histo: unknown strategy %q", opts.Strategy)
	}
	return NewWithStrategy(buckets, opts.Threads, s)
}

// NewWithStrategy builds an engine around a caller-supplied strategy.
// threads <= 0 uses DefaultThreads.
func NewWithStrategy(buckets, threads int, s Strategy) (*Engine, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("histo: bucket count must be positive, got %d", buckets)
	}
	if s == nil {
		return nil, errors.New("histo: nil strategy")
	}
	if threads <= 0 {
		threads = DefaultThreads
	}
	e := &Engine{threads: threads, buckets: buckets, strategy: s}
	e.Setup()
	return e, nil
}

// Setup prepares the engine for a new trial.
func (e *Engine) Setup() {
	e.strategy.Setup(e.threads, e.buckets)
	e.dirty = false
}

// Run computes the histogram of data into hist, which must be zeroed and
// sized for the engine. It returns the duration of the parallel phase.
// Every Run must be preceded by Setup; a second Run without one panics.
func (e *Engine) Run(data []int32, hist *Histogram) time.Duration {
	if hist.Len() != e.buckets {
		panic(fmt.Sprintf("histo: histogram has %d buckets, engine expects %d", hist.Len(), e.buckets))
	}
	if e.dirty {
		panic("histo: Run called again without Setup")
	}
	e.dirty = true
	return Launch(e.threads, func(id int) {
		e.strategy.Work(WorkItem{Data: data, Hist: hist, ID: id, Threads: e.threads})
	})
}

func (e *Engine) Strategy() string { return e.strategy.Name() }
func (e *Engine) Threads() int     { return e.threads }
func (e *Engine) Buckets() int     { return e.buckets }

// Reference computes the histogram sequentially. It is the oracle parallel
// runs are verified against.
func Reference(data []int32, buckets int) []int64 {
	out := make([]int64, buckets)
	for _, s := range data {
		out[BucketOf(s, buckets)]++
	}
	return out
}
