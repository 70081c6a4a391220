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

package core

import (
	"sync"

	"histo"
)

// Engines keeps one histogram engine per workload so engine state, such as
// the atomic strategy's private table, is reused across trials instead of
// reallocated. It is safe for concurrent use.
type Engines struct {
	engines sync.Map // Case -> *histo.Engine
	opts    histo.Options
	build   EngineFactory
}

// EngineFactory builds the engine for one case.
type EngineFactory func(c Case, opts histo.Options) (*histo.Engine, error)

// DefaultEngineFactory builds engines with histo.New.
func DefaultEngineFactory(c Case, opts histo.Options) (*histo.Engine, error) {
	return histo.New(c.B, opts)
}

// NewEngines returns an empty registry that builds engines with opts.
func NewEngines(opts histo.Options) *Engines {
	return NewEnginesWith(opts, DefaultEngineFactory)
}

// NewEnginesWith is NewEngines with a custom factory; nil uses
// DefaultEngineFactory.
func NewEnginesWith(opts histo.Options, build EngineFactory) *Engines {
	if build == nil {
		build = DefaultEngineFactory
	}
	return &Engines{opts: opts, build: build}
}

// GetOrCreate returns the engine for c, building it on first use.
//
// A plain Load serves the common case. On a miss the engine is built and
// published with LoadOrStore; if another goroutine won the race its engine
// is reused and ours is dropped.
func (e *Engines) GetOrCreate(c Case) (*histo.Engine, error) {
	if actual, ok := e.engines.Load(c); ok {
		return actual.(*histo.Engine), nil
	}
	eng, err := e.build(c, e.opts)
	if err != nil {
		return nil, err
	}
	actual, _ := e.engines.LoadOrStore(c, eng)
	return actual.(*histo.Engine), nil
}

// SetupAll runs the per-trial setup hook on every engine.
func (e *Engines) SetupAll() {
	e.ForEach(func(_ Case, eng *histo.Engine) { eng.Setup() })
}

// ForEach visits every engine.
func (e *Engines) ForEach(f func(c Case, eng *histo.Engine)) {
	e.engines.Range(func(key, value any) bool {
		f(key.(Case), value.(*histo.Engine))
		return true
	})
}

// Delete drops the engine for c, releasing its private state.
func (e *Engines) Delete(c Case) {
	e.engines.Delete(c)
}

// Len returns the number of engines held.
func (e *Engines) Len() int {
	n := 0
	e.engines.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
