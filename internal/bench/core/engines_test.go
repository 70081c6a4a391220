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
	"testing"

	"histo"
)

// TestEngines_ConcurrentGetOrCreate_SingleInstance ensures racing callers for
// the same case converge on one engine.
func TestEngines_ConcurrentGetOrCreate_SingleInstance(t *testing.T) {
	engines := NewEngines(histo.Options{Threads: 2})
	c := Case{Name: "small", N: 16, B: 4}

	const goroutines = 32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	ptrs := make([]*histo.Engine, goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			e, err := engines.GetOrCreate(c)
			if err != nil {
				t.Errorf("GetOrCreate: %v", err)
				return
			}
			ptrs[i] = e
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if ptrs[i] != ptrs[0] {
			t.Fatalf("expected a single engine, mismatch at %d", i)
		}
	}
	if n := engines.Len(); n != 1 {
		t.Fatalf("expected 1 engine, got %d", n)
	}
}

func TestEngines_ForEachSetupAllAndDelete(t *testing.T) {
	engines := NewEngines(histo.Options{Threads: 2})
	a := Case{Name: "a", N: 8, B: 2}
	b := Case{Name: "b", N: 8, B: 100_000}
	for _, c := range []Case{a, b} {
		if _, err := engines.GetOrCreate(c); err != nil {
			t.Fatalf("GetOrCreate(%s): %v", c.Name, err)
		}
	}

	strategies := map[string]string{}
	engines.ForEach(func(c Case, e *histo.Engine) { strategies[c.Name] = e.Strategy() })
	if strategies["a"] != "locked" || strategies["b"] != "atomic" {
		t.Fatalf("unexpected strategies: %v", strategies)
	}

	engines.SetupAll() // must not panic on either strategy

	engines.Delete(a)
	if n := engines.Len(); n != 1 {
		t.Fatalf("expected 1 engine after delete, got %d", n)
	}
}

func TestEngines_InvalidOptions(t *testing.T) {
	engines := NewEngines(histo.Options{Strategy: "bogus"})
	if _, err := engines.GetOrCreate(Case{Name: "x", N: 8, B: 8}); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestEngines_CustomFactory(t *testing.T) {
	var calls int
	engines := NewEnginesWith(histo.Options{Threads: 2}, func(c Case, opts histo.Options) (*histo.Engine, error) {
		calls++
		return histo.New(c.B, histo.Options{Threads: opts.Threads, Strategy: histo.StrategyAtomic})
	})
	c := Case{Name: "small", N: 16, B: 4}
	for i := 0; i < 3; i++ {
		e, err := engines.GetOrCreate(c)
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		if e.Strategy() != "atomic" || e.Threads() != 2 {
			t.Fatalf("factory not used: strategy=%s threads=%d", e.Strategy(), e.Threads())
		}
	}
	if calls != 1 {
		t.Fatalf("expected the factory to run once, ran %d times", calls)
	}

	if e, err := NewEnginesWith(histo.Options{}, nil).GetOrCreate(c); err != nil || e.Strategy() != "locked" {
		t.Fatalf("nil factory should fall back to histo.New: %v", err)
	}
}
