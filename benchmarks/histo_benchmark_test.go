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

package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"histo"
	"histo/internal/bench/core"
)

// Shapes keep the configured few/many bucket contrast at a size that fits a
// benchmark run.
var shapes = []core.Case{
	{Name: "few", N: 8_000_000, B: 8},
	{Name: "many", N: 2_000_000, B: 1_280_000},
}

func samples(b *testing.B, n int) []int32 {
	b.Helper()
	data, err := core.GenerateSamples(context.Background(), n, 1, 8)
	if err != nil {
		b.Fatalf("generate: %v", err)
	}
	return data
}

// BenchmarkReference is the sequential baseline.
func BenchmarkReference(b *testing.B) {
	for _, sh := range shapes {
		data := samples(b, sh.N)
		b.Run(sh.Name, func(b *testing.B) {
			b.SetBytes(int64(sh.N) * 4)
			for i := 0; i < b.N; i++ {
				_ = histo.Reference(data, sh.B)
			}
		})
	}
}

// BenchmarkEngine runs every strategy on every shape, setup included, the
// way one trial does.
func BenchmarkEngine(b *testing.B) {
	for _, sh := range shapes {
		data := samples(b, sh.N)
		for _, strategy := range []string{histo.StrategyLocked, histo.StrategyAtomic} {
			e, err := histo.New(sh.B, histo.Options{Strategy: strategy})
			if err != nil {
				b.Fatal(err)
			}
			b.Run(fmt.Sprintf("%s/%s", sh.Name, strategy), func(b *testing.B) {
				b.SetBytes(int64(sh.N) * 4)
				for i := 0; i < b.N; i++ {
					e.Setup()
					e.Run(data, histo.NewHistogram(sh.B))
				}
			})
		}
	}
}

// BenchmarkInlineAtomic measures the contended per-sample atomic baseline.
func BenchmarkInlineAtomic(b *testing.B) {
	for _, sh := range shapes {
		data := samples(b, sh.N)
		e, err := NewInlineEngine(sh.B)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(sh.Name, func(b *testing.B) {
			b.SetBytes(int64(sh.N) * 4)
			for i := 0; i < b.N; i++ {
				e.Setup()
				e.Run(data, histo.NewHistogram(sh.B))
			}
		})
	}
}
