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
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"histo"
)

// GenerateSamples fills n non-negative 31-bit samples using parts parallel
// generators. Each part draws from its own PCG stream seeded from (seed,
// part), so the output depends only on (n, seed, parts).
func GenerateSamples(ctx context.Context, n int, seed uint64, parts int) ([]int32, error) {
	if parts <= 0 {
		parts = 1
	}
	data := make([]int32, n)
	g, ctx := errgroup.WithContext(ctx)
	for p := range parts {
		r := histo.Partition(n, parts, p)
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(p)+1))
			chunk := data[r.Start:r.End]
			for i := range chunk {
				if i&0xfffff == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				chunk[i] = rng.Int32()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
