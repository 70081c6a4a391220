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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistogram_Basics(t *testing.T) {
	h := NewHistogram(4)
	require.Equal(t, 4, h.Len())
	require.Equal(t, []int64{0, 0, 0, 0}, h.Counts())

	h.AddAtomic(1, 5)
	h.addLocked(3, 2)
	require.Equal(t, []int64{0, 5, 0, 2}, h.Counts())
	require.Equal(t, int64(7), h.Total())

	h.Reset()
	require.Zero(t, h.Total())
}

func TestHistogram_AddAtomicConcurrent(t *testing.T) {
	h := NewHistogram(1)
	Launch(8, func(int) {
		for range 10_000 {
			h.AddAtomic(0, 1)
		}
	})
	require.Equal(t, int64(80_000), h.Counts()[0])
}

func TestNewHistogram_PanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() { NewHistogram(0) })
}

func TestBucketOf(t *testing.T) {
	cases := []struct {
		sample  int32
		buckets int
		want    int
	}{
		{0, 8, 0},
		{9, 8, 1},
		{-1, 8, 7},
		{-8, 8, 0},
		{2147483647, 16_000_000, 2147483647 % 16_000_000},
		{-2147483648, 3, 1},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, BucketOf(tc.sample, tc.buckets), "BucketOf(%d, %d)", tc.sample, tc.buckets)
	}
}
