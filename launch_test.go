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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLaunch_EveryIdentityOnce(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]int{}
	Launch(8, func(id int) {
		mu.Lock()
		seen[id]++
		mu.Unlock()
	})
	require.Len(t, seen, 8)
	for id := range 8 {
		require.Equal(t, 1, seen[id], "id %d", id)
	}
}

// TestLaunch_JoinPublishesWrites relies only on Launch's join for
// visibility of plain writes made by workers.
func TestLaunch_JoinPublishesWrites(t *testing.T) {
	out := make([]int, 8)
	elapsed := Launch(8, func(id int) {
		time.Sleep(time.Millisecond)
		out[id] = id + 1
	})
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, out)
	require.True(t, elapsed >= time.Millisecond, "elapsed %v", elapsed)
}
