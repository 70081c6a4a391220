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
	"time"
)

// Launch runs fn once per identity 0..threads-1, each on its own goroutine,
// and blocks until all of them have returned. The wait is the only
// happens-before edge the merge strategies rely on: every write made by a
// worker is visible to the caller once Launch returns.
//
// The returned duration covers spawn through join.
func Launch(threads int, fn func(id int)) time.Duration {
	var wg sync.WaitGroup
	start := time.Now()
	wg.Add(threads)
	for id := range threads {
		go func(id int) {
			defer wg.Done()
			fn(id)
		}(id)
	}
	wg.Wait()
	return time.Since(start)
}
