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

// Range is a half-open index range [Start, End) of the sample array.
type Range struct {
	Start, End int
}

// Len returns the number of samples in the range.
func (r Range) Len() int { return r.End - r.Start }

// Partition returns the contiguous range owned by worker id out of threads.
// When threads divides n this is exactly [id*(n/threads), (id+1)*(n/threads));
// otherwise the split spreads the remainder so no trailing sample is dropped.
func Partition(n, threads, id int) Range {
	if n%threads == 0 {
		step := n / threads
		return Range{Start: id * step, End: (id + 1) * step}
	}
	return Range{
		Start: int(int64(n) * int64(id) / int64(threads)),
		End:   int(int64(n) * int64(id+1) / int64(threads)),
	}
}

// Partitions returns the ranges for every worker identity in order.
func Partitions(n, threads int) []Range {
	out := make([]Range, threads)
	for id := range threads {
		out[id] = Partition(n, threads, id)
	}
	return out
}
