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

// Package persistence stores trial results outside the process. Adapters
// accept an idempotency key per result so a retried write is a no-op.
package persistence

import "context"

// ResultEntry is the adapter-facing shape of one trial result.
//
// Fields:
//   - Case: workload name; results for the same case aggregate together
//   - ResultID: idempotency key. Re-sending the same id must not double count.
//   - ElapsedMicros: parallel runtime of this trial
//   - Mismatches: mismatching buckets, 0 when the histogram verified clean
//   - Verified: whether the trial was checked against the reference at all
type ResultEntry struct {
	Case          string
	ResultID      string
	Trial         int
	Strategy      string
	ElapsedMicros int64
	Mismatches    int
	Verified      bool
}

// IdempotentRecorder is implemented by every storage adapter. Applying an
// entry twice with the same ResultID must leave the store unchanged.
type IdempotentRecorder interface {
	RecordBatch(ctx context.Context, entries []ResultEntry) error
}
