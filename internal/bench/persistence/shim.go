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

package persistence

import (
	"context"
	"fmt"
	"io"
	"time"

	"histo/internal/bench/core"
)

// RecorderSink adapts an IdempotentRecorder to core.ResultSink.
//
// ResultIDs are derived from the run id and trial number, so re-sending a
// batch after a failure does not double count in the store.
type RecorderSink struct {
	impl    IdempotentRecorder
	timeout time.Duration
}

// NewRecorderSink wraps impl. Each batch gets a 10s deadline.
func NewRecorderSink(impl IdempotentRecorder) *RecorderSink {
	return &RecorderSink{impl: impl, timeout: 10 * time.Second}
}

// RecordBatch maps core.TrialResult -> ResultEntry and forwards.
func (s *RecorderSink) RecordBatch(results []core.TrialResult) error {
	if len(results) == 0 {
		return nil
	}
	entries := make([]ResultEntry, len(results))
	for i, r := range results {
		entries[i] = ResultEntry{
			Case:          r.Case,
			ResultID:      fmt.Sprintf("%s-%d", r.RunID, r.Trial),
			Trial:         r.Trial,
			Strategy:      r.Strategy,
			ElapsedMicros: r.Elapsed.Microseconds(),
			Mismatches:    r.Mismatches,
			Verified:      r.Verified,
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.impl.RecordBatch(ctx, entries)
}

// Close releases the underlying client when it holds one.
func (s *RecorderSink) Close() error {
	if c, ok := s.impl.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
