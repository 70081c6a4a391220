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
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TrialResult is one case run within one trial.
type TrialResult struct {
	RunID      string        `json:"run_id"`
	Trial      int           `json:"trial"`
	Case       string        `json:"case"`
	N          int           `json:"n"`
	B          int           `json:"b"`
	Threads    int           `json:"threads"`
	Strategy   string        `json:"strategy"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Baseline   time.Duration `json:"baseline_ns,omitempty"`
	Verified   bool          `json:"verified"`
	Mismatches int           `json:"mismatches"`
	At         time.Time     `json:"at"`
}

// Broken reports whether the result failed verification.
func (r TrialResult) Broken() bool { return r.Verified && r.Mismatches > 0 }

// ResultSink stores trial results. The runner hands it one batch per trial.
type ResultSink interface {
	RecordBatch(results []TrialResult) error
	Close() error
}

// NewLogSink returns a sink that only logs results and keeps totals.
func NewLogSink(log *zap.Logger) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSink{log: log}
}

// LogSink is the default, storage-free ResultSink.
type LogSink struct {
	log *zap.Logger

	mu      sync.Mutex
	batches int64
	results int64
}

func (s *LogSink) RecordBatch(results []TrialResult) error {
	if len(results) == 0 {
		return nil
	}
	for _, r := range results {
		s.log.Debug("trial result",
			zap.String("case", r.Case),
			zap.Int("trial", r.Trial),
			zap.Duration("elapsed", r.Elapsed),
			zap.Int("mismatches", r.Mismatches))
	}
	s.mu.Lock()
	s.batches++
	s.results += int64(len(results))
	s.mu.Unlock()
	return nil
}

// Totals returns how many batches and results were recorded.
func (s *LogSink) Totals() (batches, results int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches, s.results
}

func (s *LogSink) Close() error { return nil }

// NewRunID returns a random identifier for one invocation of the runner.
func NewRunID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
