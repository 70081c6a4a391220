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
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"histo/internal/bench/core"
)

// FileSink appends trial results to a file as JSON lines. It is safe for
// concurrent use.
type FileSink struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	path string
}

// NewFileSink opens (or creates) path in append mode.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	return &FileSink{f: f, w: bufio.NewWriterSize(f, 64<<10), path: path}, nil
}

// RecordBatch writes one line per result and flushes, so a crash loses at
// most the batch in flight.
func (s *FileSink) RecordBatch(results []core.TrialResult) error {
	if len(results) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := json.NewEncoder(s.w)
	for i := range results {
		if err := enc.Encode(&results[i]); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	return s.w.Flush()
}

// Close flushes and closes the file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}

// ReadResults loads every result line from a results file. Malformed lines
// are skipped.
func ReadResults(path string) ([]core.TrialResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []core.TrialResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		var r core.TrialResult
		if err := json.Unmarshal(scanner.Bytes(), &r); err == nil {
			out = append(out, r)
		}
	}
	return out, scanner.Err()
}
