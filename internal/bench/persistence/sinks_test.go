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
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"histo/internal/bench/core"
)

type captureRecorder struct {
	entries []ResultEntry
	closed  bool
	err     error
}

func (c *captureRecorder) RecordBatch(ctx context.Context, entries []ResultEntry) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a deadline")
	}
	c.entries = append(c.entries, entries...)
	return c.err
}

func (c *captureRecorder) Close() error {
	c.closed = true
	return nil
}

func sampleResults() []core.TrialResult {
	return []core.TrialResult{
		{RunID: "abc", Trial: 2, Case: "histogram-1", Strategy: "locked", Elapsed: 1500 * time.Microsecond, Verified: true},
		{RunID: "abc", Trial: 2, Case: "histogram-2", Strategy: "atomic", Elapsed: 3 * time.Millisecond, Verified: true, Mismatches: 4},
	}
}

func TestRecorderSink_MapsResults(t *testing.T) {
	rec := &captureRecorder{}
	sink := NewRecorderSink(rec)
	require.NoError(t, sink.RecordBatch(nil))
	require.Empty(t, rec.entries)

	require.NoError(t, sink.RecordBatch(sampleResults()))
	require.Equal(t, []ResultEntry{
		{Case: "histogram-1", ResultID: "abc-2", Trial: 2, Strategy: "locked", ElapsedMicros: 1500, Verified: true},
		{Case: "histogram-2", ResultID: "abc-2", Trial: 2, Strategy: "atomic", ElapsedMicros: 3000, Mismatches: 4, Verified: true},
	}, rec.entries)

	require.NoError(t, sink.Close())
	require.True(t, rec.closed)
}

func TestRecorderSink_PropagatesError(t *testing.T) {
	sink := NewRecorderSink(&captureRecorder{err: errors.New("nope")})
	require.EqualError(t, sink.RecordBatch(sampleResults()), "nope")
}

func TestFileSink_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	sink, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.RecordBatch(sampleResults()))
	require.NoError(t, sink.RecordBatch(nil))
	require.NoError(t, sink.Close())

	got, err := ReadResults(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "histogram-2", got[1].Case)
	require.Equal(t, 3*time.Millisecond, got[1].Elapsed)
	require.Equal(t, 4, got[1].Mismatches)
}

func TestBuildSink(t *testing.T) {
	log := zap.NewNop()

	s, err := BuildSink("", Options{}, log)
	require.NoError(t, err)
	require.IsType(t, &core.LogSink{}, s)

	s, err = BuildSink("redis", Options{}, log)
	require.NoError(t, err)
	require.IsType(t, &RecorderSink{}, s)
	require.NoError(t, s.RecordBatch(sampleResults())) // logging evaler, no server
	require.NoError(t, s.Close())

	_, err = BuildSink("file", Options{}, log)
	require.Error(t, err)

	s, err = BuildSink("file", Options{FilePath: filepath.Join(t.TempDir(), "r.jsonl")}, log)
	require.NoError(t, err)
	require.IsType(t, &FileSink{}, s)
	require.NoError(t, s.Close())

	_, err = BuildSink("kafka", Options{}, log)
	require.ErrorIs(t, err, ErrUnknownAdapter)
}

func TestBuildSink_RedisMarkerTTL(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	s, err := BuildSink("redis", Options{RedisMarkerTTL: 90 * time.Second}, zap.New(obs))
	require.NoError(t, err)
	require.NoError(t, s.RecordBatch(sampleResults()[:1]))

	evals := logs.FilterMessage("redis eval (dry run)").All()
	require.Len(t, evals, 1)
	args, ok := evals[0].ContextMap()["args"].([]interface{})
	require.True(t, ok)
	require.Equal(t, 90, args[2])
}

func TestBuildSink_RedisUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = BuildSink("redis", Options{RedisAddr: addr}, zap.NewNop())
	require.ErrorContains(t, err, "redis ping")
}
