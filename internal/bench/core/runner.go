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
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"histo"
	"histo/internal/bench/telemetry"
)

// Config describes a benchmark run.
type Config struct {
	Cases  []Case
	Engine histo.Options
	// Verify computes the sequential reference for each trial and compares
	// the parallel result against it. The reference time is the speedup
	// baseline.
	Verify bool
	// Seed makes generated samples reproducible.
	Seed uint64
	// MaxReport caps listed mismatches per case. 0 uses DefaultMaxReport.
	MaxReport int
	// NewEngine builds the engine for each case. nil uses
	// DefaultEngineFactory.
	NewEngine EngineFactory
}

// Runner executes trials over the configured cases. Engines persist across
// trials; the per-trial setup hook runs on all of them before each trial.
type Runner struct {
	cfg     Config
	engines *Engines
	sink    ResultSink
	log     *zap.Logger
	out     io.Writer
	runID   string

	summaries map[Case]*CaseSummary
}

// NewRunner builds a runner. sink and log may be nil; out receives the
// human-readable per-trial lines and may be io.Discard.
func NewRunner(cfg Config, sink ResultSink, log *zap.Logger, out io.Writer) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if sink == nil {
		sink = NewLogSink(log)
	}
	if out == nil {
		out = io.Discard
	}
	// A case listed twice would share one engine within a trial.
	cfg.Cases = lo.Uniq(cfg.Cases)
	return &Runner{
		cfg:       cfg,
		engines:   NewEnginesWith(cfg.Engine, cfg.NewEngine),
		sink:      sink,
		log:       log,
		out:       out,
		runID:     NewRunID(),
		summaries: make(map[Case]*CaseSummary),
	}
}

// RunID identifies this runner's results in the sink.
func (r *Runner) RunID() string { return r.runID }

// Run executes trials and returns one summary per case, in case order.
// Verification mismatches are recorded, not returned; the error is non-nil
// only when ctx is cancelled or samples cannot be generated.
func (r *Runner) Run(ctx context.Context, trials int) ([]CaseSummary, error) {
	for trial := range trials {
		if err := ctx.Err(); err != nil {
			return r.Summaries(), err
		}
		r.engines.SetupAll()

		batch := make([]TrialResult, 0, len(r.cfg.Cases))
		for i, c := range r.cfg.Cases {
			res, err := r.runCase(ctx, trial, i, c)
			if err != nil {
				return r.Summaries(), fmt.Errorf("trial %d case %s: %w", trial, c.Name, err)
			}
			batch = append(batch, res)
		}
		if err := r.sink.RecordBatch(batch); err != nil {
			r.log.Error("failed to record trial results", zap.Int("trial", trial), zap.Error(err))
		}
	}
	return r.Summaries(), nil
}

func (r *Runner) runCase(ctx context.Context, trial, idx int, c Case) (TrialResult, error) {
	eng, err := r.engines.GetOrCreate(c)
	if err != nil {
		return TrialResult{}, err
	}
	fmt.Fprintf(r.out, "Histogram test with N=%d, S=%d -- ", c.N, c.B)

	data, err := GenerateSamples(ctx, c.N, r.seedFor(trial, idx), eng.Threads())
	if err != nil {
		fmt.Fprintln(r.out)
		return TrialResult{}, fmt.Errorf("generate samples: %w", err)
	}

	var want []int64
	var baseline time.Duration
	if r.cfg.Verify {
		start := time.Now()
		want = histo.Reference(data, c.B)
		baseline = time.Since(start)
	}

	hist := histo.NewHistogram(c.B)
	elapsed := eng.Run(data, hist)

	res := TrialResult{
		RunID:    r.runID,
		Trial:    trial,
		Case:     c.Name,
		N:        c.N,
		B:        c.B,
		Threads:  eng.Threads(),
		Strategy: eng.Strategy(),
		Elapsed:  elapsed,
		Baseline: baseline,
		Verified: r.cfg.Verify,
		At:       time.Now(),
	}

	status := telemetry.StatusUnverified
	if r.cfg.Verify {
		v := Verify(hist.Counts(), want, r.cfg.MaxReport)
		if v.OK() {
			status = telemetry.StatusOK
			fmt.Fprintln(r.out, "no problems detected")
		} else {
			status = telemetry.StatusBroken
			res.Mismatches = max(v.Total, 1)
			fmt.Fprintln(r.out)
			WriteMismatches(r.out, v)
			r.log.Warn("verification failed",
				zap.String("case", c.Name),
				zap.Int("trial", trial),
				zap.String("strategy", res.Strategy),
				zap.Error(v.Err()))
		}
	} else {
		fmt.Fprintln(r.out)
	}

	s := r.summaryFor(c, eng)
	s.observe(res)
	RecordTrial(res.Broken())

	telemetry.ObserveTrial(c.Name, res.Strategy, elapsed, c.N, status)
	telemetry.ObserveMismatches(c.Name, res.Mismatches)
	telemetry.ObservePerformance(c.Name, s.Best, s.Speedup())

	var runSpeedup float64
	if s.Baseline > 0 && elapsed > 0 {
		runSpeedup = float64(s.Baseline) / float64(elapsed)
	}
	fmt.Fprintf(r.out, "  Runtime (msec): %0.1f, CPE: %0.3f, Speedup: %0.3f\n",
		msec(elapsed), cpe(elapsed, c.N), runSpeedup)

	r.log.Debug("case finished",
		zap.String("case", c.Name),
		zap.Int("trial", trial),
		zap.String("strategy", res.Strategy),
		zap.Duration("elapsed", elapsed),
		zap.Duration("baseline", baseline))
	return res, nil
}

// seedFor derives a distinct, reproducible seed per (trial, case).
func (r *Runner) seedFor(trial, idx int) uint64 {
	return r.cfg.Seed + uint64(trial)*1_000_003 + uint64(idx)
}

func (r *Runner) summaryFor(c Case, eng *histo.Engine) *CaseSummary {
	s, ok := r.summaries[c]
	if !ok {
		s = &CaseSummary{Case: c, Strategy: eng.Strategy(), Threads: eng.Threads()}
		r.summaries[c] = s
	}
	return s
}

// Summaries returns a snapshot of per-case summaries in configured order.
// Cases that have not run yet are omitted.
func (r *Runner) Summaries() []CaseSummary {
	out := make([]CaseSummary, 0, len(r.summaries))
	for _, c := range r.cfg.Cases {
		if s, ok := r.summaries[c]; ok {
			out = append(out, *s)
		}
	}
	return out
}
