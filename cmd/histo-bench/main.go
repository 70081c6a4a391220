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

// Package main is the histogram benchmark driver.
//
// It runs the parallel histogram engine over the configured workloads for a
// number of trials, checks every result against the sequential reference and
// prints the best runtime, speedup and cycles per element for each case:
//
//	histo-bench --input all --trials 3
//	histo-bench -i 2 --strategy atomic --metrics_addr :9090
//
// Results can also be stored in Redis or a JSON lines file so runs on
// different machines can be compared.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"histo"
	"histo/internal/bench/core"
	"histo/internal/bench/persistence"
	"histo/internal/bench/telemetry"
)

type options struct {
	input             string
	trials            int
	threads           int
	strategy          string
	perBucketLocks    bool
	lowCardinalityMax int
	verify            bool
	seed              uint64
	metricsAddr       string
	resultsAdapter    string
	redisAddr         string
	redisMarkerTTL    time.Duration
	resultsFile       string
	logJSON           bool
	noColor           bool
}

// errBroken signals that at least one case failed verification.
var errBroken = errors.New("histogram verification failed")

// Workloads and engine construction; tests swap these for small shapes.
var (
	workloads     = core.DefaultCases
	engineFactory core.EngineFactory
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errBroken) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "histo-bench",
		Short:         "Benchmark and verify the parallel histogram engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}
	bindFlags(cmd.Flags(), opts)
	return cmd
}

func bindFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.input, "input", "i", "all", "Test case to run: 1, 2, a case name, or all")
	fs.IntVarP(&o.trials, "trials", "t", 1, "Number of trials; setup runs before every trial")
	fs.IntVar(&o.threads, "threads", histo.DefaultThreads, "Worker count")
	fs.StringVar(&o.strategy, "strategy", histo.StrategyAuto, "Merge strategy: auto, locked or atomic")
	fs.BoolVar(&o.perBucketLocks, "per_bucket_locks", false, "Locked strategy: one mutex per bucket instead of one per engine")
	fs.IntVar(&o.lowCardinalityMax, "low_cardinality_max", histo.DefaultLowCardinalityMax, "Largest bucket count for which auto picks the locked strategy")
	fs.BoolVar(&o.verify, "verify", true, "Check each result against the sequential reference")
	fs.Uint64Var(&o.seed, "seed", 1, "Sample generator seed")
	fs.StringVar(&o.metricsAddr, "metrics_addr", "", "If non-empty, expose Prometheus /metrics on this address (e.g., :9090)")
	fs.StringVar(&o.resultsAdapter, "results_adapter", "mock", "Where to store trial results: mock, redis or file")
	fs.StringVar(&o.redisAddr, "redis_addr", "", "Redis address for the redis adapter; empty logs commands instead")
	fs.DurationVar(&o.redisMarkerTTL, "redis_marker_ttl", 24*time.Hour, "How long Redis remembers an applied result id")
	fs.StringVar(&o.resultsFile, "results_file", "histo-results.jsonl", "Output path for the file adapter")
	fs.BoolVar(&o.logJSON, "log_json", false, "Emit structured JSON logs")
	fs.BoolVar(&o.noColor, "no_color", os.Getenv("NO_COLOR") != "", "Disable colored summary output")
}

func newLogger(jsonLogs bool) (*zap.Logger, error) {
	if jsonLogs {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}

func run(cmd *cobra.Command, o *options) error {
	if o.trials <= 0 {
		return fmt.Errorf("--trials must be positive, got %d", o.trials)
	}
	if o.threads <= 0 {
		return fmt.Errorf("--threads must be positive, got %d", o.threads)
	}
	if o.lowCardinalityMax <= 0 {
		return fmt.Errorf("--low_cardinality_max must be positive, got %d", o.lowCardinalityMax)
	}
	log, err := newLogger(o.logJSON)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cases, err := core.SelectCases(workloads, o.input)
	if err != nil {
		return err
	}

	core.SetThreshold("input", o.input)
	core.SetThresholdInt64("trials", int64(o.trials))
	core.SetThresholdInt64("threads", int64(o.threads))
	core.SetThreshold("strategy", o.strategy)
	core.SetThresholdBool("per_bucket_locks", o.perBucketLocks)
	core.SetThresholdInt64("low_cardinality_max", int64(o.lowCardinalityMax))
	core.SetThresholdBool("verify", o.verify)
	core.SetThreshold("results_adapter", o.resultsAdapter)
	if o.resultsAdapter == "redis" {
		core.SetThresholdDuration("redis_marker_ttl", o.redisMarkerTTL)
	}
	core.SetThreshold("metrics_addr", o.metricsAddr)

	telemetry.Enable(telemetry.Config{Enabled: o.metricsAddr != "", MetricsAddr: o.metricsAddr})

	sink, err := persistence.BuildSink(o.resultsAdapter, persistence.Options{
		RedisAddr:      o.redisAddr,
		RedisMarkerTTL: o.redisMarkerTTL,
		FilePath:       o.resultsFile,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn("closing results sink", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := core.NewRunner(core.Config{
		Cases: cases,
		Engine: histo.Options{
			Threads:           o.threads,
			Strategy:          o.strategy,
			LowCardinalityMax: o.lowCardinalityMax,
			PerBucketLocks:    o.perBucketLocks,
		},
		Verify:    o.verify,
		Seed:      o.seed,
		NewEngine: engineFactory,
	}, sink, log, cmd.OutOrStdout())

	log.Info("starting histogram benchmark",
		zap.String("run_id", runner.RunID()),
		zap.Int("cases", len(cases)),
		zap.Int("trials", o.trials),
		zap.Int("threads", o.threads),
		zap.String("strategy", o.strategy))

	summaries, err := runner.Run(ctx, o.trials)
	core.PrintSummary(cmd.OutOrStdout(), summaries, !o.noColor)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("benchmark interrupted")
		}
		return err
	}
	if n := core.BrokenCount(summaries); n > 0 {
		log.Error("histogram verification failed", zap.Int("broken_cases", n))
		return errBroken
	}
	return nil
}
