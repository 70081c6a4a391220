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
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// AssumedGHz is the clock rate used to turn runtimes into cycles per element.
const AssumedGHz = 2.0

// CaseSummary aggregates every trial of one case.
type CaseSummary struct {
	Case     Case
	Strategy string
	Threads  int
	Trials   int
	// Best is the fastest parallel runtime across trials.
	Best time.Duration
	// Baseline is the fastest sequential reference runtime; zero when no
	// trial was verified.
	Baseline   time.Duration
	Failures   int
	Mismatches int
}

func (s *CaseSummary) observe(r TrialResult) {
	s.Trials++
	if s.Best == 0 || r.Elapsed < s.Best {
		s.Best = r.Elapsed
	}
	if r.Baseline > 0 && (s.Baseline == 0 || r.Baseline < s.Baseline) {
		s.Baseline = r.Baseline
	}
	if r.Broken() {
		s.Failures++
		s.Mismatches += r.Mismatches
	}
}

// Broken reports whether any trial failed verification.
func (s CaseSummary) Broken() bool { return s.Failures > 0 }

// Speedup is Baseline/Best, or 0 when there is no baseline.
func (s CaseSummary) Speedup() float64 {
	if s.Baseline <= 0 || s.Best <= 0 {
		return 0
	}
	return float64(s.Baseline) / float64(s.Best)
}

// CPE is cycles per element for the best run at AssumedGHz.
func (s CaseSummary) CPE() float64 { return cpe(s.Best, s.Case.N) }

// BrokenCount returns how many cases failed verification at least once.
func BrokenCount(summaries []CaseSummary) int {
	return lo.CountBy(summaries, func(s CaseSummary) bool { return s.Broken() })
}

// GeomeanSpeedup is the geometric mean of the per-case speedups. ok is false
// unless there are at least two cases, none broken, each with a baseline.
func GeomeanSpeedup(summaries []CaseSummary) (g float64, ok bool) {
	if len(summaries) < 2 || BrokenCount(summaries) > 0 {
		return 0, false
	}
	speedups := lo.Map(summaries, func(s CaseSummary, _ int) float64 { return s.Speedup() })
	if lo.Min(speedups) <= 0 {
		return 0, false
	}
	product := lo.Reduce(speedups, func(acc, v float64, _ int) float64 { return acc * v }, 1.0)
	return math.Pow(product, 1/float64(len(speedups))), true
}

func msec(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func cpe(d time.Duration, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(d.Nanoseconds()) * AssumedGHz / float64(n)
}

// PrintSummary writes the end-of-run table followed by the captured
// configuration. color wraps the output in yellow ANSI codes.
func PrintSummary(w io.Writer, summaries []CaseSummary, color bool) {
	yellow, reset := "", ""
	if color {
		yellow, reset = "\x1b[33m", "\x1b[0m"
	}
	run, broken := getTrialTotals()

	sep := strings.Repeat("-", 92)
	fmt.Fprintf(w, "%s[%s] Histogram benchmark summary\n", yellow, time.Now().Format(time.RFC3339))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "%-14s %-18s %7s %6s %12s %9s %8s %10s\n",
		"Case", "Strategy", "Threads", "Trials", "Best (msec)", "Speedup", "CPE", "Status")
	fmt.Fprintln(w, sep)
	for _, s := range summaries {
		speedup := "n/a"
		if v := s.Speedup(); v > 0 {
			speedup = fmt.Sprintf("%.3f", v)
		}
		status := "ok"
		switch {
		case s.Broken():
			status = fmt.Sprintf("BROKEN(%d)", s.Failures)
		case s.Baseline == 0:
			status = "unchecked"
		}
		fmt.Fprintf(w, "%-14s %-18s %7d %6d %12.1f %9s %8.3f %10s\n",
			s.Case.Name, s.Strategy, s.Threads, s.Trials, msec(s.Best), speedup, s.CPE(), status)
	}
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "%-18s %12d\n", "Case runs", run)
	fmt.Fprintf(w, "%-18s %12d\n", "Broken runs", broken)
	fmt.Fprintf(w, "%-18s %12d\n", "Broken cases", BrokenCount(summaries))
	if g, ok := GeomeanSpeedup(summaries); ok {
		fmt.Fprintf(w, "%-18s %12.2f\n", "Geomean speedup", g)
	}
	fmt.Fprintln(w, sep)

	th := getThresholdSnapshot()
	if len(th) > 0 {
		keys := lo.Keys(th)
		sort.Strings(keys)
		fmt.Fprintln(w, "Configuration")
		fmt.Fprintln(w, sep)
		for _, k := range keys {
			fmt.Fprintf(w, "%-30s %24s\n", k, th[k])
		}
		fmt.Fprintln(w, sep)
	}
	fmt.Fprint(w, reset)
}
