// Package telemetry exposes opt-in Prometheus metrics for histogram trials.
// When disabled every observer is a no-op, so the runner can call them
// unconditionally.
package telemetry

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls the telemetry module.
//
// MetricsAddr, when non-empty, starts a dedicated HTTP server that serves
// /metrics. Leave it empty if Prometheus is already exposed elsewhere.
type Config struct {
	Enabled     bool
	MetricsAddr string // e.g. ":9090"
}

var (
	modEnabled atomic.Bool

	// Labels are limited to case name, strategy and status, all bounded by
	// the configured workloads.
	trialDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "histo_trial_duration_seconds",
		Help:    "Wall-clock duration of the parallel phase per trial",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
	}, []string{"case", "strategy"})
	samplesProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "histo_samples_processed_total",
		Help: "Samples counted by the parallel engine",
	}, []string{"case"})
	trialsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "histo_trials_total",
		Help: "Finished trials by verification status (ok, broken, unverified)",
	}, []string{"case", "status"})
	mismatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "histo_verify_mismatches_total",
		Help: "Buckets that disagreed with the sequential reference",
	}, []string{"case"})
	bestRuntime = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "histo_best_runtime_ms",
		Help: "Best parallel runtime observed so far, in milliseconds",
	}, []string{"case"})
	speedup = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "histo_speedup_ratio",
		Help: "Sequential reference time divided by best parallel time",
	}, []string{"case"})

	serveOnce sync.Once
)

func init() {
	prometheus.MustRegister(trialDuration, samplesProcessed, trialsTotal, mismatchesTotal, bestRuntime, speedup)
}

// Enable configures the module. Safe to call more than once; the metrics
// endpoint is started at most once per process.
func Enable(cfg Config) {
	modEnabled.Store(cfg.Enabled)
	if cfg.Enabled && cfg.MetricsAddr != "" {
		serveOnce.Do(func() { startMetricsEndpoint(cfg.MetricsAddr) })
	}
}

// Enabled reports whether telemetry is active.
func Enabled() bool { return modEnabled.Load() }

// Trial status label values.
const (
	StatusOK         = "ok"
	StatusBroken     = "broken"
	StatusUnverified = "unverified"
)

// ObserveTrial records one finished case run.
func ObserveTrial(caseName, strategy string, elapsed time.Duration, samples int, status string) {
	if !modEnabled.Load() {
		return
	}
	trialDuration.WithLabelValues(caseName, strategy).Observe(elapsed.Seconds())
	samplesProcessed.WithLabelValues(caseName).Add(float64(samples))
	trialsTotal.WithLabelValues(caseName, status).Inc()
}

// ObserveMismatches adds n mismatching buckets for a case.
func ObserveMismatches(caseName string, n int) {
	if !modEnabled.Load() || n <= 0 {
		return
	}
	mismatchesTotal.WithLabelValues(caseName).Add(float64(n))
}

// ObservePerformance publishes the current best runtime and speedup.
// A non-positive ratio means no baseline is known and leaves the gauge as is.
func ObservePerformance(caseName string, best time.Duration, ratio float64) {
	if !modEnabled.Load() {
		return
	}
	bestRuntime.WithLabelValues(caseName).Set(float64(best) / float64(time.Millisecond))
	if ratio > 0 {
		speedup.WithLabelValues(caseName).Set(ratio)
	}
}

// startMetricsEndpoint serves /metrics on addr in the background.
func startMetricsEndpoint(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = server.ListenAndServe()
	}()
}
