package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	SearchRequests     atomic.Int64
	SearchErrors       atomic.Int64
	FetchRequests      atomic.Int64
	FetchErrors        atomic.Int64
	TranscriptRequests atomic.Int64
	TranscriptErrors   atomic.Int64
	PipelineRuns       atomic.Int64
	PipelineFailures   atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"llm_calls", "llm_errors",
	"search_requests", "search_errors",
	"fetch_requests", "fetch_errors",
	"transcript_requests", "transcript_errors",
	"pipeline_runs", "pipeline_failures",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"search_requests":     metrics.SearchRequests.Load(),
		"search_errors":       metrics.SearchErrors.Load(),
		"fetch_requests":      metrics.FetchRequests.Load(),
		"fetch_errors":        metrics.FetchErrors.Load(),
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"transcript_errors":   metrics.TranscriptErrors.Load(),
		"pipeline_runs":       metrics.PipelineRuns.Load(),
		"pipeline_failures":   metrics.PipelineFailures.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ and agents/ sub-packages.
func IncrTranscript()      { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptError() { metrics.TranscriptErrors.Add(1) }
func IncrPipelineRun()     { metrics.PipelineRuns.Add(1) }
func IncrPipelineFailure() { metrics.PipelineFailures.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
