package aggregate

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Package-level tracer and meter. They follow whatever providers the process
// installs through otel.SetTracerProvider / otel.SetMeterProvider.
var (
	tracer = otel.Tracer("codesum.aggregate")
	meter  = otel.Meter("codesum.aggregate")
)

var (
	filesRead         metric.Int64Counter
	readFailures      metric.Int64Counter
	bytesRead         metric.Int64Counter
	walkErrors        metric.Int64Counter
	aggregateDuration metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments once. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		filesRead, err = meter.Int64Counter(
			"codesum_files_read_total",
			metric.WithDescription("Files read during aggregation, failed reads included"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		readFailures, err = meter.Int64Counter(
			"codesum_read_failures_total",
			metric.WithDescription("Files that could not be read and contributed an empty fragment"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		bytesRead, err = meter.Int64Counter(
			"codesum_bytes_read_total",
			metric.WithDescription("Bytes of text aggregated"),
			metric.WithUnit("By"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		walkErrors, err = meter.Int64Counter(
			"codesum_walk_errors_total",
			metric.WithDescription("Traversal entries skipped because of an error"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		aggregateDuration, err = meter.Float64Histogram(
			"codesum_aggregate_duration_seconds",
			metric.WithDescription("Duration of aggregation runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordRun publishes the totals of a finished run.
func recordRun(ctx context.Context, strategy string, res Result, stats walkStats, elapsed time.Duration) {
	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))

	filesRead.Add(ctx, int64(res.FileCount), attrs)
	readFailures.Add(ctx, int64(res.FailedReads), attrs)
	bytesRead.Add(ctx, int64(len(res.Content)), attrs)
	walkErrors.Add(ctx, int64(stats.entryErrors), attrs)
	aggregateDuration.Record(ctx, elapsed.Seconds(), attrs)
}
