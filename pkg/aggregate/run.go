package aggregate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// run holds the per-call state shared by every strategy.
type run struct {
	ctx      context.Context
	span     trace.Span
	logger   *zap.Logger
	strategy string
	root     string // resolved root
	start    time.Time
}

// startRun opens the span and run logger and resolves root. On failure the
// span is already ended and the returned error is a *PathError.
func startRun(ctx context.Context, strategy, root string, logger *zap.Logger) (*run, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "aggregate."+strategy,
		trace.WithAttributes(attribute.String("aggregate.root", root)))
	logger = logger.With(
		zap.String("runID", uuid.NewString()),
		zap.String("strategy", strategy))

	abs, err := resolveRoot(root)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "root path cannot be resolved")
		span.End()
		logger.Error("Failed to resolve root path", zap.String("root", root), zap.Error(err))
		return nil, err
	}

	logger.Info("Starting aggregation", zap.String("root", abs))
	return &run{
		ctx:      ctx,
		span:     span,
		logger:   logger,
		strategy: strategy,
		root:     abs,
		start:    start,
	}, nil
}

// finish records metrics, logs the summary and ends the span.
func (r *run) finish(res Result, stats walkStats) {
	elapsed := time.Since(r.start)
	recordRun(r.ctx, r.strategy, res, stats, elapsed)

	r.span.SetAttributes(
		attribute.Int("aggregate.file_count", res.FileCount),
		attribute.Int("aggregate.failed_reads", res.FailedReads),
		attribute.Int("aggregate.bytes", len(res.Content)),
	)
	r.span.SetStatus(codes.Ok, "")
	r.span.End()

	r.logger.Info("Aggregation completed",
		zap.Int("fileCount", res.FileCount),
		zap.Int("failedReads", res.FailedReads),
		zap.Int("walkErrors", stats.entryErrors),
		zap.Int("unknownEntries", stats.unknownTypes),
		zap.Duration("elapsed", elapsed))
}
