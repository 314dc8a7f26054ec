package aggregate

import (
	"context"

	"codesum/pkg/queue"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Concurrent aggregates through a three-stage pipeline: a walker feeding the
// path queue, a reader pool feeding the content queue and a collector
// draining it. Fragments are concatenated in arrival order, so Content may
// differ in ordering between runs; the set of fragments and the count do not.
type Concurrent struct {
	opts   Options
	logger *zap.Logger
}

// NewConcurrent creates a concurrent aggregator. A nil logger discards output.
func NewConcurrent(opts Options, logger *zap.Logger) *Concurrent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Concurrent{opts: opts, logger: logger}
}

// Aggregate runs the pipeline over root and blocks until it has drained.
// ctx carries trace context only; a started run always runs to completion.
func (c *Concurrent) Aggregate(ctx context.Context, root string) (Result, error) {
	r, err := startRun(ctx, StrategyConcurrent, root, c.logger)
	if err != nil {
		return Result{}, err
	}

	paths, pathTx := queue.New[FileEntry](c.opts.QueueCapacity)
	fragments, fragmentTx := queue.New[Fragment](c.opts.QueueCapacity)
	limit := c.opts.readerLimit()

	// The three stages start together and are joined in pipeline order.
	var walkStage, readStage, collectStage errgroup.Group

	var stats walkStats
	walkStage.Go(func() error {
		defer pathTx.Close()
		_, span := tracer.Start(r.ctx, "aggregate.walk")
		defer span.End()

		w := walker{opts: c.opts, logger: r.logger}
		stats = w.walk(r.root, enqueue(pathTx, r.logger))
		span.SetAttributes(attribute.Int("aggregate.discovered", stats.discovered))
		return nil
	})

	readStage.Go(func() error {
		_, span := tracer.Start(r.ctx, "aggregate.read",
			trace.WithAttributes(attribute.Int("aggregate.reader_limit", limit)))
		defer span.End()

		readAll(paths, fragmentTx, limit, r.logger)
		return nil
	})

	var res Result
	collectStage.Go(func() error {
		_, span := tracer.Start(r.ctx, "aggregate.collect")
		defer span.End()

		res = drain(fragments)
		return nil
	})

	_ = walkStage.Wait()
	r.logger.Debug("Walker finished")
	_ = readStage.Wait()
	r.logger.Debug("Draining content queue")
	_ = collectStage.Wait()

	r.finish(res, stats)
	return res, nil
}

// enqueue returns the walker callback feeding the path queue. A rejected
// entry would never produce a fragment, so it is logged at error level.
func enqueue(tx *queue.Producer[FileEntry], logger *zap.Logger) func(FileEntry) {
	return func(entry FileEntry) {
		if err := tx.Send(entry); err != nil {
			logger.Error("Failed to queue discovered file", zap.String("filePath", entry.Path), zap.Error(err))
		}
	}
}
