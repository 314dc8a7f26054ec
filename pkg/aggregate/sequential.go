package aggregate

import (
	"context"

	"go.uber.org/zap"
)

// Sequential aggregates on the calling goroutine: each file is read and
// appended as soon as the walker discovers it, in discovery order.
type Sequential struct {
	opts   Options
	logger *zap.Logger
}

// NewSequential creates a sequential aggregator. A nil logger discards output.
func NewSequential(opts Options, logger *zap.Logger) *Sequential {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequential{opts: opts, logger: logger}
}

// Aggregate walks root and concatenates every file it reads.
func (s *Sequential) Aggregate(ctx context.Context, root string) (Result, error) {
	r, err := startRun(ctx, StrategySequential, root, s.logger)
	if err != nil {
		return Result{}, err
	}

	var c collector
	w := walker{opts: s.opts, logger: r.logger}
	stats := w.walk(r.root, func(entry FileEntry) {
		c.add(readFragment(entry, r.logger))
	})

	res := c.result()
	r.finish(res, stats)
	return res, nil
}
