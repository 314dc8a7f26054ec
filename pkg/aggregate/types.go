package aggregate

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Strategy names accepted by New.
const (
	StrategySequential = "sequential"
	StrategyConcurrent = "concurrent"
)

// Aggregator turns the directory tree at root into a single Result.
// Sequential and Concurrent are interchangeable implementations.
type Aggregator interface {
	Aggregate(ctx context.Context, root string) (Result, error)
}

// Result is the outcome of one aggregation.
type Result struct {
	Content     string // Concatenated text of every file read, in arrival order.
	FileCount   int    // Number of files read, failed reads included.
	FailedReads int    // Files that could not be read and contributed an empty fragment.
}

// FileEntry identifies a regular file discovered by the walker.
type FileEntry struct {
	Path string
}

// Fragment is the text contributed by a single file. Err is set when the
// read failed, in which case Text is empty.
type Fragment struct {
	Path string
	Text string
	Err  error
}

// New returns the aggregator registered under strategy.
func New(strategy string, opts Options, logger *zap.Logger) (Aggregator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	switch strategy {
	case StrategySequential:
		return NewSequential(opts, logger), nil
	case StrategyConcurrent:
		return NewConcurrent(opts, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}
