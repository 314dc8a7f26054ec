// File: pkg/aggregate/worker.go
package aggregate

import (
	"codesum/pkg/queue"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// readAll is the reader pool. It consumes paths until the queue closes and
// reads each file in its own goroutine, with at most limit reads in flight
// (negative means unbounded). Every entry yields exactly one fragment on out,
// and out is closed only after all reads have delivered.
func readAll(paths *queue.Queue[FileEntry], out *queue.Producer[Fragment], limit int, logger *zap.Logger) {
	defer out.Close()

	var g errgroup.Group
	g.SetLimit(limit)
	logger.Debug("Initializing reader pool", zap.Int("limit", limit))

	spawned := 0
	for entry := range paths.Items() {
		spawned++
		// Go blocks while limit reads are in flight.
		g.Go(func() error {
			return out.Send(readFragment(entry, logger))
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Reader failed to deliver fragment", zap.Error(err))
	}
	logger.Debug("Reader pool finished", zap.Int("reads", spawned))
}
