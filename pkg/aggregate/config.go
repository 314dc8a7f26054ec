// File: pkg/aggregate/config.go
package aggregate

import (
	"fmt"
	"runtime"

	"codesum/pkg/ignore"
)

// DefaultQueueCapacity is the buffer size of the path and content queues.
const DefaultQueueCapacity = 64

// Options holds the configuration shared by all aggregation strategies.
type Options struct {
	MaxReaders     int      // Concurrent file reads; 0 means runtime.NumCPU(), negative means unbounded.
	QueueCapacity  int      // Buffered items per pipeline queue; 0 makes every hand-off synchronous.
	Hidden         bool     // Include hidden files and directories.
	NoIgnore       bool     // Do not apply ignore files or IgnorePatterns.
	IgnorePatterns []string // Extra gitignore-style patterns relative to the root.
}

// DefaultOptions returns the options used when nothing is configured. Reads
// are bounded to one per CPU; set MaxReaders negative for one goroutine per
// file.
func DefaultOptions() Options {
	return Options{
		MaxReaders:    0,
		QueueCapacity: DefaultQueueCapacity,
	}
}

// Validate checks the options for values no strategy can run with.
func (o Options) Validate() error {
	if o.QueueCapacity < 0 {
		return fmt.Errorf("%w: queue capacity must not be negative, got %d", ErrInvalidOptions, o.QueueCapacity)
	}
	return nil
}

// readerLimit converts MaxReaders into an errgroup limit.
func (o Options) readerLimit() int {
	switch {
	case o.MaxReaders > 0:
		return o.MaxReaders
	case o.MaxReaders == 0:
		return runtime.NumCPU()
	default:
		return -1
	}
}

func (o Options) ignoreOptions() ignore.Options {
	return ignore.Options{
		Hidden:   o.Hidden,
		NoIgnore: o.NoIgnore,
		Patterns: o.IgnorePatterns,
	}
}
