package aggregate

import (
	"strings"

	"codesum/pkg/queue"
)

// collector accumulates fragments into a Result. It is not safe for
// concurrent use; each strategy owns exactly one.
type collector struct {
	content strings.Builder
	files   int
	failed  int
}

func (c *collector) add(f Fragment) {
	c.content.WriteString(f.Text)
	c.files++
	if f.Err != nil {
		c.failed++
	}
}

func (c *collector) result() Result {
	return Result{
		Content:     c.content.String(),
		FileCount:   c.files,
		FailedReads: c.failed,
	}
}

// drain consumes fragments in arrival order until the queue is closed.
func drain(fragments *queue.Queue[Fragment]) Result {
	var c collector
	for f := range fragments.Items() {
		c.add(f)
	}
	return c.result()
}
