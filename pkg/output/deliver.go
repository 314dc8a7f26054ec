package output

import (
	"fmt"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"

	"codesum/pkg/aggregate"
)

// ToClipboard copies text to the system clipboard.
func ToClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard utility available on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Stats prints a one-line summary of res to w, e.g.
// "aggregated 12 files (1 failed, 4.2 KiB) in 3ms".
func Stats(w io.Writer, res aggregate.Result, elapsed time.Duration) {
	ok := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed)
	dim := color.New(color.Faint)

	fmt.Fprint(w, "aggregated ")
	ok.Fprintf(w, "%d files", res.FileCount)
	fmt.Fprint(w, " (")
	if res.FailedReads > 0 {
		bad.Fprintf(w, "%d failed", res.FailedReads)
	} else {
		fmt.Fprint(w, "0 failed")
	}
	fmt.Fprintf(w, ", %s) in ", humanBytes(len(res.Content)))
	dim.Fprintf(w, "%s", elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)
}

func humanBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
