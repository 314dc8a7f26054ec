// Package output renders an aggregation result and delivers it to its
// destination: a writer, a locked file or the system clipboard.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"codesum/pkg/aggregate"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned by Render for a format it does not know.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the accepted format names.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

type document struct {
	FileCount   int    `json:"file_count" yaml:"file_count"`
	FailedReads int    `json:"failed_reads" yaml:"failed_reads"`
	Content     string `json:"content" yaml:"content"`
}

// Render writes res to w. The text format is the aggregated content alone;
// the structured formats wrap it with the file counts.
func Render(w io.Writer, res aggregate.Result, format string) error {
	doc := document{
		FileCount:   res.FileCount,
		FailedReads: res.FailedReads,
		Content:     res.Content,
	}

	switch format {
	case FormatText:
		if _, err := io.WriteString(w, res.Content); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flush yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}
