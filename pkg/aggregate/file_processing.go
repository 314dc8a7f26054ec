package aggregate

import (
	"fmt"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"
)

// readFragment reads the whole file named by entry as text. A failed read is
// logged and produces an empty fragment carrying the error, so the file is
// still counted.
func readFragment(entry FileEntry, logger *zap.Logger) Fragment {
	data, err := os.ReadFile(entry.Path)
	if err == nil && !utf8.Valid(data) {
		err = ErrInvalidText
	}
	if err != nil {
		err = fmt.Errorf("error reading file %s: %w", entry.Path, err)
		logger.Error("Failed to read file",
			zap.String("filePath", entry.Path),
			zap.Error(err))
		return Fragment{Path: entry.Path, Err: err}
	}

	logger.Debug("Read file content",
		zap.String("filePath", entry.Path),
		zap.Int("contentSizeBytes", len(data)))
	return Fragment{Path: entry.Path, Text: string(data)}
}
