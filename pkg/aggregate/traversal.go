// File: pkg/aggregate/traversal.go
package aggregate

import (
	"io/fs"
	"path/filepath"

	"codesum/pkg/ignore"

	"go.uber.org/zap"
)

// walkStats counts the entries the walker could not use.
type walkStats struct {
	discovered   int
	entryErrors  int
	unknownTypes int
}

// walker discovers the regular files below a root.
type walker struct {
	opts   Options
	logger *zap.Logger
}

// walk visits the tree rooted at root and calls emit for every regular file
// that is not excluded. Entry errors are logged and never stop the walk.
// root must already be resolved by resolveRoot.
func (w *walker) walk(root string, emit func(FileEntry)) walkStats {
	var stats walkStats
	rules := ignore.New(root, w.opts.ignoreOptions(), w.logger)

	w.logger.Debug("Starting walk", zap.String("root", root))
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		return w.visit(rules, &stats, emit, path, d, err)
	})
	w.logger.Debug("Finished walk",
		zap.String("root", root),
		zap.Int("discovered", stats.discovered),
		zap.Int("entryErrors", stats.entryErrors))

	return stats
}

// visit handles one WalkDir callback.
func (w *walker) visit(rules *ignore.Rules, stats *walkStats, emit func(FileEntry), path string, d fs.DirEntry, err error) error {
	if err != nil {
		stats.entryErrors++
		w.logger.Error("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
		return nil
	}

	isDir := d.IsDir()
	if rules.Excluded(path, isDir) {
		if isDir {
			w.logger.Debug("Skipping ignored directory", zap.String("directory", path))
			return filepath.SkipDir
		}
		w.logger.Debug("Skipping ignored file", zap.String("filePath", path))
		return nil
	}

	mode := d.Type()
	switch {
	case isDir:
		rules.Enter(path)
	case mode.IsRegular():
		stats.discovered++
		w.logger.Debug("Discovered file", zap.String("filePath", path))
		emit(FileEntry{Path: path})
	case mode&fs.ModeIrregular != 0:
		stats.unknownTypes++
		w.logger.Warn("Skipping entry of unknown type", zap.String("path", path))
	default:
		w.logger.Debug("Skipping non-file", zap.String("path", path), zap.Stringer("mode", mode))
	}
	return nil
}
