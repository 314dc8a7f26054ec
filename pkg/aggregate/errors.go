package aggregate

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrRootPath matches every failure to resolve the aggregation root.
	ErrRootPath = errors.New("root path cannot be resolved")
	// ErrInvalidText is wrapped into read errors for files that are not valid UTF-8.
	ErrInvalidText = errors.New("file content is not valid UTF-8 text")
	// ErrUnknownStrategy is returned by New for unregistered strategy names.
	ErrUnknownStrategy = errors.New("unknown aggregation strategy")
	// ErrInvalidOptions is returned by Options.Validate.
	ErrInvalidOptions = errors.New("invalid aggregation options")
)

// PathError reports a root path that could not be resolved to an absolute,
// existing location. It aborts the aggregation before any stage starts.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("resolve root %q: %v", e.Path, e.Err)
}

// Unwrap lets errors.Is match both ErrRootPath and the underlying cause.
func (e *PathError) Unwrap() []error {
	return []error{ErrRootPath, e.Err}
}

// resolveRoot returns the absolute, symlink-free form of root.
func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &PathError{Path: root, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &PathError{Path: root, Err: err}
	}
	return resolved, nil
}
