// Package ignore decides which entries of a directory tree are excluded from
// aggregation: hidden entries, VCS metadata and paths matched by ignore files.
package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

// FileNames lists the per-directory files that carry ignore patterns, in
// increasing priority.
var FileNames = []string{".gitignore", ".ignore", ".codesumignore"}

// Options controls which entries a Rules value excludes.
type Options struct {
	Hidden   bool     // Include entries whose name begins with '.'.
	NoIgnore bool     // Disable ignore files and extra patterns.
	Patterns []string // Extra gitignore-style patterns rooted at the walk root.
}

// chain holds every pattern that applies inside one directory, ordered from
// the root's rules down to the directory's own, followed by the extra
// patterns. The last pattern that matches a path decides.
type chain struct {
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
}

// Rules answers exclusion queries for paths below a single root.
// Ignore files are loaded lazily through Enter as the walk reaches each
// directory. Rules is safe for concurrent use.
type Rules struct {
	root   string
	opts   Options
	logger *zap.Logger
	extra  []gitignore.Pattern
	base   *chain // repository exclude file only

	mu     sync.RWMutex
	chains map[string]*chain
}

// New creates the rule set for root, compiling the extra patterns and the
// repository exclude file if one exists.
func New(root string, opts Options, logger *zap.Logger) *Rules {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Rules{
		root:   filepath.Clean(root),
		opts:   opts,
		logger: logger,
		chains: make(map[string]*chain),
	}
	if opts.NoIgnore {
		return r
	}

	r.extra = parse(opts.Patterns, nil)
	if len(r.extra) > 0 {
		logger.Debug("Compiled extra ignore patterns", zap.Int("count", len(r.extra)))
	}
	r.base = r.extend(nil, r.load(filepath.Join(r.root, ".git", "info", "exclude"), nil))
	r.chains[r.root] = r.base
	return r
}

// Root returns the directory the rules were built for.
func (r *Rules) Root() string {
	return r.root
}

// Enter loads the ignore files found directly in dir. It must be called
// before any child of dir is checked with Excluded, and after dir's parent
// has been entered.
func (r *Rules) Enter(dir string) {
	if r.opts.NoIgnore {
		return
	}
	dir = filepath.Clean(dir)

	domain := r.domain(dir)
	var own []gitignore.Pattern
	for _, name := range FileNames {
		own = append(own, r.load(filepath.Join(dir, name), domain)...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inherited := r.base
	if dir != r.root {
		inherited = r.lookup(filepath.Dir(dir))
	}
	if len(own) == 0 {
		r.chains[dir] = inherited
		return
	}
	r.chains[dir] = r.extend(inherited, own)
}

// Excluded reports whether path must be skipped. The root itself is never
// excluded. Patterns from deeper ignore files override shallower ones, so a
// nested "!pattern" can re-include what an ancestor excluded.
func (r *Rules) Excluded(path string, isDir bool) bool {
	path = filepath.Clean(path)
	if path == r.root {
		return false
	}

	name := filepath.Base(path)
	if !r.opts.Hidden && strings.HasPrefix(name, ".") {
		return true
	}
	if r.opts.NoIgnore {
		return false
	}
	if isDir && name == ".git" {
		return true
	}

	r.mu.RLock()
	c := r.lookup(filepath.Dir(path))
	r.mu.RUnlock()

	if c.matcher.Match(r.domain(path), isDir) {
		r.logger.Debug("Path matches ignore rule", zap.String("path", path))
		return true
	}
	return false
}

// lookup returns the chain of the nearest entered ancestor of dir.
// r.mu must be held.
func (r *Rules) lookup(dir string) *chain {
	for {
		if c, ok := r.chains[dir]; ok {
			return c
		}
		parent := filepath.Dir(dir)
		if dir == r.root || parent == dir {
			return r.base
		}
		dir = parent
	}
}

// extend returns a new chain with own appended to inherited's patterns.
func (r *Rules) extend(inherited *chain, own []gitignore.Pattern) *chain {
	var patterns []gitignore.Pattern
	if inherited != nil {
		patterns = append(patterns, inherited.patterns...)
	}
	patterns = append(patterns, own...)

	all := make([]gitignore.Pattern, 0, len(patterns)+len(r.extra))
	all = append(all, patterns...)
	all = append(all, r.extra...)
	return &chain{patterns: patterns, matcher: gitignore.NewMatcher(all)}
}

// domain splits path, relative to the root, into its components.
func (r *Rules) domain(path string) []string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == "." {
		return nil
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}

// load parses a single ignore file. Missing files are silently skipped;
// unreadable ones are logged and treated as empty.
func (r *Rules) load(path string, domain []string) []gitignore.Pattern {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("Failed to stat ignore file", zap.String("filePath", path), zap.Error(err))
		}
		return nil
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
		return nil
	}

	r.logger.Debug("Loaded ignore file", zap.String("filePath", path))
	return parse(strings.Split(string(content), "\n"), domain)
}

// parse turns gitignore lines into patterns scoped to domain. Blank lines
// and comments are dropped.
func parse(lines []string, domain []string) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	return patterns
}
