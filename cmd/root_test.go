package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesum/pkg/aggregate"
	"codesum/pkg/output"
	"codesum/pkg/version"
)

// execute runs a fresh command tree with args, isolated from the user's
// home config.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.Execute()
	return out.String(), errOut.String(), err
}

func sampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range map[string]string{
		"a.txt":      "alpha\n",
		"b/c.txt":    "gamma\n",
		"debug.log":  "noise\n",
		".gitignore": "*.log\n",
	} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func lines(s string) []string {
	out := strings.Split(strings.TrimSpace(s), "\n")
	sort.Strings(out)
	return out
}

func TestRoot_Help(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Aggregates all the code within a path")
	assert.Contains(t, stdout, "codesum <path>")
	assert.Contains(t, stdout, "--strategy")
	assert.Contains(t, stdout, "--no-ignore")
}

func TestRoot_MissingPath(t *testing.T) {
	_, stderr, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")
	assert.Contains(t, stderr, "Error:")
}

func TestRoot_Aggregates(t *testing.T) {
	root := sampleTree(t)

	for _, strategy := range []string{aggregate.StrategySequential, aggregate.StrategyConcurrent} {
		t.Run(strategy, func(t *testing.T) {
			stdout, _, err := execute(t, "--strategy", strategy, root)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "gamma"}, lines(stdout))
		})
	}
}

func TestRoot_IgnoreFlags(t *testing.T) {
	root := sampleTree(t)

	stdout, _, err := execute(t, "--no-ignore", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "gamma", "noise"}, lines(stdout))

	stdout, _, err = execute(t, "--ignore", "b/", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, lines(stdout))

	stdout, _, err = execute(t, "--hidden", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.log", "alpha", "gamma"}, lines(stdout))
}

func TestRoot_NonExistentPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	stdout, stderr, err := execute(t, missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregate.ErrRootPath)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, missing)
}

func TestRoot_InvalidSettings(t *testing.T) {
	root := sampleTree(t)

	_, _, err := execute(t, "--strategy", "parallel", root)
	assert.ErrorIs(t, err, aggregate.ErrUnknownStrategy)

	_, _, err = execute(t, "--format", "xml", root)
	assert.ErrorIs(t, err, output.ErrUnknownFormat)

	_, _, err = execute(t, "--queue-capacity", "-1", root)
	assert.ErrorIs(t, err, aggregate.ErrInvalidOptions)

	_, _, err = execute(t, "--log-level", "loud", root)
	assert.Error(t, err)
}

func TestRoot_JSONFormat(t *testing.T) {
	root := sampleTree(t)

	stdout, _, err := execute(t, "-f", "json", root)
	require.NoError(t, err)

	var doc struct {
		FileCount   int    `json:"file_count"`
		FailedReads int    `json:"failed_reads"`
		Content     string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, 2, doc.FileCount)
	assert.Zero(t, doc.FailedReads)
	assert.Equal(t, []string{"alpha", "gamma"}, lines(doc.Content))
}

func TestRoot_OutputFileAndStats(t *testing.T) {
	root := sampleTree(t)
	target := filepath.Join(t.TempDir(), "summary.txt")

	stdout, stderr, err := execute(t, "-o", target, "--stats", root)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "aggregated ")
	assert.Contains(t, stderr, "2 files")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "gamma"}, lines(string(data)))
}

func TestRoot_ConfigFile(t *testing.T) {
	root := sampleTree(t)
	cfg := filepath.Join(t.TempDir(), "codesum.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("strategy: sequential\nignore:\n  - a.txt\n"), 0o644))

	stdout, _, err := execute(t, "--config", cfg, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma"}, lines(stdout))

	// Flags win over the config file.
	stdout, _, err = execute(t, "--config", cfg, "--ignore", "b/", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, lines(stdout))
}

func TestRoot_MissingConfigFile(t *testing.T) {
	root := sampleTree(t)

	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestRoot_Environment(t *testing.T) {
	root := sampleTree(t)
	t.Setenv("CODESUM_FORMAT", "yaml")
	t.Setenv("CODESUM_NO_IGNORE", "true")

	stdout, _, err := execute(t, root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "file_count: 3")
}

func TestRoot_Telemetry(t *testing.T) {
	root := sampleTree(t)

	_, stderr, err := execute(t, "--trace", "--metrics", root)
	require.NoError(t, err)
	assert.Contains(t, stderr, "aggregate.concurrent")
	assert.Contains(t, stderr, "codesum_files_read_total")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)

	stdout, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "codesum version "+version.Version)
}
