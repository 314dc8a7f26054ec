//go:build unix

package aggregate

import (
	"context"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_SkipsNamedPipes(t *testing.T) {
	root := writeTree(t, map[string]string{"real.txt": "real"})
	require.NoError(t, syscall.Mkfifo(filepath.Join(root, "pipe"), 0644))

	for _, sc := range strategyCases {
		t.Run(sc.name, func(t *testing.T) {
			res, err := sc.aggregator(DefaultOptions(), nil).Aggregate(context.Background(), root)
			require.NoError(t, err)
			assert.Equal(t, Result{Content: "real", FileCount: 1}, res)
		})
	}
}
