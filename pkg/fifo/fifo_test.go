// pkg/fifo/fifo_test.go
package fifo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCreatesFifo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen_capture")

	require.NoError(t, Ensure(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeNamedPipe)
}

func TestEnsureExistingFifoIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen_capture")
	require.NoError(t, Ensure(path))

	before, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, Ensure(path))

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestEnsureRejectsRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen_capture")
	require.NoError(t, os.WriteFile(path, []byte("not a pipe"), 0o644))

	err := Ensure(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a named pipe")
}
