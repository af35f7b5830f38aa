package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingWriter_WritesAndSyncs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "filescout.log")
	w, err := NewRotatingWriter(path, 10, 3)
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestRotatingWriter_RotatesAtSizeLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filescout.log")
	w, err := NewRotatingWriter(path, 1, 3)
	require.NoError(t, err)
	defer w.Close()

	chunk := bytes.Repeat([]byte{'x'}, 600<<10)
	_, err = w.Write(chunk)
	require.NoError(t, err)
	_, err = w.Write(chunk)
	require.NoError(t, err)

	// The second write exceeded 1MB, so the first landed in .1.
	rotated, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Len(t, rotated, 600<<10)

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, current, 600<<10)
}

func TestRotatingWriter_DropsOldestBeyondMaxFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filescout.log")
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer w.Close()

	chunk := bytes.Repeat([]byte{'x'}, 600<<10)
	for i := 0; i < 5; i++ {
		_, err = w.Write(chunk)
		require.NoError(t, err)
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err), "files beyond max_files are removed")
}

func TestSetup_CreatesLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "filescout.log")
	cfg.Level = "debug"

	logger, cleanup, err := Setup(cfg)
	require.NoError(t, err)
	defer cleanup()

	logger.Info("started", "root", "/data")

	data, err := os.ReadFile(cfg.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"started"`)
	assert.Contains(t, string(data), `"root":"/data"`)
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelFromString("debug").String())
	assert.Equal(t, "WARN", LevelFromString("warning").String())
	assert.Equal(t, "INFO", LevelFromString("mystery").String())
}
