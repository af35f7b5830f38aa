package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/filescout/internal/fsindex"
)

func TestStatusRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	r := NewStatusRenderer(&buf, true)

	require.NoError(t, r.Render(fsindex.Status{
		State:          fsindex.StateReady,
		Root:           "/data",
		IndexedEntries: 42,
		ScannedFiles:   30,
		ScannedDirs:    12,
		FinishedAt:     time.Now().Add(-2 * time.Minute),
		WatcherEnabled: true,
		RescanCount:    1,
		Errors:         2,
	}))
	out := buf.String()

	assert.Contains(t, out, "Index: /data")
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, "42 (30 files, 12 dirs)")
	assert.Contains(t, out, "2m ago")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "Rescans:  1")
	assert.Contains(t, out, "2 unreadable entries")
}

func TestStatusRenderer_ErrorState(t *testing.T) {
	var buf bytes.Buffer
	r := NewStatusRenderer(&buf, true)

	require.NoError(t, r.Render(fsindex.Status{
		State:     fsindex.StateError,
		Root:      "/gone",
		LastError: "root unreadable",
	}))

	assert.Contains(t, buf.String(), "error")
	assert.Contains(t, buf.String(), "root unreadable")
	assert.Contains(t, buf.String(), "disabled")
}
