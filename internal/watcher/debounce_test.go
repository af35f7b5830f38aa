package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_SinglePathPassesThrough(t *testing.T) {
	d := newDebouncer(30*time.Millisecond, 0)
	defer d.Stop()

	d.Add("/root/a.txt")

	select {
	case batch := <-d.Output():
		assert.Equal(t, []string{"/root/a.txt"}, batch)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for debounced batch")
	}
}

func TestDebouncer_DuplicatePathsCoalesce(t *testing.T) {
	d := newDebouncer(50*time.Millisecond, 0)
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Add("/root/a.txt")
	}
	d.Add("/root/b.txt")

	select {
	case batch := <-d.Output():
		require.Len(t, batch, 2)
		assert.Equal(t, []string{"/root/a.txt", "/root/b.txt"}, batch)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for debounced batch")
	}
}

func TestDebouncer_AddAfterStopIsNoop(t *testing.T) {
	d := newDebouncer(10*time.Millisecond, 0)
	d.Stop()

	d.Add("/root/a.txt")

	_, open := <-d.Output()
	assert.False(t, open)
}

func TestDebouncer_StopIdempotent(t *testing.T) {
	d := newDebouncer(10*time.Millisecond, 0)
	d.Stop()
	d.Stop()
}

func TestDebouncer_OversizedBatchFlushesInChunks(t *testing.T) {
	d := newDebouncer(10*time.Millisecond, 2)
	defer d.Stop()

	paths := []string{"/root/a", "/root/b", "/root/c", "/root/d", "/root/e"}
	for _, p := range paths {
		d.Add(p)
	}

	var got []string
	for len(got) < len(paths) {
		select {
		case batch := <-d.Output():
			require.LessOrEqual(t, len(batch), 2)
			got = append(got, batch...)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for chunked batches")
		}
	}
	assert.Equal(t, paths, got)
}
