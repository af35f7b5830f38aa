package watcher

import (
	"sync"
	"time"
)

// debouncer coalesces rapid path notifications into batches so the index is
// not thrashed by editors that write a file several times in a row. Within
// one window each path appears at most once; the index re-stats every path
// it receives, so merging reduces to set union.
type debouncer struct {
	window   time.Duration
	maxBatch int
	mu       sync.Mutex
	pending  map[string]struct{}
	order    []string
	timer    *time.Timer
	output   chan []string
	stopped  bool
}

// newDebouncer creates a debouncer. maxBatch caps the paths per emitted
// batch; zero means unbounded.
func newDebouncer(window time.Duration, maxBatch int) *debouncer {
	return &debouncer{
		window:   window,
		maxBatch: maxBatch,
		pending:  make(map[string]struct{}),
		output:   make(chan []string, 16),
	}
}

// Add records a changed path and (re)schedules the flush.
func (d *debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if _, ok := d.pending[path]; !ok {
		d.pending[path] = struct{}{}
		d.order = append(d.order, path)
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// flush emits the accumulated batch in arrival order, at most maxBatch
// paths at a time. An oversized accumulation leaves the remainder pending
// and re-arms the window.
func (d *debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.order) == 0 {
		return
	}
	batch := d.order
	var rest []string
	if d.maxBatch > 0 && len(batch) > d.maxBatch {
		rest = batch[d.maxBatch:]
		batch = batch[:d.maxBatch:d.maxBatch]
	}

	select {
	case d.output <- batch:
		d.order = rest
		d.pending = make(map[string]struct{}, len(rest))
		for _, p := range rest {
			d.pending[p] = struct{}{}
		}
		if len(rest) > 0 {
			d.timer = time.AfterFunc(d.window, d.flush)
		}
	default:
		// Output full: keep everything pending, the next flush retries.
		d.timer = time.AfterFunc(d.window, d.flush)
	}
}

// Output returns the channel of debounced path batches.
func (d *debouncer) Output() <-chan []string {
	return d.output
}

// Stop stops the debouncer and closes the output channel. Safe to call
// multiple times.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.output)
}
