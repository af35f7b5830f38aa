// Package watcher turns OS filesystem notifications into normalized events
// for the index owner. Backends never touch index memory: each one runs its
// own producer thread and emits owned Event values on a channel, which is
// the sole contract between the notification source and the index.
//
// On darwin the backend wraps the FSEvents C API through purego and
// supports resuming from a persisted event id; everywhere else fsnotify
// provides the native watch with a debouncing layer on top.
package watcher

import (
	"context"
	"time"

	"github.com/Aman-CERP/filescout/internal/ignore"
)

// EventKind discriminates watcher events.
type EventKind int

const (
	// EventPathsChanged carries a batch of changed paths to re-stat.
	EventPathsChanged EventKind = iota
	// EventRescanRequired signals that incremental reasoning is unsafe
	// and the index must rebuild from a fresh walk.
	EventRescanRequired
	// EventHistoryDone signals that replay of historical events (from a
	// resume token) has caught up to the present.
	EventHistoryDone
	// EventError carries a non-fatal backend error.
	EventError
)

// String returns a human-readable representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventPathsChanged:
		return "PATHS_CHANGED"
	case EventRescanRequired:
		return "RESCAN_REQUIRED"
	case EventHistoryDone:
		return "HISTORY_DONE"
	case EventError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is one normalized watcher message.
type Event struct {
	Kind  EventKind
	Paths []string // set for EventPathsChanged
	ID    uint64   // highest backend event id covered, 0 when unsupported
	Err   error    // set for EventError
}

// Backend is a platform notification source for one watched root.
type Backend interface {
	// Start begins producing events. Setup failure is fatal at startup:
	// without a working notification source no index can be maintained.
	Start(ctx context.Context) error

	// Stop tears the backend down and stops its producer thread. Safe to
	// call multiple times.
	Stop() error

	// Events returns the event channel. Closed after Stop.
	Events() <-chan Event

	// LastEventID returns the most recent backend event id observed, for
	// persisting as a resume token. Zero when the backend has no event-id
	// protocol.
	LastEventID() uint64
}

// Options configures a backend.
type Options struct {
	// DebounceWindow is how long changed paths accumulate before being
	// emitted as one batch. On darwin this maps to FSEvents latency.
	// Default: 200ms.
	DebounceWindow time.Duration

	// EventBuffer is the event channel capacity. While the index is
	// building, incoming batches stage here until drained. Default: 1024.
	EventBuffer int

	// MaxBatch caps the paths emitted per debounced batch; larger
	// accumulations flush in chunks. Applied by the debouncing (fsnotify)
	// backend; FSEvents batching is governed by DebounceWindow alone.
	// Default: 4096.
	MaxBatch int

	// SinceEventID resumes history replay after the given persisted event
	// id instead of starting from now. Zero starts from now. Only the
	// darwin backend honors this.
	SinceEventID uint64

	// Ignore filters events for excluded paths at the source.
	Ignore *ignore.Set
}

// DefaultOptions returns the default backend options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: 200 * time.Millisecond,
		EventBuffer:    1024,
		MaxBatch:       4096,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.DebounceWindow == 0 {
		o.DebounceWindow = defaults.DebounceWindow
	}
	if o.EventBuffer == 0 {
		o.EventBuffer = defaults.EventBuffer
	}
	if o.MaxBatch == 0 {
		o.MaxBatch = defaults.MaxBatch
	}
	return o
}

// New creates the platform backend for root.
func New(root string, opts Options) (Backend, error) {
	return newPlatformBackend(root, opts.WithDefaults())
}
