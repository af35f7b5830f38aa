//go:build !darwin

package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// notifyBackend is the non-darwin backend built on fsnotify. fsnotify
// watches are not recursive, so every directory is registered individually
// and newly created directories are added as their events arrive. Raw
// events pass through a debouncer and come out as path batches.
type notifyBackend struct {
	root      string
	opts      Options
	fsw       *fsnotify.Watcher
	debouncer *debouncer
	events    chan Event
	stopCh    chan struct{}
	doneCh    chan struct{}
	fwdDoneCh chan struct{}
	stopOnce  sync.Once
	started   bool
}

// newPlatformBackend creates the fsnotify backend for root. A failure here
// is fatal at startup: no index can be maintained without notifications.
func newPlatformBackend(root string, opts Options) (Backend, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &notifyBackend{
		root:      root,
		opts:      opts,
		fsw:       fsw,
		debouncer: newDebouncer(opts.DebounceWindow, opts.MaxBatch),
		events:    make(chan Event, opts.EventBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		fwdDoneCh: make(chan struct{}),
	}, nil
}

func (b *notifyBackend) Start(ctx context.Context) error {
	if err := b.addRecursive(b.root); err != nil {
		return fmt.Errorf("register watch tree: %w", err)
	}
	b.started = true

	go b.producer(ctx)
	go b.forwardBatches()

	// No event history on this backend: replay is trivially complete.
	b.send(Event{Kind: EventHistoryDone})
	return nil
}

// addRecursive registers dir and every subdirectory with the watcher.
// Unreadable subdirectories are skipped; they are also invisible to the
// walker, so the watch surface matches the index surface.
func (b *notifyBackend) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if b.opts.Ignore.Match(path) {
			return filepath.SkipDir
		}
		if err := b.fsw.Add(path); err != nil {
			slog.Debug("watch registration failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return nil
	})
}

// producer converts raw fsnotify traffic into debounced paths and rescan
// signals.
func (b *notifyBackend) producer(ctx context.Context) {
	defer close(b.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case ev, ok := <-b.fsw.Events:
			if !ok {
				return
			}
			b.handleRaw(ev)
		case err, ok := <-b.fsw.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// The kernel dropped events; incremental reasoning is
				// no longer safe.
				b.send(Event{Kind: EventRescanRequired})
				continue
			}
			b.send(Event{Kind: EventError, Err: err})
		}
	}
}

func (b *notifyBackend) handleRaw(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if b.opts.Ignore.Match(path) {
		return
	}

	// The root disappearing or moving invalidates every path in the
	// index.
	if path == b.root && ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		b.send(Event{Kind: EventRescanRequired})
		return
	}

	// New directories must join the watch set before their contents
	// change unobserved.
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			if err := b.addRecursive(path); err != nil {
				slog.Debug("watch new directory failed",
					slog.String("path", path),
					slog.String("error", err.Error()))
			}
		}
	}

	b.debouncer.Add(path)
}

// forwardBatches moves debounced batches onto the event channel. Stop joins
// on fwdDoneCh before closing the event channel, so a batch still buffered
// at shutdown is dropped here instead of sent after close.
func (b *notifyBackend) forwardBatches() {
	defer close(b.fwdDoneCh)
	for batch := range b.debouncer.Output() {
		b.send(Event{Kind: EventPathsChanged, Paths: batch})
	}
}

// send delivers ev unless the backend is stopping. Delivery blocks when the
// buffer is full: the producer thread is the only party stalled, and the
// index drains the channel FIFO.
func (b *notifyBackend) send(ev Event) {
	select {
	case b.events <- ev:
	case <-b.stopCh:
	}
}

func (b *notifyBackend) Events() <-chan Event {
	return b.events
}

// LastEventID returns 0: fsnotify has no resumable event-id protocol.
func (b *notifyBackend) LastEventID() uint64 {
	return 0
}

func (b *notifyBackend) Stop() error {
	var err error
	b.stopOnce.Do(func() {
		close(b.stopCh)
		b.debouncer.Stop()
		err = b.fsw.Close()
		if b.started {
			<-b.doneCh
			<-b.fwdDoneCh
		}
		close(b.events)
	})
	return err
}
