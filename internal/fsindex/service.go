package fsindex

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Aman-CERP/filescout/internal/ignore"
	"github.com/Aman-CERP/filescout/internal/namepool"
	"github.com/Aman-CERP/filescout/internal/slab"
	"github.com/Aman-CERP/filescout/internal/watcher"
)

// Options configures an Index.
type Options struct {
	// Root is the absolute path of the watched subtree.
	Root string

	// Ignore excludes paths from both indexing and watch events.
	Ignore *ignore.Set

	// Watch enables continuous synchronization. When false the index is a
	// one-shot snapshot.
	Watch bool

	// Watcher configures the notification backend.
	Watcher watcher.Options

	// CachePath is the directory holding the watcher resume token. Empty
	// disables persistence.
	CachePath string
}

// Index owns one live filesystem index. Exactly one goroutine (the run
// loop) mutates the tree; notification backends only produce events onto a
// channel. Readers serialize against the writer through Read, which takes a
// read lock for the duration of the callback. The core guarantees
// serialized writes, and Read is the snapshot boundary readers need.
type Index struct {
	opts    Options
	backend watcher.Backend
	resume  *watcher.ResumeStore

	mu           sync.RWMutex
	tree         *Tree
	state        State
	lastError    string
	startedAt    time.Time
	lastUpdateAt time.Time
	finishedAt   time.Time
	rescanCount  int
	watchErrors  int

	// pending stages path batches that arrive while a build is running;
	// they drain FIFO once the build completes.
	pending [][]string

	readyOnce sync.Once
	readyCh   chan struct{}
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// Open creates the index, starts the notification backend when watching is
// enabled, and kicks off the initial build in the owner goroutine. Backend
// construction or startup failure is fatal: without a notification source
// the index cannot stay correct.
func Open(ctx context.Context, opts Options) (*Index, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	opts.Root = filepath.Clean(root)

	ix := &Index{
		opts:    opts,
		state:   StateBuilding,
		readyCh: make(chan struct{}),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}

	if opts.Watch {
		wopts := opts.Watcher
		wopts.Ignore = opts.Ignore

		if opts.CachePath != "" {
			ix.resume = watcher.NewResumeStore(filepath.Join(opts.CachePath, "resume.json"))
			if id, ok, err := ix.resume.Load(opts.Root); err != nil {
				slog.Warn("resume token unavailable",
					slog.String("error", err.Error()))
			} else if ok {
				wopts.SinceEventID = id
				slog.Info("resuming watch from persisted event id",
					slog.Uint64("event_id", id))
			}
		}

		backend, err := watcher.New(opts.Root, wopts)
		if err != nil {
			return nil, fmt.Errorf("watcher setup: %w", err)
		}
		if err := backend.Start(ctx); err != nil {
			_ = backend.Stop()
			return nil, fmt.Errorf("watcher start: %w", err)
		}
		ix.backend = backend
	}

	go ix.run(ctx)
	return ix, nil
}

// run is the owner goroutine: it performs every build and applies every
// incremental update. Nothing else touches the tree through a write path.
func (ix *Index) run(ctx context.Context) {
	defer close(ix.doneCh)

	ix.rebuild(ctx, false)

	if ix.backend == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ix.stopCh:
			return
		case ev, ok := <-ix.backend.Events():
			if !ok {
				return
			}
			ix.handleEvent(ctx, ev)
		}
	}
}

func (ix *Index) handleEvent(ctx context.Context, ev watcher.Event) {
	switch ev.Kind {
	case watcher.EventPathsChanged:
		if ix.applyBatch(ev.Paths) {
			ix.rebuild(ctx, true)
		}
	case watcher.EventRescanRequired:
		ix.rebuild(ctx, true)
	case watcher.EventHistoryDone:
		slog.Info("watch history replay complete",
			slog.Uint64("event_id", ev.ID))
		ix.persistResumeToken()
	case watcher.EventError:
		ix.mu.Lock()
		ix.watchErrors++
		ix.mu.Unlock()
		slog.Warn("watcher error", slog.String("error", ev.Err.Error()))
	}
}

// rebuild discards the current tree and constructs a fresh one from a full
// walk. Batches that arrive during the walk stage in the pending queue and
// drain FIFO afterwards rather than being applied concurrently. When the
// staged batches themselves force another rescan, the build repeats.
func (ix *Index) rebuild(ctx context.Context, rescan bool) {
	for {
		if !ix.buildOnce(ctx, rescan) {
			return
		}
		if !ix.drainPending() {
			return
		}
		rescan = true
	}
}

// buildOnce performs one walk + construct cycle. Returns false when the
// build failed and the index entered the error state.
func (ix *Index) buildOnce(ctx context.Context, rescan bool) bool {
	ix.mu.Lock()
	ix.state = StateBuilding
	if ix.startedAt.IsZero() {
		ix.startedAt = time.Now()
	}
	if rescan {
		ix.rescanCount++
	}
	ix.mu.Unlock()

	start := time.Now()
	root, stats, err := Walk(ctx, ix.opts.Root, ix.opts.Ignore)
	if err != nil {
		ix.mu.Lock()
		ix.state = StateError
		ix.lastError = err.Error()
		ix.mu.Unlock()
		slog.Error("index build failed",
			slog.String("root", ix.opts.Root),
			slog.String("error", err.Error()))
		return false
	}
	tree := Construct(root, ix.opts.Root, stats)

	ix.mu.Lock()
	ix.tree = tree
	ix.state = StateReady
	now := time.Now()
	ix.finishedAt = now
	ix.lastUpdateAt = now
	ix.mu.Unlock()
	ix.readyOnce.Do(func() { close(ix.readyCh) })

	slog.Info("index built",
		slog.String("root", ix.opts.Root),
		slog.Int("entries", tree.Len()),
		slog.Int("files", stats.Files),
		slog.Int("dirs", stats.Dirs),
		slog.Int("errors", stats.Errors),
		slog.Bool("rescan", rescan),
		slog.Duration("took", time.Since(start)))

	ix.persistResumeToken()
	return true
}

// drainPending stages everything buffered on the event channel, then
// applies the staged batches in FIFO order. Returns true when a staged
// event or an applied root change mandates another rescan; a rescan
// supersedes whatever batches remain.
func (ix *Index) drainPending() (needRescan bool) {
	if ix.backend == nil {
		return false
	}
	for {
		select {
		case ev, ok := <-ix.backend.Events():
			if !ok {
				return false
			}
			switch ev.Kind {
			case watcher.EventPathsChanged:
				ix.pending = append(ix.pending, ev.Paths)
			case watcher.EventRescanRequired:
				ix.pending = nil
				return true
			}
		default:
			batches := ix.pending
			ix.pending = nil
			for _, batch := range batches {
				if ix.applyBatch(batch) {
					return true
				}
			}
			return false
		}
	}
}

// applyBatch coalesces and applies one batch of changed paths. Returns true
// when a full rescan is required (the root itself changed).
func (ix *Index) applyBatch(paths []string) (needRescan bool) {
	coalesced := Coalesce(paths)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.tree == nil || ix.state != StateReady {
		return false
	}
	for _, p := range coalesced {
		if ix.applyPath(p) {
			return true
		}
	}
	ix.lastUpdateAt = time.Now()
	return false
}

// applyPath reconciles one filesystem path against the tree: upsert when
// the entry exists, remove the subtree when it is gone. Returns true when
// the root itself changed and incremental handling is unsafe.
func (ix *Index) applyPath(p string) (needRescan bool) {
	t := ix.tree
	if ix.opts.Ignore.Match(p) {
		return false
	}
	if _, ok := t.relative(p); !ok {
		return false
	}

	info, err := os.Lstat(p)
	if p == t.RootPath {
		// Root vanished or changed type: rebuild from scratch.
		return err != nil || !info.IsDir()
	}

	if err != nil {
		if idx, ok := t.ResolvePath(p); ok {
			t.RemoveSubtree(idx)
		}
		return false
	}

	meta := metadataFromInfo(info)
	if idx, ok := t.ResolvePath(p); ok {
		node := t.Nodes.Get(idx)
		if node.Meta.Type == meta.Type {
			node.Meta = meta
			return false
		}
		// Type flipped (file replaced by dir or vice versa): the old
		// subtree is stale.
		t.RemoveSubtree(idx)
	}
	ix.insertPath(p, meta)
	return false
}

// insertPath inserts the entry at p, creating any missing ancestor chain.
// A directory that was not previously indexed is walked in full: backends
// without per-file delivery for moved-in trees (fsnotify) emit only the top
// directory, and on FSEvents the children events that follow simply find
// their nodes already present.
func (ix *Index) insertPath(p string, meta Metadata) {
	t := ix.tree

	parentPath := filepath.Dir(p)
	parentIdx, ok := t.ResolvePath(parentPath)
	if !ok {
		// Find the deepest indexed ancestor and walk the topmost missing
		// component below it; that subtree covers p.
		missing := parentPath
		for {
			above := filepath.Dir(missing)
			if idx, ok := t.ResolvePath(above); ok {
				ix.insertSubtree(idx, missing)
				return
			}
			if above == missing {
				return
			}
			missing = above
		}
	}

	if meta.Type == EntryFolder {
		ix.insertSubtree(parentIdx, p)
		return
	}
	t.InsertChild(parentIdx, namepool.Intern(filepath.Base(p)), meta)
}

// insertSubtree walks path and grafts the resulting tree under parentIdx
// using the checked insertion path.
func (ix *Index) insertSubtree(parentIdx slab.Index, path string) {
	info, err := os.Lstat(path)
	if err != nil {
		ix.tree.Stats.Errors++
		return
	}
	if !info.IsDir() {
		ix.tree.InsertChild(parentIdx, namepool.Intern(filepath.Base(path)), metadataFromInfo(info))
		return
	}

	node, stats, err := Walk(context.Background(), path, ix.opts.Ignore)
	if err != nil {
		ix.tree.Stats.Errors++
		return
	}
	ix.tree.Stats.Files += stats.Files
	ix.tree.Stats.Dirs += stats.Dirs
	ix.tree.Stats.Errors += stats.Errors
	ix.graft(parentIdx, node)
}

// graft inserts a walked Node tree under parentIdx node by node.
func (ix *Index) graft(parentIdx slab.Index, node *Node) {
	idx := ix.tree.InsertChild(parentIdx, node.Name, node.Meta)
	for _, child := range node.Children {
		ix.graft(idx, child)
	}
}

// Read runs fn against the current tree under a read lock. fn must not
// retain the tree or anything derived from slab pointers past its return.
// Returns false when no tree is available (still building or failed).
func (ix *Index) Read(fn func(*Tree)) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.tree == nil || ix.state == StateError {
		return false
	}
	fn(ix.tree)
	return true
}

// Status returns an immutable snapshot of index state.
func (ix *Index) Status() Status {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	st := Status{
		State:          ix.state,
		Root:           ix.opts.Root,
		IgnoredPaths:   ix.opts.Ignore.Prefixes(),
		StartedAt:      ix.startedAt,
		LastUpdateAt:   ix.lastUpdateAt,
		FinishedAt:     ix.finishedAt,
		WatcherEnabled: ix.backend != nil,
		CachePath:      ix.opts.CachePath,
		RescanCount:    ix.rescanCount,
		LastError:      ix.lastError,
	}
	if ix.tree != nil {
		st.IndexedEntries = ix.tree.Len()
		st.ScannedFiles = ix.tree.Stats.Files
		st.ScannedDirs = ix.tree.Stats.Dirs
		st.Errors = ix.tree.Stats.Errors + ix.watchErrors
	} else {
		st.Errors = ix.watchErrors
	}
	return st
}

// WaitReady blocks until the first successful build or context
// cancellation.
func (ix *Index) WaitReady(ctx context.Context) error {
	select {
	case <-ix.readyCh:
		return nil
	case <-ix.doneCh:
		if st := ix.Status(); st.State == StateError {
			return fmt.Errorf("index build failed: %s", st.LastError)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// persistResumeToken saves the backend's latest event id, when both a
// resume store and an id-capable backend exist.
func (ix *Index) persistResumeToken() {
	if ix.resume == nil || ix.backend == nil {
		return
	}
	id := ix.backend.LastEventID()
	if id == 0 {
		return
	}
	if err := ix.resume.Save(ix.opts.Root, id); err != nil {
		slog.Warn("persist resume token failed",
			slog.String("error", err.Error()))
	}
}

// Close stops the watcher, waits for the owner goroutine, and persists the
// resume token. Safe to call multiple times.
func (ix *Index) Close() error {
	var err error
	ix.stopOnce.Do(func() {
		close(ix.stopCh)
		if ix.backend != nil {
			err = ix.backend.Stop()
		}
		<-ix.doneCh
		ix.persistResumeToken()
	})
	return err
}
