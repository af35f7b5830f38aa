//go:build darwin

package watcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
)

// fseventsBackend wraps the FSEvents C API through purego. The stream is an
// owned RAII-style resource: the callback is registered at construction,
// every callback payload is converted into owned Go values before leaving
// the FFI boundary, and Stop tears down the stream and its run-loop thread.
//
// FSEvents delivers a monotonically increasing 64-bit event id with every
// event. The backend accepts a persisted id (Options.SinceEventID) and asks
// the kernel to replay history after it, so a restarted process can skip a
// full rewalk; the flagHistoryDone marker signals when replay has caught up
// to the present.
type fseventsBackend struct {
	root     string
	opts     Options
	events   chan Event
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
	started  bool

	handle  uintptr // key into the callback registry
	lastID  atomic.Uint64
	runLoop atomic.Uintptr // CFRunLoopRef of the producer thread

	// C resources, owned by the producer thread after Start.
	ctx streamContext
}

// streamContext mirrors FSEventStreamContext. Only info is used; it carries
// the registry handle back into Go on every callback.
type streamContext struct {
	version         uintptr
	info            uintptr
	retain          uintptr
	release         uintptr
	copyDescription uintptr
}

// FSEventStreamCreate flag bits.
const (
	createFlagNoDefer    uint32 = 0x00000002
	createFlagWatchRoot  uint32 = 0x00000004
	createFlagFileEvents uint32 = 0x00000010
)

// sinceNowID is kFSEventStreamEventIdSinceNow.
const sinceNowID = ^uint64(0)

const utf8Encoding uint32 = 0x08000100 // kCFStringEncodingUTF8

// Lazily bound C entry points, shared by all streams in the process.
var (
	ffiOnce sync.Once
	ffiErr  error

	cfStringCreateWithCString func(alloc uintptr, cstr *byte, encoding uint32) uintptr
	cfArrayCreate             func(alloc uintptr, values *uintptr, count int64, callbacks uintptr) uintptr
	cfRelease                 func(ref uintptr)
	cfRunLoopGetCurrent       func() uintptr
	cfRunLoopRun              func()
	cfRunLoopStop             func(rl uintptr)

	fsStreamCreate              func(alloc uintptr, callback uintptr, ctx uintptr, paths uintptr, since uint64, latency float64, flags uint32) uintptr
	fsStreamScheduleWithRunLoop func(stream, runLoop, mode uintptr)
	fsStreamStart               func(stream uintptr) bool
	fsStreamStop                func(stream uintptr)
	fsStreamInvalidate          func(stream uintptr)
	fsStreamRelease             func(stream uintptr)
	fsGetCurrentEventID         func() uint64

	defaultRunLoopMode uintptr
	typeArrayCallbacks uintptr
	streamCallback     uintptr
)

// callback registry: FSEvents hands back only the raw info pointer, so the
// backend is looked up by handle instead of passing a Go pointer through C.
var (
	registryMu sync.Mutex
	registry   = make(map[uintptr]*fseventsBackend)
	nextHandle uintptr
)

func bindFFI() error {
	ffiOnce.Do(func() {
		cf, err := purego.Dlopen("/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			ffiErr = fmt.Errorf("load CoreFoundation: %w", err)
			return
		}
		cs, err := purego.Dlopen("/System/Library/Frameworks/CoreServices.framework/CoreServices", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			ffiErr = fmt.Errorf("load CoreServices: %w", err)
			return
		}

		purego.RegisterLibFunc(&cfStringCreateWithCString, cf, "CFStringCreateWithCString")
		purego.RegisterLibFunc(&cfArrayCreate, cf, "CFArrayCreate")
		purego.RegisterLibFunc(&cfRelease, cf, "CFRelease")
		purego.RegisterLibFunc(&cfRunLoopGetCurrent, cf, "CFRunLoopGetCurrent")
		purego.RegisterLibFunc(&cfRunLoopRun, cf, "CFRunLoopRun")
		purego.RegisterLibFunc(&cfRunLoopStop, cf, "CFRunLoopStop")

		purego.RegisterLibFunc(&fsStreamCreate, cs, "FSEventStreamCreate")
		purego.RegisterLibFunc(&fsStreamScheduleWithRunLoop, cs, "FSEventStreamScheduleWithRunLoop")
		purego.RegisterLibFunc(&fsStreamStart, cs, "FSEventStreamStart")
		purego.RegisterLibFunc(&fsStreamStop, cs, "FSEventStreamStop")
		purego.RegisterLibFunc(&fsStreamInvalidate, cs, "FSEventStreamInvalidate")
		purego.RegisterLibFunc(&fsStreamRelease, cs, "FSEventStreamRelease")
		purego.RegisterLibFunc(&fsGetCurrentEventID, cs, "FSEventsGetCurrentEventId")

		modeSym, err := purego.Dlsym(cf, "kCFRunLoopDefaultMode")
		if err != nil {
			ffiErr = fmt.Errorf("resolve kCFRunLoopDefaultMode: %w", err)
			return
		}
		defaultRunLoopMode = *(*uintptr)(unsafe.Pointer(modeSym))

		cbSym, err := purego.Dlsym(cf, "kCFTypeArrayCallBacks")
		if err != nil {
			ffiErr = fmt.Errorf("resolve kCFTypeArrayCallBacks: %w", err)
			return
		}
		typeArrayCallbacks = cbSym

		streamCallback = purego.NewCallback(onStreamEvents)
	})
	return ffiErr
}

// newPlatformBackend creates the FSEvents backend for root.
func newPlatformBackend(root string, opts Options) (Backend, error) {
	if err := bindFFI(); err != nil {
		return nil, err
	}
	b := &fseventsBackend{
		root:   root,
		opts:   opts,
		events: make(chan Event, opts.EventBuffer),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	registryMu.Lock()
	nextHandle++
	b.handle = nextHandle
	registry[b.handle] = b
	registryMu.Unlock()

	return b, nil
}

// CurrentEventID returns the kernel's current FSEvents id, for callers that
// want a resume point before any stream exists.
func CurrentEventID() (uint64, error) {
	if err := bindFFI(); err != nil {
		return 0, err
	}
	return fsGetCurrentEventID(), nil
}

func (b *fseventsBackend) Start(ctx context.Context) error {
	ready := make(chan error, 1)

	// The stream lives on a dedicated OS thread running a CFRunLoop; the
	// callback fires on that thread and only ever sends owned events.
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(b.doneCh)

		stream, cleanup, err := b.createStream()
		if err != nil {
			ready <- err
			return
		}
		defer cleanup()

		rl := cfRunLoopGetCurrent()
		b.runLoop.Store(rl)
		fsStreamScheduleWithRunLoop(stream, rl, defaultRunLoopMode)
		if !fsStreamStart(stream) {
			fsStreamInvalidate(stream)
			fsStreamRelease(stream)
			ready <- fmt.Errorf("fsevents: stream start failed for %s", b.root)
			return
		}
		ready <- nil

		cfRunLoopRun()

		fsStreamStop(stream)
		fsStreamInvalidate(stream)
		fsStreamRelease(stream)
	}()

	if err := <-ready; err != nil {
		return err
	}
	b.started = true

	go func() {
		select {
		case <-ctx.Done():
			_ = b.Stop()
		case <-b.stopCh:
		}
	}()
	return nil
}

// createStream builds the CFArray of watched paths and the event stream.
// The returned cleanup releases the path array; the stream itself is
// released by the run-loop thread after CFRunLoopRun returns.
func (b *fseventsBackend) createStream() (uintptr, func(), error) {
	cstr := append([]byte(b.root), 0)
	cfPath := cfStringCreateWithCString(0, &cstr[0], utf8Encoding)
	if cfPath == 0 {
		return 0, nil, fmt.Errorf("fsevents: CFString creation failed for %s", b.root)
	}
	values := []uintptr{cfPath}
	cfPaths := cfArrayCreate(0, &values[0], 1, typeArrayCallbacks)
	cfRelease(cfPath) // retained by the array
	if cfPaths == 0 {
		return 0, nil, fmt.Errorf("fsevents: CFArray creation failed")
	}

	since := b.opts.SinceEventID
	if since == 0 {
		since = sinceNowID
	}

	b.ctx = streamContext{info: b.handle}
	stream := fsStreamCreate(
		0,
		streamCallback,
		uintptr(unsafe.Pointer(&b.ctx)),
		cfPaths,
		since,
		b.opts.DebounceWindow.Seconds(),
		createFlagNoDefer|createFlagWatchRoot|createFlagFileEvents,
	)
	if stream == 0 {
		cfRelease(cfPaths)
		return 0, nil, fmt.Errorf("fsevents: stream creation failed for %s", b.root)
	}
	return stream, func() { cfRelease(cfPaths) }, nil
}

// onStreamEvents is the C callback. It runs on the run-loop thread and must
// copy everything it needs out of C memory before returning.
func onStreamEvents(stream, info, numEvents, eventPaths, eventFlags, eventIDs uintptr) uintptr {
	registryMu.Lock()
	b := registry[info]
	registryMu.Unlock()
	if b == nil || numEvents == 0 {
		return 0
	}

	n := int(numEvents)
	paths := unsafe.Slice((**byte)(unsafe.Pointer(eventPaths)), n)
	flags := unsafe.Slice((*uint32)(unsafe.Pointer(eventFlags)), n)
	ids := unsafe.Slice((*uint64)(unsafe.Pointer(eventIDs)), n)

	var changed []string
	rescan := false
	historyDone := false
	for i := 0; i < n; i++ {
		if ids[i] > b.lastID.Load() {
			b.lastID.Store(ids[i])
		}
		switch classifyFlags(flags[i]) {
		case classNop:
			continue
		case classHistoryDone:
			historyDone = true
		case classRescan:
			rescan = true
		case classFolder, classSingleNode:
			p := goString(paths[i])
			if b.opts.Ignore.Match(p) {
				continue
			}
			changed = append(changed, p)
		}
	}

	// A rescan supersedes the individual paths in this batch.
	if rescan {
		b.send(Event{Kind: EventRescanRequired, ID: b.lastID.Load()})
	} else if len(changed) > 0 {
		b.send(Event{Kind: EventPathsChanged, Paths: changed, ID: b.lastID.Load()})
	}
	if historyDone {
		b.send(Event{Kind: EventHistoryDone, ID: b.lastID.Load()})
	}
	return 0
}

// goString copies a NUL-terminated C string into a Go string.
func goString(c *byte) string {
	if c == nil {
		return ""
	}
	ptr := unsafe.Pointer(c)
	var n int
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice(c, n))
}

func (b *fseventsBackend) send(ev Event) {
	select {
	case b.events <- ev:
	case <-b.stopCh:
	}
}

func (b *fseventsBackend) Events() <-chan Event {
	return b.events
}

func (b *fseventsBackend) LastEventID() uint64 {
	return b.lastID.Load()
}

func (b *fseventsBackend) Stop() error {
	b.stopOnce.Do(func() {
		close(b.stopCh)
		if rl := b.runLoop.Load(); rl != 0 {
			cfRunLoopStop(rl)
		}
		if b.started {
			<-b.doneCh
		}
		registryMu.Lock()
		delete(registry, b.handle)
		registryMu.Unlock()
		close(b.events)
	})
	return nil
}
