// Package namepool provides a process-wide interned string table for file
// and directory names. Filesystem trees repeat the same names thousands of
// times ("main.go", "index.js", "node_modules"); interning collapses them to
// a single allocation shared by every node.
//
// The pool is append-only: interned strings live for the rest of the
// process. Returned strings are plain Go strings and need no further
// synchronization to read.
package namepool

import "sync"

// pool is the global interning table. Reads vastly outnumber writes once an
// index has warmed up, so an RWMutex keeps the common path cheap.
type pool struct {
	mu    sync.RWMutex
	names map[string]string
}

var global = &pool{names: make(map[string]string, 4096)}

// Intern returns the canonical copy of name, adding it to the pool on first
// sight. The returned string is valid for the process lifetime.
func Intern(name string) string {
	global.mu.RLock()
	if canon, ok := global.names[name]; ok {
		global.mu.RUnlock()
		return canon
	}
	global.mu.RUnlock()

	global.mu.Lock()
	defer global.mu.Unlock()
	if canon, ok := global.names[name]; ok {
		return canon
	}
	// Clone so we never pin a larger backing array (name may be a slice of
	// a path buffer).
	canon := string(append([]byte(nil), name...))
	global.names[canon] = canon
	return canon
}

// Size returns the number of distinct names interned so far.
func Size() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return len(global.names)
}
