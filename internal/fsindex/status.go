package fsindex

import "time"

// State is the lifecycle state of an Index.
type State string

const (
	// StateBuilding means the initial walk or a rescan is in progress.
	StateBuilding State = "building"
	// StateReady means the index is serving queries and applying
	// incremental updates.
	StateReady State = "ready"
	// StateError means the last build failed; the index is unusable.
	StateError State = "error"
)

// Status is an immutable snapshot of index state for external callers.
type Status struct {
	State          State     `json:"state"`
	Root           string    `json:"root"`
	IgnoredPaths   []string  `json:"ignored_paths,omitempty"`
	IndexedEntries int       `json:"indexed_entries"`
	ScannedFiles   int       `json:"scanned_files"`
	ScannedDirs    int       `json:"scanned_dirs"`
	StartedAt      time.Time `json:"started_at"`
	LastUpdateAt   time.Time `json:"last_update_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Errors         int       `json:"errors"`
	WatcherEnabled bool      `json:"watcher_enabled"`
	CachePath      string    `json:"cache_path,omitempty"`
	RescanCount    int       `json:"rescan_count"`
	LastError      string    `json:"last_error,omitempty"`
}
