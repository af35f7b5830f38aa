// Package fsindex maintains a live, in-memory index of a directory subtree.
// A synchronous walk produces a transient Node tree; construction turns that
// tree into a compact slab of nodes plus a name index; the watcher-driven
// service keeps the slab synchronized with real filesystem changes.
package fsindex

import (
	"time"

	"github.com/Aman-CERP/filescout/internal/slab"
)

// EntryType classifies a filesystem entry.
type EntryType uint8

const (
	// EntryFile is a regular file (or anything that is not a directory).
	EntryFile EntryType = iota
	// EntryFolder is a directory.
	EntryFolder
	// EntrySymlink is a symbolic link. Links are indexed as leaves and
	// never followed.
	EntrySymlink
)

// String returns a human-readable representation of the entry type.
func (t EntryType) String() string {
	switch t {
	case EntryFile:
		return "file"
	case EntryFolder:
		return "folder"
	case EntrySymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Metadata is the per-entry metadata kept in the index.
type Metadata struct {
	Type  EntryType
	Size  int64
	CTime time.Time
	MTime time.Time
}

// Node is the transient result of a directory walk. Children are sorted by
// name. Node trees exist only between a walk and construction; the live
// index never references them.
type Node struct {
	Name     string
	Meta     Metadata
	Children []*Node
}

// SlabNode is one filesystem entry in the live index. Parent and children
// are slab indices; Name is interned. The root node has no parent, and
// every child's Parent field points back at the node owning it.
type SlabNode struct {
	Parent   slab.OptionIndex
	Name     string
	Meta     Metadata
	Children []slab.Index // sorted by child name
}
