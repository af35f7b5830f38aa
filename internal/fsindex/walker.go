package fsindex

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Aman-CERP/filescout/internal/ignore"
	"github.com/Aman-CERP/filescout/internal/namepool"
)

// WalkStats aggregates per-entry outcomes of one walk. Unreadable entries
// are counted and skipped, never fatal; only a broken root aborts.
type WalkStats struct {
	Files  int
	Dirs   int
	Errors int
}

// Walk synchronously traverses the subtree at rootPath into a transient
// Node tree with children sorted by name. Ignored paths are skipped
// entirely. Returns an error only when the root itself cannot be read or
// the context is cancelled.
func Walk(ctx context.Context, rootPath string, ign *ignore.Set) (*Node, WalkStats, error) {
	var stats WalkStats

	info, err := os.Lstat(rootPath)
	if err != nil {
		return nil, stats, err
	}
	if !info.IsDir() {
		return nil, stats, &fs.PathError{Op: "walk", Path: rootPath, Err: fs.ErrInvalid}
	}

	root := &Node{
		Name: namepool.Intern(filepath.Base(rootPath)),
		Meta: metadataFromInfo(info),
	}
	stats.Dirs++

	if err := walkDir(ctx, rootPath, root, ign, &stats); err != nil {
		return nil, stats, err
	}
	return root, stats, nil
}

// walkDir fills node with the children of dirPath. Per-entry failures
// increment the error counter and move on.
func walkDir(ctx context.Context, dirPath string, node *Node, ign *ignore.Set, stats *WalkStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// os.ReadDir returns entries sorted by filename, which construction
	// relies on: preorder over name-sorted children is path order.
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		stats.Errors++
		slog.Debug("unreadable directory skipped",
			slog.String("path", dirPath),
			slog.String("error", err.Error()))
		return nil
	}

	for _, entry := range entries {
		childPath := filepath.Join(dirPath, entry.Name())
		if ign.Match(childPath) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and Lstat.
			stats.Errors++
			continue
		}

		child := &Node{
			Name: namepool.Intern(entry.Name()),
			Meta: metadataFromInfo(info),
		}
		node.Children = append(node.Children, child)

		switch child.Meta.Type {
		case EntryFolder:
			stats.Dirs++
			if err := walkDir(ctx, childPath, child, ign, stats); err != nil {
				return err
			}
		default:
			stats.Files++
		}
	}
	return nil
}

// metadataFromInfo converts an os.FileInfo into index metadata.
func metadataFromInfo(info fs.FileInfo) Metadata {
	m := Metadata{
		Size:  info.Size(),
		MTime: info.ModTime(),
		CTime: changeTime(info),
	}
	switch {
	case info.IsDir():
		m.Type = EntryFolder
		m.Size = 0
	case info.Mode()&fs.ModeSymlink != 0:
		m.Type = EntrySymlink
	default:
		m.Type = EntryFile
	}
	return m
}
