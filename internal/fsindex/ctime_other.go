//go:build !linux && !darwin

package fsindex

import (
	"io/fs"
	"time"
)

// changeTime falls back to the modification time on platforms without a
// portable inode change time.
func changeTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
