//go:build linux

package fsindex

import (
	"io/fs"
	"syscall"
	"time"
)

// changeTime extracts the inode change time from the platform stat data,
// falling back to the modification time when unavailable.
func changeTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime()
}
