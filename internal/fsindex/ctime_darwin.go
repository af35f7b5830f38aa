//go:build darwin

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
		return time.Unix(st.Ctimespec.Sec, st.Ctimespec.Nsec)
	}
	return info.ModTime()
}
