//go:build linux

package filesystem

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// getEnteredTime returns the birth time via statx when the filesystem
// records one, otherwise the inode change time (Linux)
func getEnteredTime(path string, info os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return getChangeTime(info)
}

// getChangeTime gets the change time from FileInfo
func getChangeTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Ctim.Unix())
}
