//go:build darwin || freebsd || netbsd

package filesystem

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// getEnteredTime returns the birth time, falling back to the change time (BSD family)
func getEnteredTime(path string, info os.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err == nil {
		return time.Unix(st.Btim.Unix())
	}
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Ctimespec.Unix())
	}
	return info.ModTime()
}
