//go:build !linux && !darwin && !freebsd && !netbsd && !windows

package filesystem

import (
	"os"
	"time"
)

// getEnteredTime falls back to the modification time where no portable
// creation or change time is exposed
func getEnteredTime(path string, info os.FileInfo) time.Time {
	return info.ModTime()
}
