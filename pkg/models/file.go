package models

import (
	"time"
)

// TimestampLayout is the layout used for every date column in reports
const TimestampLayout = "2006-01-02 15:04:05"

// FileInfo contains the metadata read for one walked entry
type FileInfo struct {
	Path        string    // Path as built during traversal (root joined with entry names)
	Name        string    // Base name
	Dir         string    // Containing directory, same form as Path
	Size        int64     // Size in bytes (of the symlink target when followed)
	ModTime     time.Time // Modification time
	EnteredTime time.Time // Birth time if the platform has one, otherwise ctime
	IsDir       bool
	IsSymlink   bool
}

// FileRecord is one row of the date-range report
type FileRecord struct {
	FolderName   string    // Top-level folder under the scan root
	FileName     string    // Base name
	FullPath     string    // Path as built during traversal
	ModifiedDate time.Time // Last modification
	EnteredDate  time.Time // Creation or metadata change, platform dependent
}

// ModifiedString returns ModifiedDate in report format
func (r FileRecord) ModifiedString() string {
	return r.ModifiedDate.Format(TimestampLayout)
}

// EnteredString returns EnteredDate in report format
func (r FileRecord) EnteredString() string {
	return r.EnteredDate.Format(TimestampLayout)
}

// InRange reports whether t lies in [begin, end], both bounds inclusive
func InRange(t, begin, end time.Time) bool {
	return !t.Before(begin) && !t.After(end)
}
