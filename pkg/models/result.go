package models

import "time"

// ScanResults contains the outcome of one date-range scan
type ScanResults struct {
	// Summary
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	ScanPath  string
	Begin     time.Time
	End       time.Time

	// Matching files, in traversal order
	Records []FileRecord

	// Statistics
	Stats *ScanStatistics

	// Report path
	ReportPath string
}

// ScanStatistics contains traversal counters
type ScanStatistics struct {
	TotalFiles   int
	TotalDirs    int
	MatchedFiles int
	MatchedSize  int64

	// Entries skipped on permission or not-found errors
	SkippedEntries int
	SkippedPaths   []string
}

// AddRecord appends a matching record and updates the counters
func (r *ScanResults) AddRecord(rec FileRecord, size int64) {
	r.Records = append(r.Records, rec)
	if r.Stats == nil {
		r.Stats = &ScanStatistics{}
	}
	r.Stats.MatchedFiles++
	r.Stats.MatchedSize += size
}

// AddSkipped records an entry that could not be read
func (r *ScanResults) AddSkipped(path string) {
	if r.Stats == nil {
		r.Stats = &ScanStatistics{}
	}
	r.Stats.SkippedEntries++
	r.Stats.SkippedPaths = append(r.Stats.SkippedPaths, path)
}
