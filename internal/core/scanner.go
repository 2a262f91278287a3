package core

import (
	"context"
	"fmt"
	"time"

	"github.com/IvanShishkin/filemonitor/internal/config"
	"github.com/IvanShishkin/filemonitor/internal/filesystem"
	"github.com/IvanShishkin/filemonitor/pkg/models"
	"go.uber.org/zap"
)

// Scanner finds files modified inside a date range
type Scanner struct {
	config  *config.Config
	logger  *zap.Logger
	walker  *filesystem.Walker
	results *models.ScanResults
}

// NewScanner creates a new scanner instance
func NewScanner(cfg *config.Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		config: cfg,
		logger: logger,
		walker: filesystem.NewWalker(cfg.Exclude, logger),
	}
}

// SetStatFunc replaces the metadata reader used by the walker
func (s *Scanner) SetStatFunc(fn filesystem.StatFunc) {
	s.walker.SetStatFunc(fn)
}

// Results returns the results of the last Scan call
func (s *Scanner) Results() *models.ScanResults {
	return s.results
}

// Scan walks root and returns a record for every file with
// begin <= modification time <= end, in traversal order.
// Unreadable entries are skipped; any other error aborts the scan.
func (s *Scanner) Scan(ctx context.Context, root string, begin, end time.Time) ([]models.FileRecord, error) {
	s.logger.Info("Starting scan",
		zap.String("path", root),
		zap.Time("begin", begin),
		zap.Time("end", end))

	s.results = &models.ScanResults{
		StartTime: time.Now(),
		ScanPath:  root,
		Begin:     begin,
		End:       end,
		Stats:     &models.ScanStatistics{},
	}
	if end.Before(begin) {
		s.logger.Warn("End date is before begin date, nothing can match",
			zap.Time("begin", begin),
			zap.Time("end", end))
	}

	s.walker.SetSkipCallback(func(path string, err error) {
		s.results.AddSkipped(path)
	})

	err := s.walker.Walk(ctx, root, func(fileInfo *models.FileInfo) error {
		if fileInfo.IsDir {
			s.results.Stats.TotalDirs++
			return nil
		}
		s.results.Stats.TotalFiles++

		if !models.InRange(fileInfo.ModTime, begin, end) {
			return nil
		}

		folder, err := filesystem.TopLevelFolder(root, fileInfo.Dir)
		if err != nil {
			return fmt.Errorf("failed to resolve folder of %s: %w", fileInfo.Path, err)
		}

		s.results.AddRecord(models.FileRecord{
			FolderName:   folder,
			FileName:     fileInfo.Name,
			FullPath:     fileInfo.Path,
			ModifiedDate: fileInfo.ModTime,
			EnteredDate:  fileInfo.EnteredTime,
		}, fileInfo.Size)
		return nil
	})

	s.results.EndTime = time.Now()
	s.results.Duration = s.results.EndTime.Sub(s.results.StartTime)

	if err != nil {
		s.logger.Error("Scan failed", zap.String("path", root), zap.Error(err))
		return nil, fmt.Errorf("scan of %s failed: %w", root, err)
	}

	s.logger.Info("Scan completed",
		zap.Duration("duration", s.results.Duration),
		zap.Int("files_seen", s.results.Stats.TotalFiles),
		zap.Int("files_matched", s.results.Stats.MatchedFiles),
		zap.Int("entries_skipped", s.results.Stats.SkippedEntries))

	return s.results.Records, nil
}
