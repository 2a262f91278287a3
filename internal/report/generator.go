package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/IvanShishkin/filemonitor/pkg/models"
	"go.uber.org/zap"
)

// Operator notices
const (
	NoticeEmpty   = "No files found in the specified date range."
	NoticeWritten = "Report generated successfully at: %s"
)

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		// Milliseconds
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		// Seconds
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		// Minutes and seconds
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	// Hours, minutes and seconds
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// DefaultOutputFile returns the report name used when no output path is configured
func DefaultOutputFile(now time.Time) string {
	return fmt.Sprintf("FILE-REPORT-%s.xlsx", now.Format("20060102-150405"))
}

// Generator writes date-range reports
type Generator struct {
	logger *zap.Logger
	out    io.Writer
}

// NewGenerator creates a new report generator printing notices to stdout
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{
		logger: logger,
		out:    os.Stdout,
	}
}

// SetOutput redirects operator notices
func (g *Generator) SetOutput(w io.Writer) {
	g.out = w
}

// Generate writes records to outputFile as a spreadsheet and returns its
// absolute path. With no records nothing is written and "" is returned.
func (g *Generator) Generate(records []models.FileRecord, outputFile string) (string, error) {
	if len(records) == 0 {
		fmt.Fprintln(g.out, NoticeEmpty)
		return "", nil
	}

	// Generate default filename if not specified
	if outputFile == "" {
		outputFile = DefaultOutputFile(time.Now())
	}

	g.logger.Info("Generating report",
		zap.String("output", outputFile),
		zap.Int("rows", len(records)))

	if err := g.generateXLSX(records, outputFile); err != nil {
		return "", fmt.Errorf("failed to generate report %s: %w", outputFile, err)
	}

	fmt.Fprintf(g.out, NoticeWritten+"\n", outputFile)

	// Get absolute path
	absPath, err := filepath.Abs(outputFile)
	if err != nil {
		return outputFile, nil
	}
	return absPath, nil
}

// FolderCount is the number of matching files under one top-level folder
type FolderCount struct {
	Folder string
	Files  int
}

// Summarize groups records by folder name, in first-seen order
func Summarize(records []models.FileRecord) []FolderCount {
	index := make(map[string]int)
	var counts []FolderCount
	for _, r := range records {
		i, ok := index[r.FolderName]
		if !ok {
			i = len(counts)
			index[r.FolderName] = i
			counts = append(counts, FolderCount{Folder: r.FolderName})
		}
		counts[i].Files++
	}
	return counts
}
