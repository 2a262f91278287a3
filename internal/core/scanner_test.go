package core

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/IvanShishkin/filemonitor/internal/config"
	"github.com/IvanShishkin/filemonitor/internal/filesystem"
	"github.com/IvanShishkin/filemonitor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	rangeBegin = time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	rangeEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local)
)

// writeFile creates root/rel with the given modification time
func writeFile(t *testing.T, root, rel string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(rel), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func newTestScanner(t *testing.T, exclude ...string) *Scanner {
	t.Helper()
	return NewScanner(&config.Config{Exclude: exclude}, zaptest.NewLogger(t))
}

// byName indexes records by file name
func byName(records []models.FileRecord) map[string]models.FileRecord {
	m := make(map[string]models.FileRecord, len(records))
	for _, r := range records {
		m[r.FileName] = r
	}
	return m
}

func TestScanner_NewScanner(t *testing.T) {
	cfg := &config.Config{Exclude: []string{".git"}}
	logger := zaptest.NewLogger(t)
	scanner := NewScanner(cfg, logger)

	require.NotNil(t, scanner)
	assert.Same(t, cfg, scanner.config)
	assert.Same(t, logger, scanner.logger)
	assert.NotNil(t, scanner.walker)
	assert.Nil(t, scanner.Results())
}

func TestScanner_Scan_Scenario(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	report := writeFile(t, root, "2024/report.txt", time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local))
	writeFile(t, root, "archive/old.txt", time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local))

	records, err := newTestScanner(t).Scan(context.Background(), root, rangeBegin, rangeEnd)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "2024", rec.FolderName)
	assert.Equal(t, "report.txt", rec.FileName)
	assert.Equal(t, report, rec.FullPath)
	assert.Equal(t, "2024-06-15 10:00:00", rec.ModifiedString())
	assert.False(t, rec.EnteredDate.IsZero())
}

func TestScanner_Scan_FilterCorrectness(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name     string
		mtime    time.Time
		included bool
	}{
		{"before.txt", rangeBegin.Add(-time.Second), false},
		{"long-before.txt", time.Date(1999, 3, 3, 3, 3, 3, 0, time.Local), false},
		{"at-begin.txt", rangeBegin, true},
		{"inside.txt", time.Date(2024, 7, 1, 12, 0, 0, 0, time.Local), true},
		{"at-end.txt", rangeEnd, true},
		{"after.txt", rangeEnd.Add(time.Second), false},
		{"end-of-last-day.txt", time.Date(2024, 12, 31, 10, 0, 0, 0, time.Local), false},
	}
	for _, tt := range tests {
		writeFile(t, root, "mixed/"+tt.name, tt.mtime)
	}

	scanner := newTestScanner(t)
	records, err := scanner.Scan(context.Background(), root, rangeBegin, rangeEnd)
	require.NoError(t, err)

	got := byName(records)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := got[tt.name]
			assert.Equal(t, tt.included, ok)
		})
	}

	stats := scanner.Results().Stats
	assert.Equal(t, len(tests), stats.TotalFiles)
	assert.Equal(t, 3, stats.MatchedFiles)
	assert.Equal(t, 2, stats.TotalDirs) // root and mixed
}

func TestScanner_Scan_FolderDerivation(t *testing.T) {
	root := filepath.Join(t.TempDir(), "share")
	mtime := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	writeFile(t, root, "c.txt", mtime)
	writeFile(t, root, "a/b/c2.txt", mtime)
	writeFile(t, root, "a/x/y/z/deep.txt", mtime)
	writeFile(t, root, "b/top.txt", mtime)

	records, err := newTestScanner(t).Scan(context.Background(), root, rangeBegin, rangeEnd)
	require.NoError(t, err)
	require.Len(t, records, 4)

	got := byName(records)
	assert.Equal(t, "share", got["c.txt"].FolderName)
	assert.Equal(t, "a", got["c2.txt"].FolderName)
	assert.Equal(t, "a", got["deep.txt"].FolderName)
	assert.Equal(t, "b", got["top.txt"].FolderName)
}

func TestScanner_Scan_DuplicateNames(t *testing.T) {
	root := t.TempDir()
	mtime := time.Date(2024, 5, 5, 5, 5, 5, 0, time.Local)
	writeFile(t, root, "one/notes.txt", mtime)
	writeFile(t, root, "two/notes.txt", mtime)

	records, err := newTestScanner(t).Scan(context.Background(), root, rangeBegin, rangeEnd)
	require.NoError(t, err)
	require.Len(t, records, 2)

	folders := []string{records[0].FolderName, records[1].FolderName}
	assert.ElementsMatch(t, []string{"one", "two"}, folders)
}

func TestScanner_Scan_TraversalOrder(t *testing.T) {
	root := t.TempDir()
	mtime := time.Date(2024, 2, 2, 0, 0, 0, 0, time.Local)
	writeFile(t, root, "b/2.txt", mtime)
	writeFile(t, root, "a/1.txt", mtime)
	writeFile(t, root, "c.txt", mtime)

	records, err := newTestScanner(t).Scan(context.Background(), root, rangeBegin, rangeEnd)
	require.NoError(t, err)

	var names []string
	for _, r := range records {
		names = append(names, r.FileName)
	}
	// filepath.WalkDir visits entries in lexical order
	assert.Equal(t, []string{"1.txt", "2.txt", "c.txt"}, names)
}

func TestScanner_Scan_InvertedRange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/file.txt", time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local))

	records, err := newTestScanner(t).Scan(context.Background(), root, rangeEnd, rangeBegin)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestScanner_Scan_EmptyDirectory(t *testing.T) {
	scanner := newTestScanner(t)
	records, err := scanner.Scan(context.Background(), t.TempDir(), rangeBegin, rangeEnd)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, scanner.Results().Stats.TotalFiles)
}

func TestScanner_Scan_SkipsPermissionErrors(t *testing.T) {
	root := t.TempDir()
	mtime := time.Date(2024, 8, 8, 8, 8, 8, 0, time.Local)
	writeFile(t, root, "a/1-first.txt", mtime)
	locked := writeFile(t, root, "a/2-locked.txt", mtime)
	writeFile(t, root, "a/3-after.txt", mtime)
	writeFile(t, root, "b/next-dir.txt", mtime)

	scanner := newTestScanner(t)
	scanner.SetStatFunc(func(path string) (*models.FileInfo, error) {
		if path == locked {
			return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrPermission}
		}
		return filesystem.ReadFileInfo(path)
	})

	records, err := scanner.Scan(context.Background(), root, rangeBegin, rangeEnd)
	require.NoError(t, err)

	got := byName(records)
	assert.Len(t, got, 3)
	assert.NotContains(t, got, "2-locked.txt")
	assert.Contains(t, got, "3-after.txt")
	assert.Contains(t, got, "next-dir.txt")

	stats := scanner.Results().Stats
	assert.Equal(t, 1, stats.SkippedEntries)
	assert.Equal(t, []string{locked}, stats.SkippedPaths)
}

func TestScanner_Scan_UnexpectedErrorAborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/file.txt", time.Date(2024, 8, 8, 0, 0, 0, 0, time.Local))
	ioErr := errors.New("input/output error")

	scanner := newTestScanner(t)
	scanner.SetStatFunc(func(path string) (*models.FileInfo, error) {
		return nil, ioErr
	})

	records, err := scanner.Scan(context.Background(), root, rangeBegin, rangeEnd)
	require.Error(t, err)
	assert.ErrorIs(t, err, ioErr)
	assert.Nil(t, records)
}

func TestScanner_Scan_Exclude(t *testing.T) {
	root := t.TempDir()
	mtime := time.Date(2024, 4, 4, 0, 0, 0, 0, time.Local)
	writeFile(t, root, "src/main.txt", mtime)
	writeFile(t, root, "src/.git/HEAD", mtime)

	records, err := newTestScanner(t, ".git").Scan(context.Background(), root, rangeBegin, rangeEnd)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "main.txt", records[0].FileName)
}

func TestScanner_Scan_Reused(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/file.txt", time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local))

	scanner := newTestScanner(t)
	for i := 0; i < 2; i++ {
		records, err := scanner.Scan(context.Background(), root, rangeBegin, rangeEnd)
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, 1, scanner.Results().Stats.TotalFiles)
	}
}

func TestScanner_Scan_SymlinkRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}

	tmp := t.TempDir()
	target := filepath.Join(tmp, "real")
	writeFile(t, target, "2024/report.txt", time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local))
	writeFile(t, target, "top.txt", time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local))
	root := filepath.Join(tmp, "data")
	require.NoError(t, os.Symlink(target, root))

	records, err := newTestScanner(t).Scan(context.Background(), root, rangeBegin, rangeEnd)
	require.NoError(t, err)
	require.Len(t, records, 2)

	got := byName(records)
	assert.Equal(t, "2024", got["report.txt"].FolderName)
	assert.Equal(t, filepath.Join(root, "2024", "report.txt"), got["report.txt"].FullPath)
	assert.Equal(t, "data", got["top.txt"].FolderName)
	assert.Equal(t, filepath.Join(root, "top.txt"), got["top.txt"].FullPath)
}

func TestScanner_Scan_FileRoot(t *testing.T) {
	root := t.TempDir()
	file := writeFile(t, root, "lonely.txt", time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local))

	scanner := newTestScanner(t)
	records, err := scanner.Scan(context.Background(), file, rangeBegin, rangeEnd)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, scanner.Results().Stats.TotalFiles)
}
