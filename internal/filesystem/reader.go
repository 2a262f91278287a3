package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/filemonitor/pkg/models"
)

// IsSkippable reports whether err means the entry can be dropped and the
// walk continued: access denied, or the entry vanished after being listed.
func IsSkippable(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist)
}

// ReadFileInfo stats path (following symlinks) and returns its metadata.
// The error is returned unwrapped so callers can classify it.
func ReadFileInfo(path string) (*models.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	fileInfo := &models.FileInfo{
		Path:    path,
		Name:    filepath.Base(path),
		Dir:     filepath.Dir(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}

	if !fileInfo.IsDir {
		// Get entered time (platform-dependent)
		fileInfo.EnteredTime = getEnteredTime(path, info)
	}

	return fileInfo, nil
}

// RootName returns the base name used as folder name for files directly in root
func RootName(root string) string {
	name := filepath.Base(filepath.Clean(root))
	if name == "." || name == string(filepath.Separator) {
		if abs, err := filepath.Abs(root); err == nil {
			name = filepath.Base(abs)
		}
	}
	return name
}

// TopLevelFolder returns the first segment of dir relative to root, or the
// root's own name when dir is root itself.
func TopLevelFolder(root, dir string) (string, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return RootName(root), nil
	}

	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first, nil
}
