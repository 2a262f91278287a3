package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/filemonitor/pkg/models"
	"go.uber.org/zap"
)

// StatFunc reads the metadata of a single file, following symlinks
type StatFunc func(path string) (*models.FileInfo, error)

// SkipCallback is called for every entry dropped because of a skippable error
type SkipCallback func(path string, err error)

// Walker walks the filesystem and reports every file with its timestamps
type Walker struct {
	logger  *zap.Logger
	exclude map[string]bool
	stat    StatFunc
	onSkip  SkipCallback
}

// NewWalker creates a new filesystem walker.
// exclude holds directory names that are never descended into.
func NewWalker(exclude []string, logger *zap.Logger) *Walker {
	// Build exclude map for fast lookup
	ex := make(map[string]bool, len(exclude))
	for _, dir := range exclude {
		if dir != "" {
			ex[dir] = true
		}
	}

	return &Walker{
		logger:  logger,
		exclude: ex,
		stat:    ReadFileInfo,
	}
}

// SetStatFunc replaces the metadata reader
func (w *Walker) SetStatFunc(fn StatFunc) {
	if fn != nil {
		w.stat = fn
	}
}

// SetSkipCallback sets the function notified about skipped entries
func (w *Walker) SetSkipCallback(cb SkipCallback) {
	w.onSkip = cb
}

// Walk recursively walks the directory tree rooted at root.
// Directories are passed to callback with IsDir set; files carry their times.
// Permission and not-found errors drop the entry, anything else stops the walk.
func (w *Walker) Walk(ctx context.Context, root string, callback func(*models.FileInfo) error) error {
	root, ok, err := w.resolveRoot(root)
	if err != nil || !ok {
		return err
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if IsSkippable(err) {
				w.skip(path, err)
				return nil
			}
			return fmt.Errorf("failed to walk %s: %w", path, err)
		}

		if d.IsDir() {
			if path != root && w.exclude[d.Name()] {
				w.logger.Debug("Skipping excluded directory", zap.String("path", path))
				return filepath.SkipDir
			}
			return callback(&models.FileInfo{
				Path:  path,
				Name:  d.Name(),
				Dir:   filepath.Dir(path),
				IsDir: true,
			})
		}

		info, err := w.stat(path)
		if err != nil {
			if IsSkippable(err) {
				w.skip(path, err)
				return nil
			}
			return fmt.Errorf("failed to read metadata of %s: %w", path, err)
		}

		// Symlinked directories are neither descended nor reported
		if info.IsDir {
			return nil
		}
		info.IsSymlink = d.Type()&fs.ModeSymlink != 0

		return callback(info)
	})
}

// resolveRoot returns the path to hand to filepath.WalkDir and whether there
// is anything to walk. A symlinked root gets a trailing separator so WalkDir
// descends into its target; a root that is not a directory yields nothing.
func (w *Walker) resolveRoot(root string) (string, bool, error) {
	info, err := os.Lstat(root)
	if err != nil {
		if IsSkippable(err) {
			w.skip(root, err)
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		info, err = os.Stat(root)
		if err != nil {
			if IsSkippable(err) {
				w.skip(root, err)
				return "", false, nil
			}
			return "", false, fmt.Errorf("failed to resolve %s: %w", root, err)
		}
		if info.IsDir() && !strings.HasSuffix(root, string(filepath.Separator)) {
			root += string(filepath.Separator)
		}
	}

	if !info.IsDir() {
		w.logger.Debug("Root is not a directory, nothing to walk", zap.String("path", root))
		return "", false, nil
	}

	return root, true, nil
}

// skip logs a dropped entry and notifies the skip callback
func (w *Walker) skip(path string, err error) {
	w.logger.Debug("Skipping unreadable entry", zap.String("path", path), zap.Error(err))
	if w.onSkip != nil {
		w.onSkip(path, err)
	}
}
