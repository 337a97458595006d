package workflow

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"nasflow/internal/logging"
)

// scan walks the source tree and tracks every qualifying file not seen before.
// Extension matching is case-sensitive; both spellings must be configured.
func (r *Runner) scan(ctx context.Context, summary *Summary, _ map[string]struct{}) error {
	logger := logging.WithContext(ctx, r.logger)
	root := walkRoot(r.cfg.Paths.SourceDir)
	minSize := r.cfg.MinSizeBytes()

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return fmt.Errorf("walk source %s: %w", root, walkErr)
			}
			logger.Debug("skipping unreadable entry", logging.String(logging.FieldPath, path), logging.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !r.matchesExtension(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Debug("skipping file without stat", logging.String(logging.FieldPath, path), logging.Error(err))
			return nil
		}
		if info.Size() < minSize {
			return nil
		}

		inserted, err := r.store.InsertIfAbsent(ctx, path, d.Name(), r.now())
		if err != nil {
			return err
		}
		if inserted {
			summary.New++
			logger.Info("tracking new file", logging.String(logging.FieldPath, path), logging.Int64("size_bytes", info.Size()))
		}
		return nil
	})
}

// walkRoot returns the path WalkDir should start from. WalkDir does not
// descend into a root that is a symlink, so a linked source directory is
// walked through its trailing-separator form, which resolves the link while
// children are still joined under the configured path.
func walkRoot(dir string) string {
	link, err := os.Lstat(dir)
	if err != nil || link.Mode()&fs.ModeSymlink == 0 {
		return dir
	}
	target, err := os.Stat(dir)
	if err != nil || !target.IsDir() {
		return dir
	}
	return dir + string(filepath.Separator)
}

func (r *Runner) matchesExtension(name string) bool {
	for _, ext := range r.cfg.Scan.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
