// Package fileutil holds the filesystem primitives the copy pass relies on.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrInsufficientSpace reports that a destination volume cannot hold a file.
var ErrInsufficientSpace = errors.New("insufficient space")

// CopyPreserve copies src to dst keeping permission bits and modification
// time. Data is streamed into a temp file beside dst and renamed into place,
// so an existing dst is replaced atomically and readers never observe a
// partial file. The temp file is removed on any failure.
func CopyPreserve(src, dst string) (err error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("source %s is not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, in)
	if err != nil {
		return err
	}
	if written != srcInfo.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	if err = os.Chtimes(tmpPath, time.Time{}, srcInfo.ModTime()); err != nil {
		return fmt.Errorf("preserve times: %w", err)
	}
	if err = os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// EnsureSpace returns ErrInsufficientSpace when dir's volume has fewer than
// need bytes available to unprivileged users. Platforms without a free-space
// probe always pass.
func EnsureSpace(dir string, need int64) error {
	free, err := FreeBytes(dir)
	if errors.Is(err, errors.ErrUnsupported) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check free space: %w", err)
	}
	if need > 0 && free < uint64(need) {
		return fmt.Errorf("%w in %s: need %d bytes, %d available", ErrInsufficientSpace, dir, need, free)
	}
	return nil
}
