package preflight

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"nasflow/internal/config"
	"nasflow/internal/fileutil"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll checks every configured directory. The source and completed
// directories only need to be readable; the upload directory must accept writes.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Source directory", cfg.Paths.SourceDir, false),
		CheckDirectoryAccess("Upload directory", cfg.Paths.UploadDir, true),
		CheckDirectoryAccess("Completed directory", cfg.Paths.CompletedDir, false),
	}
	if results[1].Passed {
		results = append(results, CheckFreeSpace("Upload free space", cfg.Paths.UploadDir))
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is accessible.
func CheckDirectoryAccess(name, path string, writable bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}

	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if writable {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckFreeSpace reports the space available for new copies.
func CheckFreeSpace(name, path string) Result {
	free, err := fileutil.FreeBytes(path)
	if err != nil {
		if errors.Is(err, errors.ErrUnsupported) {
			return Result{Name: name, Passed: true, Detail: "not measurable on this platform"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	return Result{Name: name, Passed: free > 0, Detail: humanize.IBytes(free) + " available"}
}
