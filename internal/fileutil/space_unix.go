//go:build unix

package fileutil

import "golang.org/x/sys/unix"

// FreeBytes reports the bytes available to unprivileged users on dir's volume.
func FreeBytes(dir string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, err
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize), nil
}
