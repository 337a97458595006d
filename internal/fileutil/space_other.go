//go:build !unix

package fileutil

import "errors"

// FreeBytes is not implemented on this platform.
func FreeBytes(string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
