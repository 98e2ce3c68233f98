package fs

import (
	"io"
)

type readOnlyFilesystem struct {
	Filesystem
}

// NewReadOnlyFilesystem wraps fs such that all write operations fail with
// ErrPermission. The HTTP layer only ever gets a read-only view of the store.
func NewReadOnlyFilesystem(fs Filesystem) Filesystem {
	return &readOnlyFilesystem{
		Filesystem: fs,
	}
}

func (r *readOnlyFilesystem) WriteFileReader(path string, rd io.Reader, size int) (int64, bool, error) {
	return -1, false, ErrPermission
}

func (r *readOnlyFilesystem) WriteFile(path string, data []byte) (int64, bool, error) {
	return -1, false, ErrPermission
}

func (r *readOnlyFilesystem) Remove(path string) int64 {
	return -1
}

func (r *readOnlyFilesystem) RemoveList(path string, options ListOptions) ([]string, int64) {
	return nil, 0
}
