// Package fs provides a simple interface for the object store holding
// build results, with memory, disk and S3 backends.
package fs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/buildlens/core/glob"
)

var (
	ErrExist      = fs.ErrExist
	ErrNotExist   = fs.ErrNotExist
	ErrPermission = fs.ErrPermission
	ErrInvalid    = errors.New("invalid range")
)

// FileInfo describes a file and is returned by Stat.
type FileInfo interface {
	// Name returns the full name of the file.
	Name() string

	// Size reports the size of the file in bytes.
	Size() int64

	// Mode returns the file mode.
	Mode() fs.FileMode

	// ModTime returns the time of last modification.
	ModTime() time.Time

	// IsDir returns whether the file represents a directory.
	IsDir() bool
}

// File provides access to a single file.
type File interface {
	io.ReadCloser

	// Name returns the Name of the file.
	Name() string

	// Stat returns the FileInfo to this file. In case of an error FileInfo is nil
	// and the error is non-nil.
	Stat() (FileInfo, error)
}

// ListOptions narrow down the result of List. Zero values don't filter.
type ListOptions struct {
	Pattern       string
	ModifiedStart *time.Time
	ModifiedEnd   *time.Time
	SizeMin       int64
	SizeMax       int64
}

type ReadFilesystem interface {
	// Files returns the current number of files in the filesystem.
	Files() int64

	// Open returns the file stored at the given path. It returns nil if the
	// file doesn't exist.
	Open(path string) File

	// ReadFile reads the content of the file at the given path. ErrNotExist is
	// returned if there's no such file.
	ReadFile(path string) ([]byte, error)

	// ReadRange reads at most length bytes starting at offset. A negative length
	// reads to the end of the file.
	ReadRange(path string, offset, length int64) ([]byte, error)

	// Stat returns info about the file at path. If the file doesn't exist, an error
	// will be returned. Prefixes of stored files are reported as directories.
	Stat(path string) (FileInfo, error)

	// List lists all files below path that match the options. Names are
	// absolute paths.
	List(path string, options ListOptions) []FileInfo
}

type WriteFilesystem interface {
	// WriteFileReader adds a file to the filesystem. Returns the size of the data that has been
	// stored in bytes and whether the file is new. The size is negative if there was
	// an error adding the file and error is not nil. A size of -1 means unknown.
	WriteFileReader(path string, r io.Reader, size int) (int64, bool, error)

	// WriteFile adds a file to the filesystem. Returns the size of the data that has been
	// stored in bytes and whether the file is new.
	WriteFile(path string, data []byte) (int64, bool, error)

	// Remove removes a file at the given path from the filesystem. Returns the size of
	// the removed file in bytes. The size is negative if the file doesn't exist.
	Remove(path string) int64

	// RemoveList removes all files below path that match the options. Returns
	// the names of the removed files and their total size.
	RemoveList(path string, options ListOptions) ([]string, int64)
}

// Filesystem is an interface that provides access to a filesystem.
type Filesystem interface {
	ReadFilesystem
	WriteFilesystem

	// Name returns the name of the filesystem.
	Name() string

	// Type returns the type of the filesystem, e.g. disk, mem, s3
	Type() string
}

// Children returns the sorted names of the directories directly below dir.
func Children(fsys ReadFilesystem, dir string) []string {
	dir = cleanPath(dir)
	if dir != "/" {
		dir += "/"
	}

	seen := map[string]struct{}{}

	for _, f := range fsys.List(dir, ListOptions{}) {
		rest := strings.TrimPrefix(f.Name(), dir)
		name, _, found := strings.Cut(rest, "/")
		if !found || len(name) == 0 {
			continue
		}

		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// cleanPath returns an absolute, cleaned slash path.
func cleanPath(p string) string {
	return path.Clean("/" + p)
}

// listPrefix is like cleanPath but keeps a trailing slash, such that
// "/logs/job/" doesn't match "/logs/jobs/".
func listPrefix(p string) string {
	prefix := cleanPath(p)
	if strings.HasSuffix(p, "/") && prefix != "/" {
		prefix += "/"
	}

	return prefix
}

// patternPrefix narrows the listing prefix to the literal head of an
// absolute pattern, e.g. "/logs/job/" for "/logs/job/*/started.json".
func patternPrefix(p, pattern string) string {
	prefix := listPrefix(p)
	if !strings.HasPrefix(pattern, "/") {
		return prefix
	}

	literal := glob.Prefix(pattern)
	if len(literal) > len(prefix) && strings.HasPrefix(literal, prefix) {
		return literal
	}

	return prefix
}

// inRange cuts data to the requested window.
func inRange(data []byte, offset, length int64) ([]byte, error) {
	if offset < 0 || offset > int64(len(data)) {
		return nil, ErrInvalid
	}

	end := int64(len(data))
	if length >= 0 && offset+length < end {
		end = offset + length
	}

	return data[offset:end], nil
}

type fileInfo struct {
	name    string
	size    int64
	dir     bool
	lastMod time.Time
}

func (f *fileInfo) Name() string       { return f.name }
func (f *fileInfo) Size() int64        { return f.size }
func (f *fileInfo) ModTime() time.Time { return f.lastMod }
func (f *fileInfo) IsDir() bool        { return f.dir }

func (f *fileInfo) Mode() fs.FileMode {
	mode := fs.FileMode(0o644)
	if f.dir {
		mode = fs.ModeDir | 0o755
	}

	return mode
}

// filter holds compiled ListOptions.
type filter struct {
	options ListOptions
	match   func(string) bool
}

func newFilter(options ListOptions) (*filter, error) {
	f := &filter{
		options: options,
	}

	if len(options.Pattern) != 0 {
		g, err := compile(options.Pattern)
		if err != nil {
			return nil, err
		}
		f.match = g
	}

	return f, nil
}

func (f *filter) accept(name string, size int64, modified time.Time) bool {
	if f.match != nil && !f.match(name) {
		return false
	}

	if f.options.ModifiedStart != nil && modified.Before(*f.options.ModifiedStart) {
		return false
	}

	if f.options.ModifiedEnd != nil && modified.After(*f.options.ModifiedEnd) {
		return false
	}

	if f.options.SizeMin > 0 && size < f.options.SizeMin {
		return false
	}

	if f.options.SizeMax > 0 && size > f.options.SizeMax {
		return false
	}

	return true
}

func compile(pattern string) (func(string) bool, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}

	return g.Match, nil
}

func readAll(f File) ([]byte, error) {
	defer f.Close()

	return io.ReadAll(f)
}

// isNotExist reports whether err means a missing file on any backend.
func isNotExist(err error) bool {
	return errors.Is(err, ErrNotExist) || os.IsNotExist(err)
}
