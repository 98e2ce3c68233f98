package fs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/buildlens/core/log"
)

// DiskConfig is the config required to create a new disk
// filesystem.
type DiskConfig struct {
	Name string

	// Dir is the directory that holds the build results
	Dir string

	// For logging, optional
	Logger log.Logger
}

// diskFile implements the File interface
type diskFile struct {
	name string
	file *os.File
}

func (f *diskFile) Name() string {
	return f.name
}

func (f *diskFile) Stat() (FileInfo, error) {
	finfo, err := f.file.Stat()
	if err != nil {
		return nil, err
	}

	return &fileInfo{
		name:    f.name,
		size:    finfo.Size(),
		dir:     finfo.IsDir(),
		lastMod: finfo.ModTime(),
	}, nil
}

func (f *diskFile) Close() error {
	return f.file.Close()
}

func (f *diskFile) Read(p []byte) (int, error) {
	return f.file.Read(p)
}

// diskFilesystem implements the Filesystem interface
type diskFilesystem struct {
	name string
	dir  string

	logger log.Logger
}

// NewDiskFilesystem returns a new filesystem that is backed by a directory
// on disk. The directory must exist.
func NewDiskFilesystem(config DiskConfig) (Filesystem, error) {
	fs := &diskFilesystem{
		name:   config.Name,
		logger: config.Logger,
	}

	if fs.logger == nil {
		fs.logger = log.New("")
	}

	if len(config.Dir) == 0 {
		return nil, fmt.Errorf("invalid base path provided")
	}

	dir, err := filepath.Abs(config.Dir)
	if err != nil {
		return nil, err
	}

	finfo, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("the provided base path '%s' doesn't exist", dir)
	}

	if !finfo.IsDir() {
		return nil, fmt.Errorf("the provided base path '%s' must be a directory", dir)
	}

	fs.dir = dir

	fs.logger = fs.logger.WithFields(log.Fields{
		"name": fs.name,
		"type": "disk",
		"dir":  fs.dir,
	})

	return fs, nil
}

func (fs *diskFilesystem) Name() string {
	return fs.name
}

func (fs *diskFilesystem) Type() string {
	return "disk"
}

// localPath maps a filesystem path to a path on disk below the base directory.
func (fs *diskFilesystem) localPath(path string) string {
	return filepath.Join(fs.dir, filepath.FromSlash(cleanPath(path)))
}

func (fs *diskFilesystem) Files() int64 {
	var nfiles int64 = 0

	fs.walk(func(path string, info os.FileInfo) {
		nfiles++
	})

	return nfiles
}

func (fs *diskFilesystem) Open(path string) File {
	path = cleanPath(path)

	f, err := os.Open(fs.localPath(path))
	if err != nil {
		return nil
	}

	if finfo, err := f.Stat(); err != nil || finfo.IsDir() {
		f.Close()
		return nil
	}

	return &diskFile{
		name: path,
		file: f,
	}
}

func (fs *diskFilesystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(fs.localPath(path))
	if err != nil {
		if isNotExist(err) {
			return nil, ErrNotExist
		}

		return nil, err
	}

	return data, nil
}

func (fs *diskFilesystem) ReadRange(path string, offset, length int64) ([]byte, error) {
	f, err := os.Open(fs.localPath(path))
	if err != nil {
		if isNotExist(err) {
			return nil, ErrNotExist
		}

		return nil, err
	}

	defer f.Close()

	finfo, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if offset < 0 || offset > finfo.Size() {
		return nil, ErrInvalid
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	var r io.Reader = f
	if length >= 0 {
		r = io.LimitReader(f, length)
	}

	return io.ReadAll(r)
}

func (fs *diskFilesystem) Stat(path string) (FileInfo, error) {
	path = cleanPath(path)

	finfo, err := os.Stat(fs.localPath(path))
	if err != nil {
		if isNotExist(err) {
			return nil, ErrNotExist
		}

		return nil, err
	}

	return &fileInfo{
		name:    path,
		size:    finfo.Size(),
		dir:     finfo.IsDir(),
		lastMod: finfo.ModTime(),
	}, nil
}

func (fs *diskFilesystem) WriteFileReader(path string, r io.Reader, size int) (int64, bool, error) {
	path = fs.localPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return -1, false, fmt.Errorf("creating file failed: %w", err)
	}

	replace := true

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return -1, false, fmt.Errorf("creating file failed: %w", err)
		}

		replace = false
	}

	defer f.Close()

	n, err := f.ReadFrom(r)
	if err != nil {
		return -1, false, fmt.Errorf("reading data failed: %w", err)
	}

	fs.logger.Debug().WithFields(log.Fields{
		"path":     path,
		"filesize": n,
		"replace":  replace,
	}).Log("Stored")

	return n, !replace, nil
}

func (fs *diskFilesystem) WriteFile(path string, data []byte) (int64, bool, error) {
	return fs.WriteFileReader(path, bytes.NewReader(data), len(data))
}

func (fs *diskFilesystem) Remove(path string) int64 {
	path = fs.localPath(path)

	finfo, err := os.Stat(path)
	if err != nil || finfo.IsDir() {
		return -1
	}

	if err := os.Remove(path); err != nil {
		fs.logger.WithError(err).WithField("path", path).Log("Removing file failed")
		return -1
	}

	return finfo.Size()
}

func (fs *diskFilesystem) RemoveList(path string, options ListOptions) ([]string, int64) {
	names := []string{}
	var size int64

	for _, f := range fs.List(path, options) {
		if n := fs.Remove(f.Name()); n >= 0 {
			names = append(names, f.Name())
			size += n
		}
	}

	return names, size
}

func (fs *diskFilesystem) List(path string, options ListOptions) []FileInfo {
	prefix := listPrefix(path)

	filter, err := newFilter(options)
	if err != nil {
		return nil
	}

	files := []FileInfo{}

	fs.walk(func(local string, info os.FileInfo) {
		name := filepath.ToSlash(strings.TrimPrefix(local, fs.dir))
		if !strings.HasPrefix(name, "/") {
			name = "/" + name
		}

		if !strings.HasPrefix(name, prefix) {
			return
		}

		if !filter.accept(name, info.Size(), info.ModTime()) {
			return
		}

		files = append(files, &fileInfo{
			name:    name,
			size:    info.Size(),
			lastMod: info.ModTime(),
		})
	})

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	return files
}

func (fs *diskFilesystem) walk(walkfn func(path string, info os.FileInfo)) {
	filepath.Walk(fs.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			return nil
		}

		mode := info.Mode()
		if !mode.IsRegular() && mode&os.ModeSymlink == 0 {
			return nil
		}

		walkfn(path, info)

		return nil
	})
}
