package fs

import (
	"bytes"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/buildlens/core/log"
)

// MemConfig is the config that is required for creating
// a new memory filesystem.
type MemConfig struct {
	Name   string
	Logger log.Logger // For logging, optional
}

type memObject struct {
	data    []byte
	lastMod time.Time
}

type memFile struct {
	fileInfo
	r *bytes.Reader
}

func (f *memFile) Name() string {
	return f.name
}

func (f *memFile) Stat() (FileInfo, error) {
	info := f.fileInfo
	return &info, nil
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.r == nil {
		return 0, io.EOF
	}

	return f.r.Read(p)
}

func (f *memFile) Close() error {
	f.r = nil

	return nil
}

type memFilesystem struct {
	name string

	files map[string]*memObject
	lock  sync.RWMutex

	logger log.Logger
}

// NewMemFilesystem creates a new filesystem in memory that implements
// the Filesystem interface.
func NewMemFilesystem(config MemConfig) (Filesystem, error) {
	fs := &memFilesystem{
		name:   config.Name,
		files:  map[string]*memObject{},
		logger: config.Logger,
	}

	if fs.logger == nil {
		fs.logger = log.New("")
	}

	fs.logger = fs.logger.WithFields(log.Fields{
		"name": fs.name,
		"type": "mem",
	})

	fs.logger.Debug().Log("Created")

	return fs, nil
}

func (fs *memFilesystem) Name() string {
	return fs.name
}

func (fs *memFilesystem) Type() string {
	return "mem"
}

func (fs *memFilesystem) Files() int64 {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return int64(len(fs.files))
}

func (fs *memFilesystem) Open(path string) File {
	path = cleanPath(path)

	fs.lock.RLock()
	obj, ok := fs.files[path]
	fs.lock.RUnlock()

	if !ok {
		return nil
	}

	return &memFile{
		fileInfo: fileInfo{
			name:    path,
			size:    int64(len(obj.data)),
			lastMod: obj.lastMod,
		},
		r: bytes.NewReader(obj.data),
	}
}

func (fs *memFilesystem) ReadFile(path string) ([]byte, error) {
	path = cleanPath(path)

	fs.lock.RLock()
	defer fs.lock.RUnlock()

	obj, ok := fs.files[path]
	if !ok {
		return nil, ErrNotExist
	}

	return bytes.Clone(obj.data), nil
}

func (fs *memFilesystem) ReadRange(path string, offset, length int64) ([]byte, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return inRange(data, offset, length)
}

func (fs *memFilesystem) Stat(path string) (FileInfo, error) {
	path = cleanPath(path)

	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if obj, ok := fs.files[path]; ok {
		return &fileInfo{
			name:    path,
			size:    int64(len(obj.data)),
			lastMod: obj.lastMod,
		}, nil
	}

	prefix := path
	if prefix != "/" {
		prefix += "/"
	}

	for name := range fs.files {
		if strings.HasPrefix(name, prefix) {
			return &fileInfo{
				name:    path,
				dir:     true,
				lastMod: time.Now(),
			}, nil
		}
	}

	return nil, ErrNotExist
}

func (fs *memFilesystem) WriteFileReader(path string, r io.Reader, size int) (int64, bool, error) {
	path = cleanPath(path)

	buf := &bytes.Buffer{}
	if size > 0 {
		buf.Grow(size)
	}

	if _, err := buf.ReadFrom(r); err != nil {
		fs.logger.WithError(err).WithField("path", path).Log("Incomplete file")
		return -1, false, err
	}

	obj := &memObject{
		data:    buf.Bytes(),
		lastMod: time.Now(),
	}

	fs.lock.Lock()
	_, replace := fs.files[path]
	fs.files[path] = obj
	fs.lock.Unlock()

	fs.logger.Debug().WithFields(log.Fields{
		"path":     path,
		"filesize": len(obj.data),
		"replace":  replace,
	}).Log("Stored")

	return int64(len(obj.data)), !replace, nil
}

func (fs *memFilesystem) WriteFile(path string, data []byte) (int64, bool, error) {
	return fs.WriteFileReader(path, bytes.NewReader(data), len(data))
}

func (fs *memFilesystem) Remove(path string) int64 {
	path = cleanPath(path)

	fs.lock.Lock()
	defer fs.lock.Unlock()

	obj, ok := fs.files[path]
	if !ok {
		return -1
	}

	delete(fs.files, path)

	fs.logger.Debug().WithField("path", path).Log("Removed")

	return int64(len(obj.data))
}

func (fs *memFilesystem) RemoveList(path string, options ListOptions) ([]string, int64) {
	files := fs.List(path, options)

	names := make([]string, 0, len(files))
	var size int64

	for _, f := range files {
		if n := fs.Remove(f.Name()); n >= 0 {
			names = append(names, f.Name())
			size += n
		}
	}

	return names, size
}

func (fs *memFilesystem) List(path string, options ListOptions) []FileInfo {
	path = listPrefix(path)

	filter, err := newFilter(options)
	if err != nil {
		return nil
	}

	files := []FileInfo{}

	fs.lock.RLock()
	defer fs.lock.RUnlock()

	for name, obj := range fs.files {
		if !strings.HasPrefix(name, path) {
			continue
		}

		size := int64(len(obj.data))

		if !filter.accept(name, size, obj.lastMod) {
			continue
		}

		files = append(files, &fileInfo{
			name:    name,
			size:    size,
			lastMod: obj.lastMod,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	return files
}
