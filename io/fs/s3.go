package fs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/buildlens/core/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	// Name is the name of the filesystem
	Name            string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool

	// Timeout bounds every single request to the endpoint. Defaults to 30 seconds.
	Timeout time.Duration

	Logger log.Logger
}

type s3Filesystem struct {
	name string

	endpoint string
	region   string
	bucket   string
	timeout  time.Duration

	client *minio.Client

	logger log.Logger
}

// NewS3Filesystem connects to an S3 compatible endpoint. The bucket is
// created if it doesn't exist yet.
func NewS3Filesystem(config S3Config) (Filesystem, error) {
	fs := &s3Filesystem{
		name:     config.Name,
		endpoint: config.Endpoint,
		region:   config.Region,
		bucket:   config.Bucket,
		timeout:  config.Timeout,
		logger:   config.Logger,
	}

	if fs.logger == nil {
		fs.logger = log.New("")
	}

	if fs.timeout <= 0 {
		fs.timeout = 30 * time.Second
	}

	client, err := minio.New(fs.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Region: fs.region,
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("can't connect to s3 endpoint %s: %w", fs.endpoint, err)
	}

	fs.logger = fs.logger.WithFields(log.Fields{
		"name":     fs.name,
		"type":     "s3",
		"bucket":   fs.bucket,
		"region":   fs.region,
		"endpoint": fs.endpoint,
	})

	ctx, cancel := fs.context()
	defer cancel()

	exists, err := client.BucketExists(ctx, fs.bucket)
	if err != nil {
		fs.logger.WithError(err).Log("Can't access bucket")
		return nil, fmt.Errorf("can't access bucket %s: %w", fs.bucket, err)
	}

	if !exists {
		fs.logger.Debug().Log("Bucket doesn't exist")

		err = client.MakeBucket(ctx, fs.bucket, minio.MakeBucketOptions{Region: fs.region})
		if err != nil {
			fs.logger.WithError(err).Log("Can't create bucket")
			return nil, fmt.Errorf("can't create bucket %s: %w", fs.bucket, err)
		}

		fs.logger.Debug().Log("Bucket created")
	}

	fs.client = client

	fs.logger.Debug().Log("Connected")

	return fs, nil
}

func (fs *s3Filesystem) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), fs.timeout)
}

func (fs *s3Filesystem) Name() string {
	return fs.name
}

func (fs *s3Filesystem) Type() string {
	return "s3"
}

func (fs *s3Filesystem) Files() int64 {
	return int64(len(fs.List("/", ListOptions{})))
}

func (fs *s3Filesystem) Stat(path string) (FileInfo, error) {
	key := fs.cleanPath(path)

	if len(key) == 0 {
		return &fileInfo{
			name:    "/",
			dir:     true,
			lastMod: time.Now(),
		}, nil
	}

	ctx, cancel := fs.context()
	defer cancel()

	stat, err := fs.client.StatObject(ctx, fs.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if fs.isDir(key) {
			return &fileInfo{
				name:    "/" + key,
				dir:     true,
				lastMod: time.Now(),
			}, nil
		}

		fs.logger.Debug().WithField("key", key).WithError(err).Log("Not found")

		return nil, fs.mapError(err)
	}

	return &fileInfo{
		name:    "/" + stat.Key,
		size:    stat.Size,
		lastMod: stat.LastModified,
	}, nil
}

func (fs *s3Filesystem) Open(path string) File {
	key := fs.cleanPath(path)

	// The object stays open after Open returns, hence no deadline here.
	object, err := fs.client.GetObject(context.Background(), fs.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		fs.logger.Debug().WithField("key", key).Log("Not found")
		return nil
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		fs.logger.Debug().WithField("key", key).Log("Stat failed")
		return nil
	}

	return &s3File{
		data: object,
		fileInfo: fileInfo{
			name:    "/" + stat.Key,
			size:    stat.Size,
			lastMod: stat.LastModified,
		},
	}
}

func (fs *s3Filesystem) ReadFile(path string) ([]byte, error) {
	file := fs.Open(path)
	if file == nil {
		return nil, ErrNotExist
	}

	return readAll(file)
}

func (fs *s3Filesystem) ReadRange(path string, offset, length int64) ([]byte, error) {
	key := fs.cleanPath(path)

	if offset < 0 {
		return nil, ErrInvalid
	}

	if length == 0 {
		return []byte{}, nil
	}

	options := minio.GetObjectOptions{}

	end := int64(0)
	if length > 0 {
		end = offset + length - 1
	}

	if offset != 0 || end != 0 {
		if err := options.SetRange(offset, end); err != nil {
			return nil, ErrInvalid
		}
	}

	ctx, cancel := fs.context()
	defer cancel()

	object, err := fs.client.GetObject(ctx, fs.bucket, key, options)
	if err != nil {
		return nil, fs.mapError(err)
	}

	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fs.mapError(err)
	}

	return data, nil
}

func (fs *s3Filesystem) WriteFileReader(path string, r io.Reader, size int) (int64, bool, error) {
	key := fs.cleanPath(path)

	ctx, cancel := fs.context()
	defer cancel()

	overwrite := false

	if _, err := fs.client.StatObject(ctx, fs.bucket, key, minio.StatObjectOptions{}); err == nil {
		overwrite = true
	}

	info, err := fs.client.PutObject(ctx, fs.bucket, key, r, int64(size), minio.PutObjectOptions{
		DisableMultipart: size >= 0 && size < 32*1024*1024,
	})
	if err != nil {
		fs.logger.WithError(err).WithField("key", key).Log("Failed to store file")
		return -1, false, err
	}

	fs.logger.Debug().WithFields(log.Fields{
		"key":       key,
		"overwrite": overwrite,
	}).Log("Stored")

	return info.Size, !overwrite, nil
}

func (fs *s3Filesystem) WriteFile(path string, data []byte) (int64, bool, error) {
	return fs.WriteFileReader(path, bytes.NewReader(data), len(data))
}

func (fs *s3Filesystem) Remove(path string) int64 {
	key := fs.cleanPath(path)

	ctx, cancel := fs.context()
	defer cancel()

	stat, err := fs.client.StatObject(ctx, fs.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		fs.logger.Debug().WithField("key", key).Log("Not found")
		return -1
	}

	err = fs.client.RemoveObject(ctx, fs.bucket, key, minio.RemoveObjectOptions{
		GovernanceBypass: true,
	})
	if err != nil {
		fs.logger.WithError(err).WithField("key", stat.Key).Log("Failed to delete file")
		return -1
	}

	fs.logger.Debug().WithField("key", stat.Key).Log("Deleted")

	return stat.Size
}

func (fs *s3Filesystem) RemoveList(path string, options ListOptions) ([]string, int64) {
	files := fs.List(path, options)

	objectsCh := make(chan minio.ObjectInfo)

	go func() {
		defer close(objectsCh)

		for _, f := range files {
			objectsCh <- minio.ObjectInfo{Key: strings.TrimPrefix(f.Name(), "/")}
		}
	}()

	failed := map[string]struct{}{}

	for err := range fs.client.RemoveObjects(context.Background(), fs.bucket, objectsCh, minio.RemoveObjectsOptions{
		GovernanceBypass: true,
	}) {
		fs.logger.WithError(err.Err).WithField("key", err.ObjectName).Log("Deleting object failed")
		failed["/"+err.ObjectName] = struct{}{}
	}

	names := []string{}
	var size int64

	for _, f := range files {
		if _, ok := failed[f.Name()]; ok {
			continue
		}

		names = append(names, f.Name())
		size += f.Size()
	}

	return names, size
}

func (fs *s3Filesystem) List(path string, options ListOptions) []FileInfo {
	prefix := strings.TrimPrefix(patternPrefix(path, options.Pattern), "/")

	filter, err := newFilter(options)
	if err != nil {
		return nil
	}

	files := []FileInfo{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := fs.client.ListObjects(ctx, fs.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range ch {
		if object.Err != nil {
			fs.logger.WithError(object.Err).Log("Listing object failed")
			continue
		}

		key := "/" + object.Key

		if !filter.accept(key, object.Size, object.LastModified) {
			continue
		}

		files = append(files, &fileInfo{
			name:    key,
			size:    object.Size,
			lastMod: object.LastModified,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	return files
}

func (fs *s3Filesystem) isDir(key string) bool {
	if !strings.HasSuffix(key, "/") {
		key = key + "/"
	}

	ctx, cancel := fs.context()
	defer cancel()

	ch := fs.client.ListObjects(ctx, fs.bucket, minio.ListObjectsOptions{
		Prefix:    key,
		Recursive: true,
		MaxKeys:   1,
	})

	for object := range ch {
		if object.Err == nil {
			return true
		}
	}

	return false
}

func (fs *s3Filesystem) mapError(err error) error {
	resp := minio.ToErrorResponse(err)

	switch {
	case resp.Code == "NoSuchKey" || resp.StatusCode == 404:
		return ErrNotExist
	case resp.Code == "InvalidRange":
		return ErrInvalid
	}

	return err
}

// cleanPath returns the object key for path, i.e. without the leading slash.
func (fs *s3Filesystem) cleanPath(path string) string {
	return strings.TrimPrefix(cleanPath(path), "/")
}

type s3File struct {
	fileInfo
	data io.ReadCloser
}

func (f *s3File) Name() string {
	return f.name
}

func (f *s3File) Stat() (FileInfo, error) {
	info := f.fileInfo
	return &info, nil
}

func (f *s3File) Read(p []byte) (int, error) {
	return f.data.Read(p)
}

func (f *s3File) Close() error {
	return f.data.Close()
}
