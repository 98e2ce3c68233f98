package api

import (
	"context"
	"fmt"
	"io"
	golog "log"
	gohttp "net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/buildlens/core/app"
	"github.com/buildlens/core/build"
	"github.com/buildlens/core/config"
	configstore "github.com/buildlens/core/config/store"
	configvars "github.com/buildlens/core/config/vars"
	"github.com/buildlens/core/http"
	"github.com/buildlens/core/http/cache"
	httpapi "github.com/buildlens/core/http/handler/api"
	"github.com/buildlens/core/io/fs"
	"github.com/buildlens/core/log"
	"github.com/buildlens/core/prometheus"

	"github.com/google/gops/agent"
	"github.com/lestrrat-go/strftime"
	"go.uber.org/automaxprocs/maxprocs"
)

// The API interface is the implementation for the build results API.
type API interface {
	// Start starts the API. This is blocking until the app has
	// been ended with Stop() or Destroy(). In this case a nil error
	// is returned.
	Start(ctx context.Context) error

	// Stop stops the API, some states may be kept intact such
	// that they can be reused after starting the API again.
	Stop()

	// Destroy is the same as Stop() but no state will be kept intact.
	Destroy()

	// Reload the configuration for the API. If there's an error the
	// previously loaded configuration is not altered.
	Reload() error
}

type api struct {
	storage    fs.Filesystem
	loader     *build.Loader
	prom       prometheus.Metrics
	views      *prometheus.ViewCounter
	cache      cache.Cacher
	mainserver *gohttp.Server

	errorChan chan error

	startedAt time.Time

	log struct {
		writer io.Writer
		buffer log.BufferWriter
		logger struct {
			core log.Logger
			main log.Logger
		}
	}

	config struct {
		path   string
		store  configstore.Store
		config *config.Config
	}

	lock   sync.Mutex
	wgStop sync.WaitGroup
	state  string

	undoMaxprocs func()
}

// New returns a new instance of the API interface
func New(configpath string, logwriter io.Writer) (API, error) {
	a := &api{
		state: "idle",
	}

	a.config.path = configpath
	a.log.writer = logwriter

	if a.log.writer == nil {
		a.log.writer = io.Discard
	}

	a.errorChan = make(chan error, 1)

	if err := a.Reload(); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *api) Reload() error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state == "running" {
		return fmt.Errorf("can't reload config while running")
	}

	logger := log.New("Core").WithOutput(log.NewConsoleWriter(a.log.writer, log.Lwarn, true))

	configpath := configstore.Location(a.config.path)

	configfs, err := fs.NewDiskFilesystem(fs.DiskConfig{
		Name: "config",
		Dir:  filepath.Dir(configpath),
	})
	if err != nil {
		return fmt.Errorf("invalid config directory: %w", err)
	}

	store, err := configstore.NewJSON(configfs, "/"+filepath.Base(configpath))
	if err != nil {
		return err
	}

	cfg := store.Get()

	cfg.Merge()
	cfg.Validate(false)

	loglevel, ok := log.ParseLevel(cfg.Log.Level)
	if !ok {
		logger.Warn().WithField("level", cfg.Log.Level).Log("Unknown log level, using info")
	}

	buffer := log.NewBufferWriter(loglevel, cfg.Log.MaxLines)

	logger = logger.WithOutput(log.NewMultiWriter(
		log.NewTopicWriter(
			log.NewConsoleWriter(a.log.writer, loglevel, true),
			cfg.Log.Topics,
		),
		buffer,
	))

	logfields := log.Fields{
		"application": app.Name,
		"version":     app.Version.String(),
		"arch":        app.Arch,
		"compiler":    app.Compiler,
	}

	if len(app.Commit) != 0 && len(app.Branch) != 0 {
		logfields["commit"] = app.Commit
		logfields["branch"] = app.Branch
	}

	if len(app.Build) != 0 {
		logfields["build"] = app.Build
	}

	logger.Info().WithFields(logfields).Log("")

	logger.Info().WithField("path", configpath).Log("Read config file")

	configlogger := logger.WithComponent("Config")
	cfg.Messages(func(level string, v configvars.Variable, message string) {
		l := configlogger.WithFields(log.Fields{
			"variable":    v.Name,
			"value":       v.Value,
			"env":         v.EnvName,
			"description": v.Description,
			"override":    v.Merged,
		})

		switch level {
		case "warn":
			l.Warn().Log(message)
		case "error":
			l.Error().WithField("error", message).Log("")
		default:
			l.Debug().Log(message)
		}
	})

	if cfg.HasErrors() {
		logger.Error().WithField("error", "Not all variables are set or are valid. Check the error messages above. Bailing out.").Log("")
		return fmt.Errorf("not all variables are set or valid")
	}

	cfg.LoadedAt = time.Now()

	store.SetActive(cfg)

	a.config.path = configpath
	a.config.store = store
	a.config.config = cfg
	a.log.logger.core = logger
	a.log.buffer = buffer

	return nil
}

func (a *api) start(ctx context.Context) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.errorChan == nil {
		a.errorChan = make(chan error, 1)
	}

	if a.state == "running" {
		return fmt.Errorf("already running")
	}

	a.state = "starting"
	a.startedAt = time.Now()

	cfg := a.config.store.GetActive()

	undoMaxprocs, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		format = strings.TrimPrefix(format, "maxprocs: ")
		a.log.logger.core.Debug().Log(format, args...)
	}))
	if err != nil {
		a.log.logger.core.Warn().Log("%s", err.Error())
	}

	a.undoMaxprocs = undoMaxprocs

	if cfg.Debug.Gops {
		if err := agent.Listen(agent.Options{
			ReuseSocketAddrAndPort: true,
		}); err != nil {
			a.log.logger.core.Error().WithError(err).Log("Failed to start gops agent")
		}
	}

	storage, err := a.newStorage(cfg)
	if err != nil {
		return fmt.Errorf("unable to create storage: %w", err)
	}

	a.storage = fs.NewReadOnlyFilesystem(storage)

	a.log.logger.core.Info().WithFields(log.Fields{
		"name": storage.Name(),
		"type": storage.Type(),
	}).Log("Using storage")

	a.loader = build.NewLoader(build.LoaderConfig{
		FS:            a.storage,
		LogFile:       cfg.Build.LogFile,
		ArtifactsDir:  cfg.Build.ArtifactsDir,
		MaxErrorLines: cfg.Build.MaxErrorLines,
		MaxLogBytes:   cfg.Build.MaxLogBytes,
		PRPrefix:      cfg.PR.Prefix,
		Source: &build.SourceRepo{
			Prefix: cfg.Build.SourcePrefix,
			URL:    cfg.Build.SourceRepo,
		},
		Logger: a.log.logger.core.WithComponent("Build"),
	})

	if cfg.Cache.Enable {
		c, err := cache.NewLRUCache(cache.LRUConfig{
			TTL:        time.Duration(cfg.Cache.TTL) * time.Second,
			MaxEntries: int(cfg.Cache.MaxEntries),
			Logger:     a.log.logger.core.WithComponent("HTTPCache"),
		})
		if err != nil {
			return fmt.Errorf("unable to create cache: %w", err)
		}

		a.cache = c
	} else {
		a.cache = nil
	}

	a.views = prometheus.NewViewCounter()

	if cfg.Metrics.EnablePrometheus {
		prom := prometheus.New()

		prom.Register(prometheus.NewUptimeCollector(cfg.ID, a.startedAt))
		prom.Register(prometheus.NewViewsCollector(cfg.ID, a.views))
		prom.Register(prometheus.NewFilesystemCollector(cfg.ID, storage))

		if a.cache != nil {
			prom.Register(prometheus.NewCacheCollector(cfg.ID, a.cache))
		}

		a.prom = prom
	} else {
		a.prom = nil
	}

	timeFormat, err := strftime.New(cfg.Build.TimeFormat)
	if err != nil {
		return fmt.Errorf("invalid time format: %w", err)
	}

	a.log.logger.main = a.log.logger.core.WithComponent("HTTP").WithField("address", cfg.Address)

	serverConfig := http.Config{
		Logger:     a.log.logger.main,
		LogBuffer:  a.log.buffer,
		FS:         a.storage,
		Loader:     a.loader,
		Cache:      a.cache,
		TimeFormat: timeFormat,
		PR: http.PRConfig{
			Prefix:    cfg.PR.Prefix,
			RepoURL:   cfg.PR.RepoURL,
			PublicURL: cfg.Storage.PublicURL,
		},
		Config: a.config.store,
		About: httpapi.AboutConfig{
			Name:      cfg.Name,
			ID:        cfg.ID,
			CreatedAt: cfg.CreatedAt,
			Storage:   storage.Type(),
		},
		Prometheus: a.prom,
		Views:      a.views,
		Profiling:  cfg.Debug.Profiling,
		Cors: http.CorsConfig{
			Origins: cfg.CORS.Origins,
		},
	}

	mainserverhandler, err := http.NewServer(serverConfig)
	if err != nil {
		return fmt.Errorf("unable to create server: %w", err)
	}

	wgStart := sync.WaitGroup{}

	a.mainserver = &gohttp.Server{
		Addr:              cfg.Address,
		Handler:           mainserverhandler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ErrorLog:          golog.New(a.log.logger.main.Error(), "", 0),
	}

	wgStart.Add(1)
	a.wgStop.Add(1)

	go func() {
		logger := a.log.logger.main

		defer func() {
			logger.Info().Log("Server exited")
			a.wgStop.Done()
		}()

		wgStart.Done()

		logger.Info().Log("Server started")

		err := a.mainserver.ListenAndServe()
		if err != nil && err != gohttp.ErrServerClosed {
			err = fmt.Errorf("HTTP server: %w", err)
		} else {
			err = nil
		}

		sendError(a.errorChan, err)
	}()

	wgStart.Wait()

	a.state = "running"

	return nil
}

func (a *api) newStorage(cfg *config.Config) (fs.Filesystem, error) {
	logger := a.log.logger.core.WithComponent("Storage")

	switch cfg.Storage.Type {
	case "mem":
		return fs.NewMemFilesystem(fs.MemConfig{
			Name:   "mem",
			Logger: logger,
		})
	case "s3":
		return fs.NewS3Filesystem(fs.S3Config{
			Name:            "s3",
			Endpoint:        cfg.Storage.S3.Endpoint,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
			Region:          cfg.Storage.S3.Region,
			Bucket:          cfg.Storage.S3.Bucket,
			UseSSL:          cfg.Storage.S3.UseSSL,
			Timeout:         time.Duration(cfg.Storage.S3.Timeout) * time.Second,
			Logger:          logger,
		})
	}

	return fs.NewDiskFilesystem(fs.DiskConfig{
		Name:   "disk",
		Dir:    cfg.Storage.Disk.Dir,
		Logger: logger,
	})
}

func sendError(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

func (a *api) Start(ctx context.Context) error {
	if err := a.start(ctx); err != nil {
		a.stop()
		return err
	}

	// Block until is an error from the servers
	select {
	case err := <-a.errorChan:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (a *api) stop() {
	a.lock.Lock()
	defer a.lock.Unlock()

	logger := a.log.logger.core.WithField("action", "shutdown")

	if a.state == "idle" {
		logger.Info().Log("Complete")
		return
	}

	if a.mainserver != nil {
		logger.Info().Log("Stopping HTTP server ...")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		a.mainserver.Shutdown(ctx)
		a.mainserver = nil
	}

	// Wait for all server goroutines to exit
	logger.Info().Log("Waiting for all servers to stop ...")
	a.wgStop.Wait()

	if a.cache != nil {
		a.cache.Purge()
		a.cache = nil
	}

	if a.prom != nil {
		a.prom.UnregisterAll()
		a.prom = nil
	}

	if a.undoMaxprocs != nil {
		a.undoMaxprocs()
		a.undoMaxprocs = nil
	}

	a.storage = nil
	a.loader = nil
	a.views = nil

	// Drain error channel
	if a.errorChan != nil {
		close(a.errorChan)
		a.errorChan = nil
	}

	a.state = "idle"

	logger.Info().Log("Complete")
	logger.Close()
}

// Stop is the public method for stopping the API
func (a *api) Stop() {
	a.log.logger.core.Info().Log("Shutdown requested ...")
	a.stop()
}

// Destroy is the public method for destroying the API
func (a *api) Destroy() {
	a.log.logger.core.Info().Log("Shutdown requested ...")
	a.stop()

	agent.Close()
}
