// Package http serves the API for browsing build results.
package http

import (
	"net/http"
	"strings"

	"github.com/buildlens/core/build"
	cfgstore "github.com/buildlens/core/config/store"
	"github.com/buildlens/core/http/cache"
	"github.com/buildlens/core/http/errorhandler"
	"github.com/buildlens/core/http/handler"
	api "github.com/buildlens/core/http/handler/api"
	httplog "github.com/buildlens/core/http/log"
	"github.com/buildlens/core/http/validator"
	"github.com/buildlens/core/io/fs"
	"github.com/buildlens/core/log"
	"github.com/buildlens/core/prometheus"

	mwcors "github.com/buildlens/core/http/middleware/cors"
	mwlog "github.com/buildlens/core/http/middleware/log"
	mwmime "github.com/buildlens/core/http/middleware/mime"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lestrrat-go/strftime"
)

type Config struct {
	Logger    log.Logger
	LogBuffer log.BufferWriter

	// FS holds the build results.
	FS     fs.ReadFilesystem
	Loader *build.Loader

	// Cache for build summaries, optional.
	Cache      cache.Cacher
	TimeFormat *strftime.Strftime

	PR PRConfig

	Config     cfgstore.Store
	About      api.AboutConfig
	Prometheus prometheus.Reader
	Views      api.ViewRecorder

	MimeTypesFile string
	Profiling     bool
	Cors          CorsConfig
}

type PRConfig struct {
	Prefix    string
	RepoURL   string
	PublicURL string
}

type CorsConfig struct {
	Origins []string
}

type Server interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

type server struct {
	logger log.Logger

	handler struct {
		about      *api.AboutHandler
		prometheus *handler.PrometheusHandler
		profiling  *handler.ProfilingHandler
		ping       *handler.PingHandler
	}

	v1handler struct {
		log     *api.LogHandler
		config  *api.ConfigHandler
		build   *api.BuildHandler
		nodelog *api.NodeLogHandler
		list    *api.ListHandler
		pr      *api.PRHandler
		file    *api.FileHandler
	}

	middleware struct {
		log  echo.MiddlewareFunc
		cors echo.MiddlewareFunc
		mime echo.MiddlewareFunc
	}

	router    *echo.Echo
	profiling bool
}

func NewServer(config Config) (Server, error) {
	s := &server{
		logger:    config.Logger,
		profiling: config.Profiling,
	}

	if s.logger == nil {
		s.logger = log.New("HTTP")
	}

	s.handler.about = api.NewAbout(config.About)
	s.handler.ping = handler.NewPing()

	if config.Prometheus != nil {
		s.handler.prometheus = handler.NewPrometheus(
			config.Prometheus.HTTPHandler(),
		)
	}

	if config.Profiling {
		s.handler.profiling = handler.NewProfiling()
	}

	s.v1handler.log = api.NewLog(
		config.LogBuffer,
	)

	if config.Config != nil {
		s.v1handler.config = api.NewConfig(
			config.Config,
		)
	}

	if config.Loader != nil {
		s.v1handler.build = api.NewBuild(api.BuildConfig{
			Loader:     config.Loader,
			Cache:      config.Cache,
			TimeFormat: config.TimeFormat,
			Views:      config.Views,
			Logger:     s.logger.WithComponent("Build"),
		})
	}

	if config.FS != nil {
		s.v1handler.nodelog = api.NewNodeLog(config.FS, config.Views)
		s.v1handler.list = api.NewList(config.FS)
		s.v1handler.file = api.NewFile(config.FS)
		s.v1handler.pr = api.NewPR(api.PRConfig{
			FS:         config.FS,
			Prefix:     config.PR.Prefix,
			RepoURL:    config.PR.RepoURL,
			PublicURL:  config.PR.PublicURL,
			TimeFormat: config.TimeFormat,
			Views:      config.Views,
		})
	}

	s.middleware.log = mwlog.NewWithConfig(mwlog.Config{
		Logger: s.logger,
	})

	s.middleware.mime = mwmime.NewWithConfig(mwmime.Config{
		MimeTypesFile:      config.MimeTypesFile,
		DefaultContentType: "application/octet-stream",
	})

	if middleware, err := mwcors.NewWithConfig(mwcors.Config{
		Prefixes: map[string][]string{
			"/api": config.Cors.Origins,
		},
	}); err != nil {
		return nil, err
	} else {
		s.middleware.cors = middleware
	}

	s.router = echo.New()
	s.router.HTTPErrorHandler = errorhandler.HTTPErrorHandler
	s.router.Validator = validator.New()
	s.router.Use(s.middleware.log)
	s.router.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			rows := strings.Split(string(stack), "\n")
			s.logger.Error().WithField("stack", rows).Log("recovered from a panic")
			return nil
		},
	}))

	s.router.HideBanner = true
	s.router.HidePort = true

	s.router.Logger.SetOutput(httplog.NewWrapper(s.logger))

	if s.middleware.cors != nil {
		s.router.Use(s.middleware.cors)
	}

	s.setRoutes()

	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) gzipMiddleware() echo.MiddlewareFunc {
	return middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     1,
		MinLength: 1000,
		Skipper: func(c echo.Context) bool {
			// Raw artifacts are served as they are.
			return strings.HasPrefix(c.Path(), "/api/v1/file/")
		},
	})
}

func (s *server) setRoutes() {
	gzipMiddleware := s.gzipMiddleware()

	s.router.GET("/ping", s.handler.ping.Ping)

	if s.handler.prometheus != nil {
		s.router.GET("/metrics", s.handler.prometheus.Metrics)
	}

	if s.profiling {
		prof := s.router.Group("/profiling")
		s.handler.profiling.Register(prof)
	}

	api := s.router.Group("/api")
	api.GET("", s.handler.about.About)

	v1 := api.Group("/v1")
	v1.Use(gzipMiddleware)

	s.setRoutesV1(v1)

	if s.v1handler.pr != nil {
		s.router.GET("/pr/*", s.v1handler.pr.Redirect)
	}
}

func (s *server) setRoutesV1(v1 *echo.Group) {
	v1.GET("/log", s.v1handler.log.Log)

	if s.v1handler.config != nil {
		v1.GET("/config", s.v1handler.config.Get)
	}

	if s.v1handler.build != nil {
		v1.GET("/build/*", s.v1handler.build.Get)
	}

	if s.v1handler.nodelog != nil {
		v1.GET("/nodelog/*", s.v1handler.nodelog.Get)
	}

	if s.v1handler.list != nil {
		v1.GET("/builds/*", s.v1handler.list.Builds)
		v1.GET("/jobs/*", s.v1handler.list.Jobs)
	}

	if s.v1handler.pr != nil {
		v1.GET("/pr/:pr", s.v1handler.pr.Get)
	}

	if s.v1handler.file != nil {
		v1.GET("/file/*", s.v1handler.file.GetFile, s.middleware.mime)
		v1.HEAD("/file/*", s.v1handler.file.GetFile, s.middleware.mime)
	}
}
