package api

import (
	"errors"
	"net/http"
	"path"

	"github.com/buildlens/core/build"
	"github.com/buildlens/core/http/api"
	"github.com/buildlens/core/http/cache"
	"github.com/buildlens/core/http/handler/util"
	"github.com/buildlens/core/log"

	"github.com/labstack/echo/v4"
	"github.com/lestrrat-go/strftime"
)

type BuildConfig struct {
	Loader *build.Loader

	// Cache is optional. Summaries of finished builds never expire.
	Cache cache.Cacher

	// TimeFormat formats start times. RFC3339 if nil.
	TimeFormat *strftime.Strftime

	Views  ViewRecorder
	Logger log.Logger
}

// The BuildHandler type provides handler functions for the summary of a build
type BuildHandler struct {
	loader *build.Loader
	cache  cache.Cacher
	format *strftime.Strftime
	views  ViewRecorder
	logger log.Logger
}

// NewBuild returns a new Build type. You have to provide a loader.
func NewBuild(config BuildConfig) *BuildHandler {
	h := &BuildHandler{
		loader: config.Loader,
		cache:  config.Cache,
		format: config.TimeFormat,
		views:  config.Views,
		logger: config.Logger,
	}

	if h.logger == nil {
		h.logger = log.New("")
	}

	return h
}

// Get returns the summary of a build
// @Summary Summary of a build
// @Description Classify a build by its started.json, finished.json, JUnit reports and build log.
// @ID build-1-get
// @Produce json
// @Param path path string true "Path of the build directory"
// @Success 200 {object} api.Build
// @Failure 404 {object} api.Error
// @Router /api/v1/build/{path} [get]
func (h *BuildHandler) Get(c echo.Context) error {
	dir := path.Clean(util.PathWildcardParam(c))

	summary, hit, err := h.summary(dir)
	if err != nil {
		if errors.Is(err, build.ErrBuildNotFound) {
			record(h.views, "build", "not found")
			return api.Err(http.StatusNotFound, "Build not found", "%s", err)
		}

		h.logger.Error().WithField("path", dir).WithError(err).Log("Loading build failed")

		return api.Err(http.StatusInternalServerError, "", "%s", err)
	}

	record(h.views, "build", summary.Result)

	if hit {
		c.Response().Header().Set("X-Cache", "HIT")
	} else {
		c.Response().Header().Set("X-Cache", "MISS")
	}

	b := api.Build{}
	b.Unmarshal(summary, h.format)

	return c.JSON(http.StatusOK, b)
}

func (h *BuildHandler) summary(dir string) (build.Summary, bool, error) {
	if h.cache != nil {
		if o, _ := h.cache.Get(dir); o != nil {
			if summary, ok := o.(build.Summary); ok {
				return summary, true, nil
			}
		}
	}

	summary, err := h.loader.Load(dir)
	if err != nil {
		return summary, false, err
	}

	if h.cache != nil {
		ttl := h.cache.TTL()
		if summary.IsFinished() {
			ttl = 0
		}

		h.cache.Put(dir, summary, ttl)
	}

	return summary, false, nil
}
