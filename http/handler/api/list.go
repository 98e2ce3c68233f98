package api

import (
	"net/http"

	"github.com/buildlens/core/build"
	"github.com/buildlens/core/http/api"
	"github.com/buildlens/core/http/handler/util"
	"github.com/buildlens/core/io/fs"

	"github.com/labstack/echo/v4"
)

// The ListHandler type provides handler functions for browsing jobs and builds
type ListHandler struct {
	fs fs.ReadFilesystem
}

// NewList returns a new List type
func NewList(fs fs.ReadFilesystem) *ListHandler {
	return &ListHandler{
		fs: fs,
	}
}

// Builds lists the builds of a job
// @Summary List the builds of a job
// @Description List the builds of a job, newest first
// @ID builds-1-list
// @Produce json
// @Param path path string true "Path of the job directory"
// @Success 200 {object} api.Builds
// @Router /api/v1/builds/{path} [get]
func (h *ListHandler) Builds(c echo.Context) error {
	job := util.PathWildcardParam(c)

	return c.JSON(http.StatusOK, api.Builds{
		Job:    job,
		Builds: build.ListBuilds(h.fs, job),
	})
}

// Jobs lists the jobs below a prefix
// @Summary List jobs
// @Description List the jobs below a prefix
// @ID jobs-1-list
// @Produce json
// @Param path path string true "Prefix"
// @Success 200 {object} api.Jobs
// @Router /api/v1/jobs/{path} [get]
func (h *ListHandler) Jobs(c echo.Context) error {
	prefix := util.PathWildcardParam(c)

	return c.JSON(http.StatusOK, api.Jobs{
		Prefix: prefix,
		Jobs:   build.ListJobs(h.fs, prefix),
	})
}
