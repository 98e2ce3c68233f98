package api

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/buildlens/core/http/api"
	"github.com/buildlens/core/http/handler/util"
	"github.com/buildlens/core/io/fs"
	"github.com/buildlens/core/pr"

	"github.com/labstack/echo/v4"
	"github.com/lestrrat-go/strftime"
)

type PRConfig struct {
	FS fs.ReadFilesystem

	// Prefix is the directory with the builds of pull requests.
	Prefix string

	// RepoURL is the repository the pull requests belong to.
	RepoURL string

	// PublicURL is where the raw files in the storage are accessible.
	PublicURL string

	TimeFormat *strftime.Strftime
	Views      ViewRecorder
}

// The PRHandler type provides handler functions for the builds of pull requests
type PRHandler struct {
	fs        fs.ReadFilesystem
	prefix    string
	repoURL   string
	publicURL string
	format    *strftime.Strftime
	views     ViewRecorder
}

func NewPR(config PRConfig) *PRHandler {
	return &PRHandler{
		fs:        config.FS,
		prefix:    config.Prefix,
		repoURL:   strings.TrimSuffix(config.RepoURL, "/"),
		publicURL: strings.TrimSuffix(config.PublicURL, "/"),
		format:    config.TimeFormat,
		views:     config.Views,
	}
}

// Get returns the builds of a pull request
// @Summary Builds of a pull request
// @Description List the builds of all jobs that ran for a pull request
// @ID pr-1-get
// @Produce json
// @Param pr path string true "Number of the pull request"
// @Success 200 {object} api.PR
// @Failure 400 {object} api.Error
// @Failure 404 {object} api.Error
// @Router /api/v1/pr/{pr} [get]
func (h *PRHandler) Get(c echo.Context) error {
	number := util.PathParam(c, "pr")

	jobs, err := pr.Builds(h.fs, h.prefix, number)
	if err != nil {
		if errors.Is(err, pr.ErrInvalidPR) {
			return api.Err(http.StatusBadRequest, "Invalid pull request", "%s", err)
		}

		return api.Err(http.StatusInternalServerError, "", "%s", err)
	}

	if len(jobs) == 0 {
		record(h.views, "pr", "not found")
		return api.Err(http.StatusNotFound, "No Results", "no builds for pull request %s", number)
	}

	record(h.views, "pr", "ok")

	link := ""
	if len(h.repoURL) != 0 {
		link = h.repoURL + "/pull/" + number
	}

	p := api.PR{}
	p.Unmarshal(number, link, jobs, h.format)

	return c.JSON(http.StatusOK, p)
}

// Redirect redirects to the raw files of a pull request in the storage
// @Summary Raw files of a pull request
// @Description Redirect to the raw files of a pull request in the public storage
// @ID pr-redirect
// @Param path path string true "Path below the pull request prefix"
// @Success 302 {string} string
// @Router /pr/{path} [get]
func (h *PRHandler) Redirect(c echo.Context) error {
	target := h.publicURL + path.Join(path.Clean("/"+h.prefix), util.PathWildcardParam(c))

	return c.Redirect(http.StatusFound, target)
}
