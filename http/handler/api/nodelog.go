package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/buildlens/core/http/api"
	"github.com/buildlens/core/http/handler/util"
	"github.com/buildlens/core/io/fs"
	"github.com/buildlens/core/nodelog"

	"github.com/labstack/echo/v4"
)

// The NodeLogHandler type provides handler functions for the logs of the
// node a test ran on
type NodeLogHandler struct {
	fs    fs.ReadFilesystem
	views ViewRecorder
}

// NewNodeLog returns a new NodeLog type. You have to provide the filesystem
// with the build results.
func NewNodeLog(fs fs.ReadFilesystem, views ViewRecorder) *NodeLogHandler {
	return &NodeLogHandler{
		fs:    fs,
		views: views,
	}
}

// queryFlag is a boolean query parameter. HTML checkboxes send "on".
type queryFlag bool

func (f *queryFlag) UnmarshalParam(param string) error {
	switch strings.ToLower(param) {
	case "on", "true", "1", "yes":
		*f = true
	case "off", "false", "0", "no", "":
		*f = false
	default:
		return fmt.Errorf("invalid flag value '%s'", param)
	}

	return nil
}

type nodeLogQuery struct {
	Pod       string    `query:"pod" validate:"omitempty,max=253"`
	JUnit     string    `query:"junit" validate:"omitempty,max=255"`
	Weave     queryFlag `query:"weave"`
	LogFiles  []string  `query:"logfiles" validate:"max=32,dive,required,max=1024"`
	Filter    queryFlag `query:"filter"`
	Namespace queryFlag `query:"namespace"`
}

// Get returns the node logs of a build
// @Summary Node logs of a build
// @Description Show the component logs of the node a pod ran on, with the lines about the pod highlighted.
// @ID nodelog-1-get
// @Produce json
// @Param path path string true "Path of the build directory"
// @Param pod query string false "Name of the pod"
// @Param junit query string false "Name of the JUnit report of the failed test"
// @Param weave query bool false "Merge all log files into one"
// @Param logfiles query []string false "Log files to show instead of kubelet.log and kube-apiserver.log"
// @Param filter query bool false "Only show highlighted lines"
// @Param namespace query bool false "Also highlight lines with the namespace of the pod"
// @Success 200 {object} api.NodeLog
// @Failure 400 {object} api.Error
// @Failure 404 {object} api.Error
// @Router /api/v1/nodelog/{path} [get]
func (h *NodeLogHandler) Get(c echo.Context) error {
	query := nodeLogQuery{}

	if err := c.Bind(&query); err != nil {
		return api.Err(http.StatusBadRequest, "Invalid query", "%s", err)
	}

	if err := c.Validate(query); err != nil {
		return api.Err(http.StatusBadRequest, "Invalid query", "%s", err)
	}

	page, err := nodelog.View(h.fs, nodelog.Request{
		Build:     util.PathWildcardParam(c),
		Pod:       query.Pod,
		JUnit:     query.JUnit,
		Weave:     bool(query.Weave),
		LogFiles:  query.LogFiles,
		Filter:    bool(query.Filter),
		Namespace: bool(query.Namespace),
	})
	if err != nil {
		if errors.Is(err, nodelog.ErrNoLogs) {
			record(h.views, "nodelog", "not found")
			return api.Err(http.StatusNotFound, "Unable to find", "%s", err)
		}

		return api.Err(http.StatusInternalServerError, "", "%s", err)
	}

	record(h.views, "nodelog", "ok")

	n := api.NodeLog{}
	n.Unmarshal(page)

	return c.JSON(http.StatusOK, n)
}
