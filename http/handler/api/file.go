package api

import (
	"net/http"

	"github.com/buildlens/core/http/api"
	"github.com/buildlens/core/http/handler/util"
	"github.com/buildlens/core/io/fs"

	"github.com/labstack/echo/v4"
)

// The FileHandler type provides a handler for the raw files of a build
type FileHandler struct {
	fs fs.ReadFilesystem
}

// NewFile returns a new File type. You have to provide the filesystem to read from.
func NewFile(fs fs.ReadFilesystem) *FileHandler {
	return &FileHandler{
		fs: fs,
	}
}

// GetFile returns the file at the given path. The content type is expected
// to be set by the mime middleware.
// @Summary Fetch a raw file
// @Description Fetch a raw file of a build, e.g. the build log or a JUnit report
// @ID file-1-get
// @Produce application/data
// @Param path path string true "Path to file"
// @Success 200 {file} byte
// @Failure 404 {object} api.Error
// @Router /api/v1/file/{path} [get]
func (h *FileHandler) GetFile(c echo.Context) error {
	path := util.PathWildcardParam(c)

	mimeType := c.Response().Header().Get(echo.HeaderContentType)
	c.Response().Header().Del(echo.HeaderContentType)

	file := h.fs.Open(path)
	if file == nil {
		return api.Err(http.StatusNotFound, "File not found", "%s", path)
	}

	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		return api.Err(http.StatusNotFound, "File not found", "%s", path)
	}

	c.Response().Header().Set("Last-Modified", stat.ModTime().UTC().Format(http.TimeFormat))

	if len(mimeType) == 0 {
		mimeType = echo.MIMEOctetStream
	}

	if c.Request().Method == http.MethodHead {
		c.Response().Header().Set(echo.HeaderContentType, mimeType)
		return c.NoContent(http.StatusOK)
	}

	return c.Stream(http.StatusOK, mimeType, file)
}
