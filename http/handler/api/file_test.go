package api

import (
	"net/http"
	"testing"

	"github.com/buildlens/core/http/middleware/mime"
	"github.com/buildlens/core/http/mock"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func getDummyFileRouter(t *testing.T) *echo.Echo {
	router := mock.DummyEcho()

	handler := NewFile(mock.DummyFilesystem(t, buildFiles()))

	router.GET("/api/v1/file/*", handler.GetFile, mime.New())
	router.HEAD("/api/v1/file/*", handler.GetFile, mime.New())

	return router
}

func TestFileGet(t *testing.T) {
	router := getDummyFileRouter(t)

	response := mock.Request(t, http.StatusOK, router, "GET", "/api/v1/file/logs/job/1234/build-log.txt", nil)

	require.Equal(t, "ERROR: test\nmore output\n", string(response.Raw))
	require.Equal(t, echo.MIMETextPlainCharsetUTF8, response.Header.Get(echo.HeaderContentType))
	require.NotEmpty(t, response.Header.Get("Last-Modified"))

	response = mock.Request(t, http.StatusOK, router, "GET", "/api/v1/file/logs/job/1234/artifacts/junit_01.xml", nil)

	require.Equal(t, echo.MIMEApplicationXMLCharsetUTF8, response.Header.Get(echo.HeaderContentType))
}

func TestFileHead(t *testing.T) {
	router := getDummyFileRouter(t)

	response := mock.RequestEx(t, http.StatusOK, router, "HEAD", "/api/v1/file/logs/job/1234/started.json", nil, false)

	require.Equal(t, echo.MIMEApplicationJSONCharsetUTF8, response.Header.Get(echo.HeaderContentType))
	require.NotEmpty(t, response.Header.Get("Last-Modified"))

	mock.RequestEx(t, http.StatusNotFound, router, "HEAD", "/api/v1/file/logs/job/1234/missing.json", nil, false)
}

func TestFileNotFound(t *testing.T) {
	router := getDummyFileRouter(t)

	response := mock.Request(t, http.StatusNotFound, router, "GET", "/api/v1/file/logs/job/1234/missing.txt", nil)
	require.Equal(t, "File not found", response.Message)

	mock.Request(t, http.StatusNotFound, router, "GET", "/api/v1/file/logs/job/1234", nil)
}
