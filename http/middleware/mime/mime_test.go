package mime

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func contentType(t *testing.T, mw echo.MiddlewareFunc, path string) string {
	router := echo.New()
	router.Use(mw)
	router.GET("/*", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec.Header().Get(echo.HeaderContentType)
}

func TestDefaultTypes(t *testing.T) {
	mw := New()

	require.Equal(t, echo.MIMETextPlainCharsetUTF8, contentType(t, mw, "/logs/job/1/build-log.txt"))
	require.Equal(t, echo.MIMEApplicationXMLCharsetUTF8, contentType(t, mw, "/logs/job/1/artifacts/junit_01.XML"))
	require.Equal(t, "application/octet-stream", contentType(t, mw, "/logs/job/1/artifacts/core"))
}

func TestMimeTypesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "mime.types")

	err := os.WriteFile(file, []byte("# types\napplication/gzip gz .tgz\n"), 0644)
	require.NoError(t, err)

	mw := NewWithConfig(Config{
		MimeTypesFile: file,
	})

	require.Equal(t, "application/gzip", contentType(t, mw, "/logs/job/1/artifacts/logs.gz"))
	require.Equal(t, "application/gzip", contentType(t, mw, "/logs/job/1/artifacts/logs.tgz"))
	require.Equal(t, echo.MIMETextPlainCharsetUTF8, contentType(t, mw, "/logs/job/1/kubelet.log"))
	require.Equal(t, "", contentType(t, NewWithConfig(Config{}), "/a"))
}
