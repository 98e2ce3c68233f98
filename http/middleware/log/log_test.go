package log

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buildlens/core/log"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	buffer := log.NewBufferWriter(log.Ldebug, 10)

	router := echo.New()
	router.Use(NewWithConfig(Config{
		Logger: log.New("HTTP").WithOutput(buffer),
	}))
	router.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	router.GET("/missing", func(c echo.Context) error {
		return echo.ErrNotFound
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping?x=1", nil))

	id := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, id)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "abc", rec.Header().Get(echo.HeaderXRequestID))
	require.Equal(t, http.StatusNotFound, rec.Code)

	events := buffer.Events()
	require.Equal(t, 2, len(events))

	require.Equal(t, id, events[0].Data["request_id"])
	require.Equal(t, "/ping?x=1", events[0].Data["path"])
	require.Equal(t, log.Ldebug, events[0].Level)

	require.Equal(t, "abc", events[1].Data["request_id"])
	require.Equal(t, log.Lwarn, events[1].Level)
}
