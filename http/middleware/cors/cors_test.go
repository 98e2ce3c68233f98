package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestInvalidOrigin(t *testing.T) {
	_, err := NewWithConfig(Config{
		Prefixes: map[string][]string{
			"/api": {"example.com"},
		},
	})
	require.Error(t, err)
}

func TestPrefix(t *testing.T) {
	mw, err := NewWithConfig(Config{
		Prefixes: map[string][]string{
			"/api": {"https://testgrid.example.com"},
		},
	})
	require.NoError(t, err)

	router := echo.New()
	router.Use(mw)
	router.GET("/*", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/build/logs/job/1", nil)
	req.Header.Set(echo.HeaderOrigin, "https://testgrid.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "https://testgrid.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/pr/1234", nil)
	req.Header.Set(echo.HeaderOrigin, "https://testgrid.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, "", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
