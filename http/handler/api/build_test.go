package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/buildlens/core/build"
	"github.com/buildlens/core/http/api"
	"github.com/buildlens/core/http/cache"
	"github.com/buildlens/core/http/mock"

	"github.com/labstack/echo/v4"
	"github.com/lestrrat-go/strftime"
	"github.com/stretchr/testify/require"
)

func getDummyBuildRouter(t *testing.T) (*echo.Echo, cache.Cacher, *dummyViews) {
	router := mock.DummyEcho()

	c, err := cache.NewLRUCache(cache.LRUConfig{
		TTL:        time.Minute,
		MaxEntries: 10,
	})
	require.NoError(t, err)

	format, err := strftime.New("%Y-%m-%d %H:%M:%S %Z")
	require.NoError(t, err)

	views := newDummyViews()

	handler := NewBuild(BuildConfig{
		Loader: build.NewLoader(build.LoaderConfig{
			FS: mock.DummyFilesystem(t, buildFiles()),
			Source: &build.SourceRepo{
				Prefix: "/go/src/k8s.io/kubernetes/",
				URL:    "https://github.com/kubernetes/kubernetes",
			},
		}),
		Cache:      c,
		TimeFormat: format,
		Views:      views,
	})

	router.Add("GET", "/api/v1/build/*", handler.Get)

	return router, c, views
}

func TestBuildGet(t *testing.T) {
	router, c, views := getDummyBuildRouter(t)

	response := mock.Request(t, http.StatusOK, router, "GET", "/api/v1/build/logs/job/1234/", nil)

	require.Equal(t, "MISS", response.Header.Get("X-Cache"))

	mock.Validate(t, &api.Build{}, response.Data)

	b := api.Build{}
	mock.Decode(t, response, &b)

	require.Equal(t, "/logs/job/1234", b.Path)
	require.Equal(t, "SUCCESS", b.Result)
	require.True(t, b.Finished)
	require.Equal(t, "2014-07-28 08:23:20 UTC", b.Started)
	require.Equal(t, int64(1406535800), b.StartedAt)
	require.Equal(t, "16m40s", b.Duration)
	require.Equal(t, "56", b.Commit)
	require.Equal(t, 1, b.Passed)
	require.Equal(t, 1, b.Failed)
	require.Equal(t, 1, b.Skipped)
	require.Len(t, b.Failures, 1)
	require.Equal(t, "Third", b.Failures[0].Name)
	require.Equal(t, "1m36s", b.Failures[0].Duration)
	require.Equal(t, "https://github.com/kubernetes/kubernetes/blob/56/test.go#L123", b.Failures[0].Links[0].URL)
	require.Empty(t, b.LogExcerpt)

	_, ttl := c.Get("/logs/job/1234")
	require.Equal(t, time.Duration(0), ttl)

	response = mock.Request(t, http.StatusOK, router, "GET", "/api/v1/build/logs/job/1234", nil)

	require.Equal(t, "HIT", response.Header.Get("X-Cache"))
	require.Equal(t, 2, views.views["build SUCCESS"])
}

func TestBuildNotFinished(t *testing.T) {
	router, c, views := getDummyBuildRouter(t)

	response := mock.Request(t, http.StatusOK, router, "GET", "/api/v1/build/logs/job/1235", nil)

	mock.Validate(t, &api.Build{}, response.Data)

	b := api.Build{}
	mock.Decode(t, response, &b)

	require.Equal(t, build.ResultNotFinished, b.Result)
	require.False(t, b.Finished)
	require.True(t, b.NoTestResults)
	require.Empty(t, b.Failures)
	require.Equal(t, []api.LogLine{
		{
			Number: 2,
			Text:   "FAIL: something <b>bad</b>",
			HTML:   `<span class="keyword">FAIL</span>: something &lt;b&gt;bad&lt;/b&gt;`,
		},
	}, b.LogExcerpt)

	_, ttl := c.Get("/logs/job/1235")
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, time.Minute)

	require.Equal(t, 1, views.views["build Not Finished"])
}

func TestBuildNotFound(t *testing.T) {
	router, c, views := getDummyBuildRouter(t)

	response := mock.Request(t, http.StatusNotFound, router, "GET", "/api/v1/build/logs/job/999", nil)

	require.Equal(t, "Build not found", response.Message)
	require.Equal(t, 0, c.Len())
	require.Equal(t, 1, views.views["build not found"])
}

func TestBuildWithoutCache(t *testing.T) {
	router := mock.DummyEcho()

	handler := NewBuild(BuildConfig{
		Loader: build.NewLoader(build.LoaderConfig{
			FS: mock.DummyFilesystem(t, buildFiles()),
		}),
	})

	router.Add("GET", "/api/v1/build/*", handler.Get)

	response := mock.Request(t, http.StatusOK, router, "GET", "/api/v1/build/logs/job/1234", nil)

	b := api.Build{}
	mock.Decode(t, response, &b)

	require.Equal(t, "2014-07-28T08:23:20Z", b.Started)
}
