package api

import (
	"net/http"
	"testing"

	"github.com/buildlens/core/build"
	"github.com/buildlens/core/http/api"
	"github.com/buildlens/core/http/mock"

	"github.com/labstack/echo/v4"
	"github.com/lestrrat-go/strftime"
	"github.com/stretchr/testify/require"
)

func prFiles() map[string]string {
	return map[string]string{
		"/pr-logs/pull/123/build/12/started.json":  `{"version": "v1.4.0-alpha.1.256+b54c3f0b1a9c7e61", "timestamp": 1467147654}`,
		"/pr-logs/pull/123/build/11/started.json":  `{"version": "bb", "timestamp": 1467146654}`,
		"/pr-logs/pull/123/build/11/finished.json": `{"result": "SUCCESS"}`,
		"/pr-logs/pull/123/build/10/started.json":  `{"version": "aa", "timestamp": 1467136654}`,
		"/pr-logs/pull/123/build/10/finished.json": `{"result": "FAILURE"}`,
		"/pr-logs/pull/123/e2e/47/started.json":    `{"version": "bb", "timestamp": "1467147654"}`,
		"/pr-logs/pull/123/e2e/47/finished.json":   `{"passed": false}`,
	}
}

func getDummyPRRouter(t *testing.T, views ViewRecorder) *echo.Echo {
	router := mock.DummyEcho()

	format, err := strftime.New("%Y-%m-%d %H:%M")
	require.NoError(t, err)

	handler := NewPR(PRConfig{
		FS:         mock.DummyFilesystem(t, prFiles()),
		Prefix:     "/pr-logs/pull",
		RepoURL:    "https://github.com/kubernetes/kubernetes/",
		PublicURL:  "https://storage.googleapis.com/kubernetes-jenkins/",
		TimeFormat: format,
		Views:      views,
	})

	router.Add("GET", "/api/v1/pr/:pr", handler.Get)
	router.Add("GET", "/pr/*", handler.Redirect)

	return router
}

func TestPRGet(t *testing.T) {
	views := newDummyViews()
	router := getDummyPRRouter(t, views)

	response := mock.Request(t, http.StatusOK, router, "GET", "/api/v1/pr/123", nil)

	mock.Validate(t, &api.PR{}, response.Data)

	p := api.PR{}
	mock.Decode(t, response, &p)

	require.Equal(t, "123", p.Number)
	require.Equal(t, "https://github.com/kubernetes/kubernetes/pull/123", p.Link)
	require.Equal(t, map[string]int{"build": 3, "e2e": 1}, p.Builds)
	require.Len(t, p.Jobs, 2)
	require.Equal(t, "build", p.Jobs[0].Name)
	require.Equal(t, api.PRBuild{
		Number:  "12",
		Result:  build.ResultNotFinished,
		Started: "2016-06-28 21:00",
		Version: "v1.4.0-alpha.1.256+b54c3f0b1a9c7e61",
		Commit:  "b54c3f0b1a9c7e61",
	}, p.Jobs[0].Builds[0])
	require.Equal(t, "SUCCESS", p.Jobs[0].Builds[1].Result)
	require.Equal(t, "FAILURE", p.Jobs[0].Builds[2].Result)
	require.Equal(t, "e2e", p.Jobs[1].Name)
	require.Equal(t, "FAILURE", p.Jobs[1].Builds[0].Result)

	require.Equal(t, 1, views.views["pr ok"])
}

func TestPRNoResults(t *testing.T) {
	router := getDummyPRRouter(t, nil)

	response := mock.Request(t, http.StatusNotFound, router, "GET", "/api/v1/pr/124", nil)
	require.Equal(t, "No Results", response.Message)
}

func TestPRInvalid(t *testing.T) {
	router := getDummyPRRouter(t, nil)

	response := mock.Request(t, http.StatusBadRequest, router, "GET", "/api/v1/pr/abc", nil)
	require.Equal(t, "Invalid pull request", response.Message)

	mock.Request(t, http.StatusBadRequest, router, "GET", "/api/v1/pr/0", nil)
}

func TestPRRedirect(t *testing.T) {
	router := getDummyPRRouter(t, nil)

	response := mock.RequestEx(t, http.StatusFound, router, "GET", "/pr/123/build/12/started.json", nil, false)

	require.Equal(t, "https://storage.googleapis.com/kubernetes-jenkins/pr-logs/pull/123/build/12/started.json", response.Header.Get("Location"))
}
