package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/buildlens/core/build"
	"github.com/buildlens/core/encoding/json"
	"github.com/buildlens/core/http/api"
	handlerapi "github.com/buildlens/core/http/handler/api"
	"github.com/buildlens/core/http/mock"
	"github.com/buildlens/core/log"
	"github.com/buildlens/core/prometheus"

	"github.com/lestrrat-go/strftime"
	"github.com/stretchr/testify/require"
)

func getDummyServer(t *testing.T, config Config) Server {
	memfs := mock.DummyFilesystem(t, map[string]string{
		"/logs/job/1234/started.json":  `{"version": "v1+56", "timestamp": 1406535800}`,
		"/logs/job/1234/finished.json": `{"result": "FAILURE", "timestamp": 1406536800}`,
		"/logs/job/1234/build-log.txt": "starting\nerror: something broke\n",
	})

	format, err := strftime.New("%Y-%m-%d %H:%M:%S")
	require.NoError(t, err)

	config.FS = memfs
	config.Loader = build.NewLoader(build.LoaderConfig{FS: memfs})
	config.TimeFormat = format
	config.PR = PRConfig{
		Prefix:    "/pr-logs/pull",
		PublicURL: "https://gcs.example.com",
	}
	config.About = handlerapi.AboutConfig{
		Name:      "test",
		ID:        "abc",
		CreatedAt: time.Now(),
		Storage:   "mem",
	}

	s, err := NewServer(config)
	require.NoError(t, err)

	return s
}

func request(s Server, method, path string, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	s.ServeHTTP(w, req)

	return w
}

func TestServerPing(t *testing.T) {
	s := getDummyServer(t, Config{})

	w := request(s, "GET", "/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestServerAbout(t *testing.T) {
	s := getDummyServer(t, Config{})

	w := request(s, "GET", "/api", nil)
	require.Equal(t, http.StatusOK, w.Code)

	about := api.About{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &about))
	require.Equal(t, "abc", about.ID)
	require.Equal(t, "mem", about.Storage)
}

func TestServerBuild(t *testing.T) {
	s := getDummyServer(t, Config{})

	w := request(s, "GET", "/api/v1/build/logs/job/1234", nil)
	require.Equal(t, http.StatusOK, w.Code)

	b := api.Build{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	require.Equal(t, "FAILURE", b.Result)
	require.Equal(t, true, b.Finished)

	w = request(s, "GET", "/api/v1/build/logs/job/9999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestServerFile(t *testing.T) {
	s := getDummyServer(t, Config{})

	w := request(s, "GET", "/api/v1/file/logs/job/1234/build-log.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	require.Equal(t, "starting\nerror: something broke\n", w.Body.String())

	w = request(s, "HEAD", "/api/v1/file/logs/job/1234/build-log.txt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, w.Body.Len())
}

func TestServerPRRedirect(t *testing.T) {
	s := getDummyServer(t, Config{})

	w := request(s, "GET", "/pr/123/job/1", nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://gcs.example.com/pr-logs/pull/123/job/1", w.Header().Get("Location"))
}

func TestServerLog(t *testing.T) {
	buffer := log.NewBufferWriter(log.Ldebug, 10)
	s := getDummyServer(t, Config{
		Logger:    log.New("HTTP").WithOutput(buffer),
		LogBuffer: buffer,
	})

	w := request(s, "GET", "/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(s, "GET", "/api/v1/log", nil)
	require.Equal(t, http.StatusOK, w.Code)

	events := []string{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.NotEmpty(t, events)
}

func TestServerMetrics(t *testing.T) {
	s := getDummyServer(t, Config{})

	w := request(s, "GET", "/metrics", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	s = getDummyServer(t, Config{
		Prometheus: prometheus.New(),
	})

	w = request(s, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "promhttp_metric_handler_requests_total")
}

func TestServerProfiling(t *testing.T) {
	s := getDummyServer(t, Config{})

	w := request(s, "GET", "/profiling/", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	s = getDummyServer(t, Config{Profiling: true})

	w = request(s, "GET", "/profiling/", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestServerCORS(t *testing.T) {
	s := getDummyServer(t, Config{
		Cors: CorsConfig{
			Origins: []string{"https://example.com"},
		},
	})

	w := request(s, "GET", "/api", map[string]string{"Origin": "https://example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = request(s, "GET", "/ping", map[string]string{"Origin": "https://example.com"})
	require.Equal(t, "", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerInvalidCORS(t *testing.T) {
	_, err := NewServer(Config{
		Cors: CorsConfig{
			Origins: []string{"ftp://example.com/path"},
		},
	})
	require.Error(t, err)
}
