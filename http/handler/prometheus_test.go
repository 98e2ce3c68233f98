package handler

import (
	"net/http"
	"testing"

	"github.com/buildlens/core/http/mock"

	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	router := mock.DummyEcho()

	handler := NewPrometheus(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("views_total 1\n"))
	}))

	router.Add("GET", "/metrics", handler.Metrics)

	response := mock.Request(t, http.StatusOK, router, "GET", "/metrics", nil)

	require.Equal(t, "views_total 1\n", string(response.Raw))
}

func TestProfiling(t *testing.T) {
	router := mock.DummyEcho()

	NewProfiling().Register(router.Group("/profiling"))

	response := mock.Request(t, http.StatusOK, router, "GET", "/profiling/cmdline", nil)

	require.NotEmpty(t, response.Raw)
}
