package build

import (
	"testing"
	"time"

	"github.com/buildlens/core/encoding/json"

	"github.com/stretchr/testify/require"
)

func TestTimestamp(t *testing.T) {
	s := Started{}
	require.NoError(t, json.Unmarshal([]byte(`{"version": "bb", "timestamp": 1467147654}`), &s))
	require.Equal(t, Timestamp(1467147654), s.Timestamp)

	s = Started{}
	require.NoError(t, json.Unmarshal([]byte(`{"version": "bb", "timestamp": "1467147654"}`), &s))
	require.Equal(t, Timestamp(1467147654), s.Timestamp)

	s = Started{}
	require.NoError(t, json.Unmarshal([]byte(`{"timestamp": null}`), &s))
	require.Equal(t, Timestamp(0), s.Timestamp)

	require.Error(t, json.Unmarshal([]byte(`{"timestamp": "yesterday"}`), &s))

	require.Equal(t, time.Date(2014, 7, 28, 8, 23, 20, 0, time.UTC), Timestamp(1406535800).Time())
}

func TestCommit(t *testing.T) {
	require.Equal(t, "b54c3f0b1a9c7e61", (&Started{Version: "v1.4.0-alpha.1.256+b54c3f0b1a9c7e61"}).Commit())
	require.Equal(t, "56", (&Started{Version: "v1+56"}).Commit())
	require.Equal(t, "", (&Started{Version: "v1.4.0"}).Commit())
	require.Equal(t, "", (&Started{Version: "bb"}).Commit())
	require.Equal(t, "abc", (&Started{Version: "some thing+abc"}).Commit())
	require.Equal(t, "", (&Started{}).Commit())

	var s *Started
	require.Equal(t, "", s.Commit())
}

func TestOutcome(t *testing.T) {
	passed := true
	require.Equal(t, ResultSuccess, (&Finished{Passed: &passed}).Outcome())

	failed := false
	require.Equal(t, ResultFailure, (&Finished{Passed: &failed}).Outcome())
	require.Equal(t, "ABORTED", (&Finished{Result: "ABORTED", Passed: &passed}).Outcome())
	require.Equal(t, "", (&Finished{}).Outcome())
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "16m40s", FormatDuration(1000*time.Second))
	require.Equal(t, "0s", FormatDuration(0))
	require.Equal(t, "0s", FormatDuration(-5*time.Second))
	require.Equal(t, "1m0s", FormatDuration(time.Minute))
	require.Equal(t, "2h0m5s", FormatDuration(2*time.Hour+5*time.Second))
	require.Equal(t, "1d0h0m1s", FormatDuration(24*time.Hour+time.Second))

	require.Equal(t, "1m36s", FormatSeconds(96.49))
	require.Equal(t, "36.49s", FormatSeconds(36.49))
	require.Equal(t, "0.21s", FormatSeconds(0.210))
}

func TestLinks(t *testing.T) {
	repo := &SourceRepo{Prefix: "/go/src/k8s.io/kubernetes/", URL: "https://github.com/kubernetes/kubernetes/"}

	links := repo.Links("/go/src/k8s.io/kubernetes/test/e2e/pods.go:42\n/usr/lib/go/src/runtime/panic.go:12", "abc")
	require.Len(t, links, 1)
	require.Equal(t, "test/e2e/pods.go", links[0].File)
	require.Equal(t, "https://github.com/kubernetes/kubernetes/blob/abc/test/e2e/pods.go#L42", links[0].URL)

	var none *SourceRepo
	require.Nil(t, none.Links("/go/src/k8s.io/kubernetes/test.go:1", "abc"))
}
