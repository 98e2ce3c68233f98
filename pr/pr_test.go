package pr

import (
	"errors"
	"testing"

	"github.com/buildlens/core/build"
	"github.com/buildlens/core/io/fs"

	"github.com/stretchr/testify/require"
)

const prefix = "/pr-logs/pull"

func newStore(t *testing.T) fs.Filesystem {
	memfs, err := fs.NewMemFilesystem(fs.MemConfig{})
	require.NoError(t, err)

	files := map[string]string{
		"/pr-logs/pull/123/build/12/started.json":  `{"version": "bb", "timestamp": 1467147654}`,
		"/pr-logs/pull/123/build/11/started.json":  `{"version": "bb", "timestamp": 1467146654}`,
		"/pr-logs/pull/123/build/11/finished.json": `{"result": "PASSED"}`,
		"/pr-logs/pull/123/build/10/started.json":  `{"version": "aa", "timestamp": 1467136654}`,
		"/pr-logs/pull/123/build/10/finished.json": `{"result": "FAILED"}`,
		"/pr-logs/pull/123/e2e/47/started.json":    `{"version": "bb", "timestamp": "1467147654"}`,
		"/pr-logs/pull/123/e2e/47/finished.json":   `{"result": "[UNSET]"}`,
		"/pr-logs/pull/123/e2e/46/started.json":    `{"version": "aa", "timestamp": "1467136700"}`,
		"/pr-logs/pull/123/e2e/46/finished.json":   `{"result": "[UNSET]"}`,
		"/pr-logs/pull/1234/e2e/1/started.json":    `{"version": "cc", "timestamp": 1467136700}`,
	}

	for name, data := range files {
		_, _, err := memfs.WriteFile(name, []byte(data))
		require.NoError(t, err)
	}

	return memfs
}

func TestBuilds(t *testing.T) {
	builds, err := Builds(newStore(t), prefix, "123")
	require.NoError(t, err)

	require.Equal(t, map[string][]Build{
		"build": {
			{Number: "12", Started: &build.Started{Version: "bb", Timestamp: 1467147654}},
			{Number: "11", Started: &build.Started{Version: "bb", Timestamp: 1467146654}, Finished: &build.Finished{Result: "PASSED"}},
			{Number: "10", Started: &build.Started{Version: "aa", Timestamp: 1467136654}, Finished: &build.Finished{Result: "FAILED"}},
		},
		"e2e": {
			{Number: "47", Started: &build.Started{Version: "bb", Timestamp: 1467147654}, Finished: &build.Finished{Result: "[UNSET]"}},
			{Number: "46", Started: &build.Started{Version: "aa", Timestamp: 1467136700}, Finished: &build.Finished{Result: "[UNSET]"}},
		},
	}, builds)

	require.Equal(t, build.ResultNotFinished, builds["build"][0].Result())
	require.Equal(t, "PASSED", builds["build"][1].Result())
}

func TestBuildsMissing(t *testing.T) {
	builds, err := Builds(newStore(t), prefix, "124")
	require.NoError(t, err)
	require.Empty(t, builds)
}

func TestBuildsInvalid(t *testing.T) {
	_, err := Builds(newStore(t), prefix, "../123")
	require.True(t, errors.Is(err, ErrInvalidPR))

	_, err = Builds(newStore(t), prefix, "0")
	require.True(t, errors.Is(err, ErrInvalidPR))
}
