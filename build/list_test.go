package build

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListBuilds(t *testing.T) {
	store := newStore(t, map[string]string{
		"/logs/job/10/started.json":  "{}",
		"/logs/job/11/started.json":  "{}",
		"/logs/job/12/started.json":  "{}",
		"/logs/job/9/started.json":   "{}",
		"/logs/job/latest-build.txt": "12",
		"/logs/jobs/1/started.json":  "{}",
	})

	require.Equal(t, []string{"12", "11", "10", "9"}, ListBuilds(store, "/logs/job"))
	require.Equal(t, []string{"job", "jobs"}, ListJobs(store, "/logs"))
	require.Empty(t, ListBuilds(store, "/logs/nothing"))
}

func TestSortBuilds(t *testing.T) {
	builds := []string{"a", "2", "b", "10", "1"}
	SortBuilds(builds)

	require.Equal(t, []string{"10", "2", "1", "b", "a"}, builds)
}
