package glob

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatterns(t *testing.T) {
	g, err := Compile("**/artifacts/**.xml", '/')
	require.NoError(t, err)
	require.True(t, g.Match("/logs/job/12/artifacts/junit_01.xml"))

	g = MustCompile("**/artifacts/*.xml", '/')
	require.False(t, g.Match("/logs/job/12/artifacts/node/junit_01.xml"))
	require.True(t, g.Match("/logs/job/12/artifacts/junit_01.xml"))

	g = MustCompile("{/pr-logs,}/logs/**", '/')
	require.True(t, g.Match("/logs/job/12/build-log.txt"))
	require.True(t, g.Match("/pr-logs/job/12/build-log.txt"))

	_, err = Compile("[")
	require.Error(t, err)

	require.Panics(t, func() { MustCompile("[") })
}

func TestPrefix(t *testing.T) {
	require.Equal(t, "/logs/job/", Prefix("/logs/job/*/started.json"))
	require.Equal(t, "/logs/job/12", Prefix("/logs/job/12"))
	require.True(t, IsPattern("junit_?.xml"))
	require.False(t, IsPattern("junit_01.xml"))
	require.Equal(t, "/logs/", Prefix("/logs/{a,b}/**"))
}

func TestSet(t *testing.T) {
	set, err := CompileSet("*.log", "**/kubelet*")
	require.NoError(t, err)

	require.True(t, set.Match("kube-apiserver.log"))
	require.True(t, set.Match("node/kubelet.txt"))
	require.False(t, set.Match("node/docker.txt"))

	require.False(t, Set{}.Match("anything"))

	_, err = CompileSet("ok", "[")
	require.Error(t, err)
}
