package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressValue(t *testing.T) {
	var x string

	val := NewAddress(&x, ":8080")

	require.Equal(t, ":8080", val.String())
	require.Equal(t, nil, val.Validate())
	require.Equal(t, false, val.IsEmpty())

	x = "foobaz:9090"

	require.Equal(t, "foobaz:9090", val.String())
	require.Equal(t, nil, val.Validate())
	require.Equal(t, false, val.IsEmpty())

	val.Set("7070")

	require.Equal(t, ":7070", x)

	val.Set("foobar:http")

	require.Error(t, val.Validate())
	require.Equal(t, true, val.IsEmpty())
}

func TestURLValue(t *testing.T) {
	var x string

	val := NewURL(&x, "https://storage.googleapis.com")

	require.Equal(t, "https://storage.googleapis.com", val.String())
	require.Equal(t, nil, val.Validate())
	require.Equal(t, false, val.IsEmpty())

	x = "https://github.com/kubernetes/kubernetes"

	require.Equal(t, nil, val.Validate())

	val.Set("github.com")

	require.Error(t, val.Validate())

	val.Set("")

	require.Equal(t, nil, val.Validate())
	require.Equal(t, true, val.IsEmpty())
}

func TestDirValue(t *testing.T) {
	var x string

	val := NewDir(&x, t.TempDir())

	require.Equal(t, nil, val.Validate())
	require.Equal(t, false, val.IsEmpty())

	val.Set("/does/not/exist")

	require.Error(t, val.Validate())

	val.Set("")

	require.Equal(t, nil, val.Validate())
	require.Equal(t, true, val.IsEmpty())
}

func TestCORSOriginsValue(t *testing.T) {
	var x []string

	val := NewCORSOrigins(&x, []string{}, " ")

	require.Equal(t, "(empty)", val.String())
	require.Equal(t, nil, val.Validate())
	require.Equal(t, true, val.IsEmpty())

	val.Set("https://testgrid.example.com  *")

	require.Equal(t, []string{"https://testgrid.example.com", "*"}, x)
	require.Equal(t, nil, val.Validate())

	val.Set("testgrid.example.com")

	require.NotEqual(t, nil, val.Validate())
}
