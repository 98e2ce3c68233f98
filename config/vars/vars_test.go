package vars

import (
	"testing"

	"github.com/buildlens/core/config/value"

	"github.com/stretchr/testify/require"
)

func TestVars(t *testing.T) {
	v1 := Variables{}

	s := ""

	v1.Register(value.NewString(&s, "foobar"), "string", "", "a string", false, false)

	require.Equal(t, "foobar", s)
	x, _ := v1.Get("string")
	require.Equal(t, "foobar", x)

	v := v1.findVariable("string")
	v.value.Set("barfoo")

	require.Equal(t, "barfoo", s)
	x, _ = v1.Get("string")
	require.Equal(t, "barfoo", x)

	v1.Set("string", "foobaz")

	require.Equal(t, "foobaz", s)
	x, _ = v1.Get("string")
	require.Equal(t, "foobaz", x)

	v1.SetDefault("string")

	require.Equal(t, "foobar", s)
	x, _ = v1.Get("string")
	require.Equal(t, "foobar", x)

	_, err := v1.Get("unknown")
	require.Error(t, err)
}

func TestMergeFrom(t *testing.T) {
	v1 := Variables{}

	s := ""
	n := 0

	v1.Register(value.NewString(&s, "build-log.txt"), "build.log_file", "BUILDLENS_BUILD_LOG_FILE", "", false, false)
	v1.Register(value.NewInt(&n, 10), "build.max_error_lines", "BUILDLENS_BUILD_MAX_ERROR_LINES", "", false, false)

	env := map[string]string{
		"BUILDLENS_BUILD_LOG_FILE":        "log.txt",
		"BUILDLENS_BUILD_MAX_ERROR_LINES": "many",
	}

	v1.MergeFrom(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	require.Equal(t, "log.txt", s)
	require.Equal(t, 10, n)
	require.True(t, v1.IsMerged("build.log_file"))
	require.True(t, v1.HasErrors())
	require.Equal(t, []string{"build.log_file", "build.max_error_lines"}, v1.Overrides())

	messages := []string{}
	v1.Messages(func(level string, v Variable, message string) {
		messages = append(messages, level+" "+v.Name+" "+message)
	})

	require.Equal(t, 1, len(messages))
	require.Contains(t, messages[0], "error build.max_error_lines")
}

func TestValidateRequired(t *testing.T) {
	v1 := Variables{}

	s := ""
	secret := "secret"

	v1.Register(value.NewString(&s, ""), "id", "", "", true, false)
	v1.Register(value.NewString(&secret, "secret"), "storage.s3.secret_access_key", "", "", false, true)

	v1.Validate()
	require.True(t, v1.HasErrors())

	values := map[string]string{}
	v1.Messages(func(level string, v Variable, message string) {
		values[v.Name] = v.Value
	})

	require.Equal(t, "***", values["storage.s3.secret_access_key"])

	v1.ResetLogs()
	require.False(t, v1.HasErrors())
}

func TestList(t *testing.T) {
	v1 := Variables{}

	s := ""
	secret := ""

	v1.Register(value.NewString(&s, "us-east-1"), "storage.s3.region", "BUILDLENS_STORAGE_S3_REGION", "S3 region", false, false)
	v1.Register(value.NewString(&secret, "abc"), "storage.s3.secret_access_key", "BUILDLENS_STORAGE_S3_SECRET_ACCESS_KEY", "", false, true)

	list := v1.List()
	require.Equal(t, 2, len(list))
	require.Equal(t, Variable{
		Value:       "us-east-1",
		Name:        "storage.s3.region",
		EnvName:     "BUILDLENS_STORAGE_S3_REGION",
		Description: "S3 region",
	}, list[0])
	require.Equal(t, "***", list[1].Value)
	require.Equal(t, "abc", secret)
}
