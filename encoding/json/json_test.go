package json

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatSyntaxError(t *testing.T) {
	input := []byte("{\n  \"result\": \"SUCCESS\",\n  \"timestamp\": }")

	var v map[string]interface{}
	err := Unmarshal(input, &v)
	require.Error(t, err)

	err = FormatError(input, err)
	require.ErrorContains(t, err, "syntax error at line 3")
}

func TestFormatTypeError(t *testing.T) {
	input := []byte(`{"timestamp": "now"}`)

	var v struct {
		Timestamp int64 `json:"timestamp"`
	}
	err := Unmarshal(input, &v)
	require.Error(t, err)

	err = FormatError(input, err)
	require.ErrorContains(t, err, "expect type 'int64' for 'timestamp' at line 1")
}

func TestToInt64(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, UnmarshalNumbers([]byte(`{"a": 1406535800, "b": "1406536800", "c": 12.7, "d": "x", "e": null}`), &v))

	i, ok := ToInt64(v["a"])
	require.True(t, ok)
	require.Equal(t, int64(1406535800), i)

	i, ok = ToInt64(v["b"])
	require.True(t, ok)
	require.Equal(t, int64(1406536800), i)

	i, ok = ToInt64(v["c"])
	require.True(t, ok)
	require.Equal(t, int64(12), i)

	_, ok = ToInt64(v["d"])
	require.False(t, ok)

	_, ok = ToInt64(v["e"])
	require.False(t, ok)
}
