package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type lines struct {
	lines []string
}

func (l *lines) Write(p []byte) (int, error) {
	l.lines = append(l.lines, string(p))
	return len(p), nil
}

func TestWrapper(t *testing.T) {
	out := &lines{}
	w := NewWrapper(out)

	entry := []byte(`{"message":"http: TLS handshake error\nEOF"}`)

	n, err := w.Write(entry)
	require.NoError(t, err)
	require.Equal(t, len(entry), n)
	require.Equal(t, []string{"http: TLS handshake error", "EOF"}, out.lines)

	out.lines = nil

	w.Write([]byte("plain"))
	require.Equal(t, []string{"plain"}, out.lines)
}
