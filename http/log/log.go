// Package log forwards the output of the echo logger to the application log.
package log

import (
	"io"
	"strings"

	"github.com/buildlens/core/encoding/json"
)

type logwrapper struct {
	writer io.Writer
}

type logentry struct {
	Message string `json:"message"`
}

// NewWrapper returns a writer that unpacks the JSON lines written by echo and
// writes every line of their message to writer.
func NewWrapper(writer io.Writer) io.Writer {
	return &logwrapper{
		writer: writer,
	}
}

func (b *logwrapper) Write(p []byte) (int, error) {
	log := logentry{}
	if err := json.Unmarshal(p, &log); err == nil {
		if len(log.Message) != 0 {
			lines := strings.Split(log.Message, "\n")

			for _, line := range lines {
				b.writer.Write([]byte(line))
			}

			return len(p), nil
		}
	}

	return b.writer.Write(p)
}
