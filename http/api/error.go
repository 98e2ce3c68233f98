package api

import (
	"fmt"
	"net/http"
	"strings"
)

// Error represents an error response of the API
type Error struct {
	Code    int      `json:"code" jsonschema:"required" format:"int"`
	Message string   `json:"message" jsonschema:""`
	Details []string `json:"details" jsonschema:""`
}

// Error returns the string representation of the error
func (e Error) Error() string {
	return fmt.Sprintf("code=%d, message=%s, details=%s", e.Code, e.Message, strings.Join(e.Details, " "))
}

// Err creates a new API error with the given HTTP status code. An empty message
// is replaced by the status text of the code. A string as first arg is used as
// format for the remaining args, the result becomes the details, one per line.
func Err(code int, message string, args ...interface{}) Error {
	if len(message) == 0 {
		message = http.StatusText(code)
	}

	e := Error{
		Code:    code,
		Message: message,
		Details: []string{},
	}

	if len(args) == 0 {
		return e
	}

	if format, ok := args[0].(string); ok {
		e.Details = SplitDetails(fmt.Sprintf(format, args[1:]...))
	}

	return e
}

// SplitDetails splits text into lines and drops the blank ones. Paths and log
// excerpts often end with a newline.
func SplitDetails(text string) []string {
	details := []string{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r\t ")
		if len(line) == 0 {
			continue
		}

		details = append(details, line)
	}

	return details
}
