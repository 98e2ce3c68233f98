// Package cors implements a validator for CORS origins
package cors

import (
	"errors"
	"strings"
)

// DefaultSchemas is a list of default allowed schemas for CORS origins
var DefaultSchemas = []string{
	"http://",
	"https://",
}

// Validate checks that every origin contains a wildcard or starts with one of
// the DefaultSchemas.
func Validate(origins []string) error {
	for _, origin := range origins {
		if strings.Contains(origin, "*") {
			continue
		}

		if !hasSchema(origin) {
			return errors.New("bad origin: origins must contain '*' or include " + strings.Join(DefaultSchemas, ", or "))
		}
	}

	return nil
}

func hasSchema(origin string) bool {
	for _, schema := range DefaultSchemas {
		if strings.HasPrefix(origin, schema) {
			return true
		}
	}

	return false
}
