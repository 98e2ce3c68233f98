// Package mime sets the content type of raw artifacts by their extension.
package mime

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config defines the config for Mime middleware.
type Config struct {
	// Skipper defines a function to skip middleware.
	Skipper middleware.Skipper

	// MimeTypesFile holds additional types, one per line: "type .ext .ext ...".
	MimeTypesFile      string
	DefaultContentType string
}

// DefaultConfig is the default Mime middleware config.
var DefaultConfig = Config{
	Skipper:            middleware.DefaultSkipper,
	MimeTypesFile:      "",
	DefaultContentType: "application/octet-stream",
}

// DefaultTypes are the types of the files a build usually consists of.
var DefaultTypes = map[string]string{
	".log":  echo.MIMETextPlainCharsetUTF8,
	".txt":  echo.MIMETextPlainCharsetUTF8,
	".xml":  echo.MIMEApplicationXMLCharsetUTF8,
	".json": echo.MIMEApplicationJSONCharsetUTF8,
	".html": echo.MIMETextHTMLCharsetUTF8,
}

func New() echo.MiddlewareFunc {
	return NewWithConfig(DefaultConfig)
}

func NewWithConfig(config Config) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultConfig.Skipper
	}

	mimeTypes := map[string]string{}
	for ext, mimeType := range DefaultTypes {
		mimeTypes[ext] = mimeType
	}

	for ext, mimeType := range loadMimeFile(config.MimeTypesFile) {
		mimeTypes[ext] = mimeType
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			ext := strings.ToLower(filepath.Ext(c.Request().URL.Path))
			mimeType := mimeTypes[ext]

			if mimeType == "" {
				mimeType = config.DefaultContentType
			}

			if mimeType != "" {
				c.Response().Header().Set(echo.HeaderContentType, mimeType)
			}

			return next(c)
		}
	}
}

func loadMimeFile(filename string) map[string]string {
	mimeTypes := make(map[string]string)

	if len(filename) == 0 {
		return mimeTypes
	}

	f, err := os.Open(filename)
	if err != nil {
		return mimeTypes
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) <= 1 || fields[0][0] == '#' {
			continue
		}
		mimeType := fields[0]

		for _, ext := range fields[1:] {
			if ext[0] == '#' {
				break
			}

			if ext[0] != '.' {
				ext = "." + ext
			}

			mimeTypes[strings.ToLower(ext)] = mimeType
		}
	}

	return mimeTypes
}
