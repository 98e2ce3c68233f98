// Package cors applies CORS headers per path prefix.
package cors

import (
	"fmt"
	"strings"
	"time"

	"github.com/buildlens/core/http/cors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Config struct {
	// Skipper defines a function to skip middleware.
	Skipper  middleware.Skipper
	Prefixes map[string][]string
}

var DefaultConfig = Config{
	Skipper:  middleware.DefaultSkipper,
	Prefixes: nil,
}

func New() echo.MiddlewareFunc {
	mw, _ := NewWithConfig(DefaultConfig)

	return mw
}

// NewWithConfig returns a middleware that allows read-only cross origin requests
// for the configured origins. The longest matching prefix of the request path wins.
func NewWithConfig(config Config) (echo.MiddlewareFunc, error) {
	if config.Skipper == nil {
		config.Skipper = DefaultConfig.Skipper
	}

	prefixes := make(map[string]echo.MiddlewareFunc)

	for prefix, origins := range config.Prefixes {
		if len(origins) == 0 {
			continue
		}

		if err := cors.Validate(origins); err != nil {
			return nil, fmt.Errorf("CORS config for prefix %s is invalid: %w", prefix, err)
		}

		conf := middleware.CORSConfig{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "HEAD"},
			AllowHeaders:  []string{"Origin", "Content-Type", echo.HeaderXRequestID},
			ExposeHeaders: []string{"Content-Length", echo.HeaderXRequestID},
			MaxAge:        int((24 * time.Hour).Seconds()),
		}

		prefixes[prefix] = middleware.CORSWithConfig(conf)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			path := c.Request().URL.Path

			var middlewareFunc echo.MiddlewareFunc
			var maxPrefixLen int

			for prefix, h := range prefixes {
				if strings.HasPrefix(path, prefix) && len(prefix) > maxPrefixLen {
					maxPrefixLen = len(prefix)
					middlewareFunc = h
				}
			}

			if middlewareFunc != nil {
				return middlewareFunc(next)(c)
			}

			return next(c)
		}
	}, nil
}
