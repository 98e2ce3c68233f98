// Package log implements a logging middleware
package log

import (
	"net/http"
	"time"

	"github.com/buildlens/core/log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"
)

type Config struct {
	// Skipper defines a function to skip middleware.
	Skipper middleware.Skipper
	Logger  log.Logger
}

var DefaultConfig = Config{
	Skipper: middleware.DefaultSkipper,
	Logger:  log.New("HTTP"),
}

func New() echo.MiddlewareFunc {
	return NewWithConfig(DefaultConfig)
}

// NewWithConfig returns a middleware for logging HTTP requests. Every request
// gets an ID that is sent back in the X-Request-ID header, unless the client
// already provided one.
func NewWithConfig(config Config) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultConfig.Skipper
	}

	if config.Logger == nil {
		config.Logger = DefaultConfig.Logger
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			start := time.Now()

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if len(id) == 0 {
				id = shortuuid.New()
			}

			res.Header().Set(echo.HeaderXRequestID, id)

			path := req.URL.Path
			raw := req.URL.RawQuery

			if err := next(c); err != nil {
				c.Error(err)
			}

			latency := time.Since(start)

			if raw != "" {
				path = path + "?" + raw
			}

			logger := config.Logger.WithFields(log.Fields{
				"request_id":  id,
				"client":      c.RealIP(),
				"method":      req.Method,
				"path":        path,
				"proto":       req.Proto,
				"status":      res.Status,
				"status_text": http.StatusText(res.Status),
				"size_bytes":  res.Size,
				"latency_ms":  latency.Milliseconds(),
				"user_agent":  req.Header.Get("User-Agent"),
			})

			if res.Status >= 400 {
				logger.Warn().Log("")
				return nil
			}

			logger.Debug().Log("")

			return nil
		}
	}
}
