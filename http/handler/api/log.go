package api

import (
	"net/http"
	"strings"

	"github.com/buildlens/core/http/api"
	"github.com/buildlens/core/http/handler/util"
	"github.com/buildlens/core/log"

	"github.com/labstack/echo/v4"
)

// The LogHandler type provides handler functions for reading the application log
type LogHandler struct {
	buffer log.BufferWriter
}

// NewLog return a new Log type. You have to provide log buffer.
func NewLog(buffer log.BufferWriter) *LogHandler {
	l := &LogHandler{
		buffer: buffer,
	}

	if l.buffer == nil {
		l.buffer = log.NewBufferWriter(log.Lsilent, 1)
	}

	return l
}

// Log returns the last log lines of the application
// @Summary Application log
// @Description Get the last log lines of the application
// @ID log-1
// @Param format query string false "Format of the list of log events (*console, raw)"
// @Produce json
// @Success 200 {array} api.LogEvent "application log"
// @Success 200 {array} string "application log"
// @Router /api/v1/log [get]
func (p *LogHandler) Log(c echo.Context) error {
	format := util.DefaultQuery(c, "format", "console")

	events := p.buffer.Events()

	if format == "raw" {
		log := make([]api.LogEvent, len(events))

		for i, e := range events {
			event := api.LogEvent{}
			for k, v := range e.Data {
				if err, ok := v.(error); ok {
					v = err.Error()
				}

				event[k] = v
			}

			event["ts"] = e.Time
			event["level"] = e.Level.String()
			event["component"] = e.Component

			if len(e.Caller) != 0 {
				event["caller"] = e.Caller
			}

			if len(e.Message) != 0 {
				event["message"] = e.Message
			}

			log[i] = event
		}

		return c.JSON(http.StatusOK, log)
	}

	formatter := log.NewConsoleFormatter(false)

	log := make([]string, len(events))

	for i, e := range events {
		log[i] = strings.TrimSpace(formatter.String(e))
	}

	return c.JSON(http.StatusOK, log)
}
