package errorhandler

import (
	"fmt"
	"net/http"

	"github.com/buildlens/core/http/api"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler writes handler errors as api.Error. HEAD requests only get the status code.
func HTTPErrorHandler(err error, c echo.Context) {
	var code int = 0
	var details []string
	message := ""

	if he, ok := err.(api.Error); ok {
		code = he.Code
		message = he.Message
		details = he.Details
	} else if he, ok := err.(*echo.HTTPError); ok {
		if he.Internal != nil {
			if herr, ok := he.Internal.(*echo.HTTPError); ok {
				he = herr
			}
		}

		code = he.Code
		message = http.StatusText(he.Code)
		details = api.SplitDetails(fmt.Sprintf("%v", he.Message))
	} else {
		code = http.StatusInternalServerError
		message = http.StatusText(http.StatusInternalServerError)
		details = api.SplitDetails(err.Error())
	}

	// Send response
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			c.NoContent(code)
		} else {
			c.JSON(code, api.Error{
				Code:    code,
				Message: message,
				Details: details,
			})
		}
	}
}
