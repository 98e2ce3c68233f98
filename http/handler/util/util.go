// Package util provides helpers for reading request parameters.
package util

import (
	"net/url"

	"github.com/labstack/echo/v4"
)

// PathWildcardParam returns the unescaped wildcard parameter with a leading slash.
func PathWildcardParam(c echo.Context) string {
	return "/" + PathParam(c, "*")
}

// PathParam returns the unescaped path parameter. It's empty if the parameter
// can't be unescaped.
func PathParam(c echo.Context, name string) string {
	param := c.Param(name)

	param, err := url.PathUnescape(param)
	if err != nil {
		return ""
	}

	return param
}

func DefaultQuery(c echo.Context, name, defValue string) string {
	param := c.QueryParam(name)

	if len(param) == 0 {
		return defValue
	}

	param, err := url.QueryUnescape(param)
	if err != nil {
		return defValue
	}

	return param
}
