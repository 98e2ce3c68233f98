// Package validator validates bound request parameters with struct tags.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type structValidator struct {
	validator *validator.Validate
}

// New returns a new Validator for the echo webserver framework
func New() echo.Validator {
	v := &structValidator{
		validator: validator.New(),
	}

	return v
}

func (cv *structValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
