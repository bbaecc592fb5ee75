package validation

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates the validator with null-type adapters and the portal's
// custom rules registered. Registration failures are fatal: the server
// must not start with a half-configured validator.
func New() *CustomValidator {
	v := validator.New()

	registerNullTypes(v)

	if err := registerRules(v); err != nil {
		panic("failed to register custom validation rules: " + err.Error())
	}

	return &CustomValidator{validator: v}
}
