package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"customer-portal/pkg/constants"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

// registerRules wires the portal-specific validation tags.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return constants.Role(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("role_list", func(fl validator.FieldLevel) bool {
		roles, ok := fl.Field().Interface().([]string)
		if !ok || len(roles) == 0 {
			return false
		}
		return constants.ValidRoleStrings(roles)
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}

	return nil
}
