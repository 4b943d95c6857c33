package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("file_ext", validateFileExt)
}

// validateFileExt accepts a dot followed by at least one character and no
// path separators, e.g. ".tsx".
func validateFileExt(fl validator.FieldLevel) bool {
	ext := fl.Field().String()
	if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
		return false
	}
	return !strings.ContainsAny(ext, `/\ `)
}
