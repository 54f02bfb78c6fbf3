package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// RegisterValidators adds the portal's custom binding tags to v.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})
}

// ValidPincode reports whether s is a six digit postal code.
func ValidPincode(s string) bool {
	return pincodePattern.MatchString(s)
}
