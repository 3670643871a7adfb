package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Monetized unit kind validation
	validate.RegisterValidation("unit_kind", func(fl validator.FieldLevel) bool {
		kind := fl.Field().String()
		validKinds := []string{"banner", "link"}
		for _, k := range validKinds {
			if kind == k {
				return true
			}
		}
		return false
	})

	// Currency code validation (ISO-4217 shape, not an exhaustive list)
	validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if code == "" {
			return true
		}
		if len(code) != 3 {
			return false
		}
		for i := 0; i < 3; i++ {
			if code[i] < 'A' || code[i] > 'Z' {
				return false
			}
		}
		return true
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "url":
			errors[field] = "Must be a valid URL"
		case "uuid":
			errors[field] = "Must be a valid UUID"
		case "unit_kind":
			errors[field] = "Must be one of: banner, link"
		case "currency":
			errors[field] = "Must be a 3-letter currency code"
		case "min":
			errors[field] = "Value is below the allowed minimum"
		case "gte":
			errors[field] = "Value must not be negative"
		default:
			errors[field] = "Invalid value"
		}
	}
	return errors
}
