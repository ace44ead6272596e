package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// "max" counts runes; bcrypt's limit is in bytes.
	if err := v.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	}); err != nil {
		panic(err)
	}

	return v
}

// Validate checks v against its validate tags and reports the first failing
// field as a DomainError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate %T: %w", v, err)
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return MissingFieldError(field)
	case "email":
		return ValidationError(field, "must be a valid email address")
	case "max":
		return ValidationError(field, fmt.Sprintf("must be at most %s characters", fe.Param()))
	case "password_bytes":
		return ValidationError(field, fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	case "gt":
		return ValidationError(field, "must be greater than "+fe.Param())
	case "gte":
		return ValidationError(field, "must be at least "+fe.Param())
	case "lte":
		return ValidationError(field, "must be at most "+fe.Param())
	default:
		return ValidationError(field, "failed "+fe.Tag()+" check")
	}
}
