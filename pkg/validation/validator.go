package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report config fields by their YAML key
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// SeedRequest is the caller-supplied set of known-relevant gene symbols
type SeedRequest struct {
	Seeds []string `validate:"required,min=1,dive,required"`
}

// ValidateSeeds checks that seeds is a non-empty collection of non-blank
// gene symbols.
func ValidateSeeds(seeds []string) error {
	req := &SeedRequest{Seeds: make([]string, len(seeds))}
	for i, s := range seeds {
		req.Seeds[i] = strings.TrimSpace(s)
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Struct validates any tagged struct and returns an InputError on failure.
func Struct(v any) error {
	if v == nil {
		return NewInputError("", "value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to an InputError
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &InputError{Reason: "validation failed", Cause: err}
	}

	// Report the first failure
	for _, e := range validationErrs {
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		param := e.Param()

		switch e.Tag() {
		case "required":
			return NewInputError(field, "field is required")
		case "min":
			return NewInputError(field, "must be at least %s", param)
		case "max":
			return NewInputError(field, "must not exceed %s", param)
		case "gt":
			return NewInputError(field, "must be greater than %s", param)
		case "lt":
			return NewInputError(field, "must be less than %s", param)
		case "lte":
			return NewInputError(field, "must be at most %s", param)
		case "oneof":
			return NewInputError(field, "must be one of [%s]", param)
		default:
			return NewInputError(field, "validation failed (%s)", e.Tag())
		}
	}

	return err
}
