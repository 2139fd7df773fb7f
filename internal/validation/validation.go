package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/greenpulse/pulse-client/internal/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields under their JSON names.
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// Struct checks s against its validate tags. It returns a
// *errors.ValidationError describing every rejected field.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[fieldError.Field()] = describe(fieldError)
	}
	return &apperrors.ValidationError{Fields: fields}
}

func describe(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldError.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fieldError.Field())
	case "eqfield":
		return "passwords do not match"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fieldError.Field(), fieldError.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fieldError.Field(), fieldError.Param())
	default:
		return fmt.Sprintf("%s is invalid", fieldError.Field())
	}
}
