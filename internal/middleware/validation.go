package middleware

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/madrasa/backoffice/internal/pkg/apperrors"
	"github.com/madrasa/backoffice/internal/pkg/validation"
)

// SetupValidator registers the custom binding rules on gin's validator and
// makes it report JSON field names, so messages read "registration_date is
// required" rather than the Go field name.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := validation.RegisterRules(v); err != nil {
		return err
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return nil
}

// BindingError converts a ShouldBind* error into an application error: field
// validation failures become a validation error with one message per field,
// anything else (malformed JSON, wrong types) a bad request.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]interface{}, len(verrs))
		messages := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msg := formatValidationError(fe)
			details[fe.Field()] = msg
			messages = append(messages, msg)
		}
		return apperrors.NewValidationError(strings.Join(messages, "; "), details)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.NewBadRequestError(typeErr.Field + " has the wrong type, expected " + typeErr.Type.String())
	}

	return apperrors.NewBadRequestError("invalid request body: " + err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case validation.TagPhone:
		return e.Field() + " must be a valid phone number"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
