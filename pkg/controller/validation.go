package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/nimburion/blogapi/pkg/server/router"
)

// Validator is implemented by DTOs with rules that struct tags cannot express.
// It runs after tag validation succeeds.
type Validator interface {
	Validate() error
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// ValidateDTO checks `validate` struct tags and then the Validator interface.
// Failures are returned as a validation AppError whose details map each
// offending JSON field to its rule.
func ValidateDTO(dto interface{}) error {
	if dto == nil {
		return NewInvalidBodyError()
	}
	v := reflect.ValueOf(dto)
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return NewInvalidBodyError()
	}

	if reflect.Indirect(v).Kind() == reflect.Struct {
		if err := structValidator().Struct(dto); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return NewInvalidBodyError()
			}
			messages := make([]string, 0, len(fieldErrs))
			details := make(map[string]interface{}, len(fieldErrs))
			for _, fe := range fieldErrs {
				messages = append(messages, fieldMessage(fe))
				details[fe.Field()] = fe.Tag()
			}
			return NewValidationError(strings.Join(messages, "; "), details)
		}
	}

	if custom, ok := dto.(Validator); ok {
		if err := custom.Validate(); err != nil {
			var appErr *AppError
			if errors.As(err, &appErr) {
				return err
			}
			return NewValidationError(err.Error(), nil)
		}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// BindAndValidate decodes the JSON body into dto and validates it.
// A body that cannot be decoded yields 400 "Invalid request body"; a body cut
// off by the request size limit yields 413.
func BindAndValidate(c router.Context, dto interface{}) error {
	if err := c.Bind(dto); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return NewRequestTooLargeError(tooLarge.Limit).withCause(err)
		}
		return NewInvalidBodyError().withCause(err)
	}
	return ValidateDTO(dto)
}

func (e *AppError) withCause(cause error) *AppError {
	e.Cause = cause
	return e
}
