package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/billbook/backend/internal/domain/identity"
	"github.com/billbook/backend/internal/infrastructure/logger"
	"github.com/billbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MobileTag validates Indian mobile numbers on request structs
const MobileTag = "in_mobile"

// SetupValidator configures gin's validator: JSON field names in errors and
// the in_mobile tag.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return ConfigureValidator(v)
}

// ConfigureValidator applies the bill book rules to a validator instance
func ConfigureValidator(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	return v.RegisterValidation(MobileTag, func(fl validator.FieldLevel) bool {
		return identity.IsValidMobile(fl.Field().String())
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(logger.GinRequestIDKey)))
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case MobileTag:
		return "Enter a valid Indian mobile number."
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Ensure this field has at least " + e.Param() + " characters."
		}
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Ensure this field has no more than " + e.Param() + " characters."
		}
		return "Ensure this value is less than or equal to " + e.Param() + "."
	case "len":
		return "Ensure this field has exactly " + e.Param() + " characters."
	case "uuid":
		return "Must be a valid UUID."
	case "oneof":
		return "Must be one of: " + e.Param() + "."
	case "numeric":
		return "Must contain digits only."
	case "gte":
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "gt":
		return "Ensure this value is greater than " + e.Param() + "."
	default:
		return "Invalid value."
	}
}
