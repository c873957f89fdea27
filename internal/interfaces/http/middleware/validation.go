package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// SetupValidator configures gin's validator with the custom binding tags
// the request DTOs use. Call once at startup.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// Report field names as their JSON/form names, not Go identifiers.
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

	// "slug" shares the catalog's slug rules so a slug that binds also
	// persists.
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return catalog.ValidateSlug(fl.Field().String()) == nil
	})
}

// HandleValidationError writes a 400 response describing each invalid field
func HandleValidationError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")

	var details []dto.ValidationDetail
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}

	if len(details) == 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInvalidJSON, "Malformed request body", requestID))
		return
	}

	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed", requestID, details))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return "Must be a valid UUID"
	case "slug":
		return "Must be lowercase letters, digits and hyphens"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	default:
		return "Invalid value"
	}
}
