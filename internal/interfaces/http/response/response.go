// Package response writes JSON error bodies for the HTTP layer.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/maboutique/maboutique-api/internal/pkg/apperror"
)

func init() {
	// Report JSON field names in validation details.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	}
}

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// Error writes err with the status its kind maps to and aborts the chain.
// Errors without a kind are recorded on the context and hidden behind a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{Error: "Internal server error"})
		return
	}

	if appErr.Kind == apperror.KindUnauthenticated {
		c.Header("WWW-Authenticate", "Bearer")
	}
	if appErr.Kind == apperror.KindInternal {
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), ErrorBody{
		Error:   appErr.Message,
		Details: appErr.Fields,
	})
}

// BindingError converts a gin binding failure into a validation error
func BindingError(err error) *apperror.Error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fe.Field()] = describe(fe)
		}
		return apperror.NewValidation("Invalid request body", fields)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.NewValidation("Invalid request body", map[string]string{"body": "request body is required"})
	case errors.As(err, &typeErr):
		return apperror.NewValidation("Invalid request body", map[string]string{
			typeErr.Field: fmt.Sprintf("must be of type %s", typeErr.Type),
		})
	case errors.As(err, &syntaxErr):
		return apperror.NewValidation("Invalid request body", map[string]string{"body": "malformed JSON"})
	default:
		return apperror.NewValidation("Invalid request body", map[string]string{"body": err.Error()})
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
