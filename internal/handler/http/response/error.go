package response

import (
	"errors"
	"net/http"

	"github.com/eventstaffhq/crm-backend-go/internal/domain/auth"
	"github.com/eventstaffhq/crm-backend-go/internal/domain/payroll"
	"github.com/eventstaffhq/crm-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrCompanyIDRequired):
		Unauthorized(w, "Company context required")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
