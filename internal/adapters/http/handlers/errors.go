package handlers

import (
	"errors"
	"log"

	"arogya-records/internal/adapters/http/middleware"
	"arogya-records/internal/core/domain"
	"arogya-records/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors onto HTTP responses. Anything unknown is
// logged with the action and answered with a generic 500.
func respondError(c *fiber.Ctx, action string, err error) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return response.ValidationFailed(c, validationErr.Fields)
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return response.Conflict(c, "An account with this email already exists")
	case errors.Is(err, domain.ErrInvalidRole):
		return response.BadRequest(c, "One or more roles are not recognised")
	case errors.Is(err, domain.ErrIncompleteProfile):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNoProfileFields):
		return response.BadRequest(c, "No profile fields supplied")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid email or password")
	case domain.IsSessionError(err):
		return response.Unauthorized(c, middleware.SessionMessage)
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to access this resource")
	case errors.Is(err, domain.ErrProfileNotFound):
		return response.NotFound(c, "Patient profile not found")
	default:
		log.Printf("❌ Failed to %s: %v", action, err)
		return response.InternalServerError(c, "Internal Server Error")
	}
}

// logFailure records a failure that must not change the response
func logFailure(action string, err error) {
	log.Printf("⚠️ Failed to %s: %v", action, err)
}
