package middleware

import (
	"context"
	"errors"
	"log"
	"strings"

	"arogya-records/internal/core/domain"
	"arogya-records/internal/core/services"
	"arogya-records/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by SessionGuard
const (
	LocalSession = "session"
	LocalRoles   = "roles"
)

// SessionMessage is the single answer for every session failure
const SessionMessage = "Invalid or missing session"

// Authenticator verifies a raw token into a session
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Session, error)
}

// SessionGuard requires a valid session token. The bearer header wins over
// the cookie.
func SessionGuard(auth Authenticator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			token = c.Cookies(cookieName)
		}

		session, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if domain.IsSessionError(err) {
				return response.Unauthorized(c, SessionMessage)
			}
			log.Printf("❌ Session check failed: %v", err)
			return response.InternalServerError(c, "Internal Server Error")
		}

		c.Locals(LocalSession, session)
		c.Locals(LocalRoles, session.User.RoleNames())

		return c.Next()
	}
}

// RequireRoles allows the request when the session holds any of the roles
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionRoles, ok := c.Locals(LocalRoles).([]string)
		if !ok {
			return response.Unauthorized(c, SessionMessage)
		}

		if err := services.RequireAnyRole(sessionRoles, roles...); err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return response.Forbidden(c, "You don't have permission to access this resource")
			}
			return err
		}

		return c.Next()
	}
}

// AdminOnly allows only the admin role
func AdminOnly() fiber.Handler {
	return RequireRoles(string(domain.RoleAdmin))
}

// CareTeam allows doctors, staff and admins
func CareTeam() fiber.Handler {
	return RequireRoles(string(domain.RoleDoctor), string(domain.RoleStaff), string(domain.RoleAdmin))
}

// BearerToken returns the token from an "Authorization: Bearer" header
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// GetSession returns the session stored by SessionGuard
func GetSession(c *fiber.Ctx) *services.Session {
	session, _ := c.Locals(LocalSession).(*services.Session)
	return session
}
