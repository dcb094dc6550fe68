package handlers

import (
	"time"

	"arogya-records/internal/adapters/http/middleware"
	"arogya-records/internal/config"
	"arogya-records/internal/core/services"
	"arogya-records/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Register handles user registration
// @Summary Register new user
// @Description Create a user with one or more roles and their profiles, and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response{data=services.AuthResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Register(c.UserContext(), &input)
	if err != nil {
		return respondError(c, "register user", err)
	}

	h.setSessionCookie(c, result.Token)

	return response.Created(c, "User registered successfully", result)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with email and password and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response{data=services.AuthResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.UserContext(), &input)
	if err != nil {
		return respondError(c, "login", err)
	}

	h.setSessionCookie(c, result.Token)

	return response.Success(c, "Login successful", result)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the presented token and clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(h.cfg.Cookie.Name)
	if token == "" {
		token = middleware.BearerToken(c)
	}

	// Logout always succeeds for the client
	if err := h.authService.Logout(c.UserContext(), token); err != nil {
		logFailure("logout", err)
	}

	h.clearSessionCookie(c)

	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the current user info
// @Summary Get current user
// @Description Get the authenticated user with roles and profiles
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=services.MeResponse}
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, middleware.SessionMessage)
	}

	me, err := h.authService.Me(c.UserContext(), session.User)
	if err != nil {
		return respondError(c, "load current user", err)
	}

	return response.Success(c, "User retrieved successfully", me)
}

// setSessionCookie sets the session token cookie
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.JWT.TTL().Seconds()),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearSessionCookie expires the session token cookie
func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Domain:   h.cfg.Cookie.Domain,
	})
}
