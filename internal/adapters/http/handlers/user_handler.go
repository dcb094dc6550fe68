package handlers

import (
	"arogya-records/internal/core/services"
	"arogya-records/internal/pkg/pagination"
	"arogya-records/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Description Get a paginated list of users with their roles (Admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response{data=pagination.Response}
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.userService.ListUsers(c.UserContext(), params)
	if err != nil {
		return respondError(c, "list users", err)
	}

	return response.Success(c, "Users retrieved successfully", result)
}
