package handlers

import (
	"bookstore-api/internal/adapters/http/middleware"
	"bookstore-api/internal/core/services"
	"bookstore-api/internal/pkg/pagination"
	"bookstore-api/internal/pkg/response"

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

// CreateUser handles registration
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.CreateUserInput true "User"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /createUser/ [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.CreateUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "Failed to create user")
	}

	return response.Created(c, "User created successfully", toUserResponse(user))
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return respondError(c, err, "Failed to list users")
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = toUserResponse(u)
	}
	return response.Success(c, "Users retrieved successfully", pagination.NewResponse(items, params, total))
}

// GetUser handles getting a user by ID
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", toUserResponse(user))
}

// GetUserByEmail handles getting a user by email
// @Summary Get user by email
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/email/{email} [get]
func (h *UserHandler) GetUserByEmail(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return respondError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", toUserResponse(user))
}

// UpdateRoleRequest represents update role request body
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole handles setting a user's role (Admin only)
// @Summary Set user role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body UpdateRoleRequest true "Role: admin, librarian or customer"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	adminID, _, _ := middleware.CurrentUser(c)
	user, err := h.userService.UpdateRole(c.UserContext(), id, adminID, req.Role)
	if err != nil {
		return respondError(c, err, "Failed to update role")
	}

	return response.Success(c, "User role updated successfully", toUserResponse(user))
}

// DeleteUser handles deleting a user (Admin only)
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/delete/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	adminID, _, _ := middleware.CurrentUser(c)
	user, err := h.userService.DeleteUser(c.UserContext(), id, adminID)
	if err != nil {
		return respondError(c, err, "Failed to delete user")
	}

	return response.Success(c, "User deleted successfully", toUserResponse(user))
}
