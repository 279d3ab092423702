package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Dayavats/samvaad/internal/auth"
	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/repository"
	"github.com/Dayavats/samvaad/internal/service"
	"github.com/Dayavats/samvaad/pkg/response"
)

// UserHandler serves registration, login, profiles and admin
// moderation of members.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates the user REST handler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /auth/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name, email, password and role are required")
		return
	}

	result, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			response.InvalidArgument(c, "role must be broken or counselor")
		case errors.Is(err, repository.ErrEmailExists):
			response.Conflict(c, "email already registered")
		default:
			response.InternalError(c, "failed to register")
		}
		return
	}
	response.Created(c, result)
}

// Login handles POST /auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	result, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "invalid email or password")
		case errors.Is(err, service.ErrBanned):
			response.Forbidden(c, "account is banned")
		default:
			response.InternalError(c, "failed to log in")
		}
		return
	}
	response.Success(c, result)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load profile")
		return
	}
	response.Success(c, user.ToResponse())
}

// UpdateMe handles PUT /users/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), auth.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to update profile")
		return
	}
	response.Success(c, user.ToResponse())
}

// ListPeers handles GET /users.
func (h *UserHandler) ListPeers(c *gin.Context) {
	peers, err := h.users.ListPeers(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.InternalError(c, "failed to list users")
		return
	}
	response.Success(c, gin.H{"users": peers})
}

// SetRole handles PUT /admin/users/:id/role.
func (h *UserHandler) SetRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "role is required")
		return
	}

	user, err := h.users.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			response.InvalidArgument(c, "unknown role")
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			response.InternalError(c, "failed to change role")
		}
		return
	}
	response.Success(c, user.ToResponse())
}

// SetBanned handles PUT /admin/users/:id/ban.
func (h *UserHandler) SetBanned(c *gin.Context) {
	var req struct {
		Banned *bool `json:"banned" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "banned is required")
		return
	}

	user, err := h.users.SetBanned(c.Request.Context(), c.Param("id"), *req.Banned)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to update ban state")
		return
	}
	response.Success(c, user.ToResponse())
}
