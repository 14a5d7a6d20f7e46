package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ertis-service/backend/internal/auth"
	"github.com/ertis-service/backend/internal/db"
	"github.com/ertis-service/backend/internal/models"
)

type RegisterRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Username  string  `json:"username" validate:"required,min=3,max=64"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  string  `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// @Summary Register a citizen account
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body RegisterRequest true "registration payload"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]any
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	if req.Email != nil {
		if _, err := h.Store.GetUserByEmail(c.Request.Context(), *req.Email); err == nil {
			writeError(c, http.StatusBadRequest, "DUPLICATE", "Email already registered", nil)
			return
		} else if !errors.Is(err, db.ErrNotFound) {
			h.writeStoreError(c, err, "")
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Internal server error", nil)
		return
	}

	user, err := h.Store.CreateUser(c.Request.Context(), models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleCitizen,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			writeError(c, http.StatusBadRequest, "DUPLICATE", "Username or email already registered", nil)
			return
		}
		h.writeStoreError(c, err, "User not found")
		return
	}

	h.Logger.Info().Int64("user_id", user.ID).Msg("user registered")
	c.JSON(http.StatusCreated, user)
}

// @Summary Log in as citizen, admin or employee
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} map[string]any
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx := c.Request.Context()

	// Users and employees share the login endpoint but live in separate
	// tables; users win on a username collision.
	user, err := h.Store.GetUserByUsername(ctx, req.Username)
	if err == nil {
		if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, req.Password) {
			writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
			return
		}
		token, err := h.Issuer.Issue(user.Username, user.ID, user.Role, nil)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "INTERNAL", "Internal server error", nil)
			return
		}
		c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
		return
	}
	if !errors.Is(err, db.ErrNotFound) {
		h.writeStoreError(c, err, "User not found")
		return
	}

	employee, err := h.Store.GetEmployeeByUsername(ctx, req.Username)
	if err != nil || !auth.VerifyPassword(employee.PasswordHash, req.Password) {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
		return
	}
	token, err := h.Issuer.Issue(employee.Username, 0, models.RoleEmployee, &employee.ID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]any
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	if cl.Role == models.RoleEmployee {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Employees use /api/employees/me", nil)
		return
	}
	user, err := h.Store.GetUserByID(c.Request.Context(), cl.UserID)
	if err != nil {
		h.writeStoreError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}
