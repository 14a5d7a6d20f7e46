package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ertis-service/backend/internal/auth"
	"github.com/ertis-service/backend/internal/models"
)

type EmployeeBody struct {
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Username       string  `json:"username" validate:"required,min=3,max=64"`
	Password       string  `json:"password" validate:"required,min=6"`
	PhotoURL       *string `json:"photo_url" validate:"omitempty,max=500"`
	SpecialtyID    int64   `json:"specialty_id" validate:"required,gt=0"`
	OrganizationID int64   `json:"organization_id" validate:"required,gt=0"`
}

type EmployeePatch struct {
	FirstName      *string `json:"first_name" validate:"omitempty,min=1"`
	LastName       *string `json:"last_name" validate:"omitempty,min=1"`
	PhotoURL       *string `json:"photo_url" validate:"omitempty,max=500"`
	SpecialtyID    *int64  `json:"specialty_id" validate:"omitempty,gt=0"`
	OrganizationID *int64  `json:"organization_id" validate:"omitempty,gt=0"`
}

// @Summary List employees
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param organization_id query int false "organization filter"
// @Param specialty_id query int false "specialty filter"
// @Success 200 {object} map[string]any
// @Router /api/employees [get]
func (h *Handler) ListEmployees(c *gin.Context) {
	var orgID, specID *int64
	if v := c.Query("organization_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid organization_id", nil)
			return
		}
		orgID = &id
	}
	if v := c.Query("specialty_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid specialty_id", nil)
			return
		}
		specID = &id
	}
	items, err := h.Store.ListEmployees(c.Request.Context(), orgID, specID)
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) GetEmployee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	employee, err := h.Store.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// @Summary Current employee profile
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Employee
// @Failure 403 {object} map[string]any
// @Router /api/employees/me [get]
func (h *Handler) EmployeeMe(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	if cl.EmployeeID == nil {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Employee token required", nil)
		return
	}
	employee, err := h.Store.GetEmployee(c.Request.Context(), *cl.EmployeeID)
	if err != nil {
		h.writeStoreError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, employee)
}

// @Summary Create an employee
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body EmployeeBody true "employee"
// @Success 201 {object} models.Employee
// @Failure 400 {object} map[string]any
// @Router /api/employees [post]
func (h *Handler) CreateEmployee(c *gin.Context) {
	var body EmployeeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(body); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetSpecialty(ctx, body.SpecialtyID); err != nil {
		h.writeStoreError(c, err, "Specialty not found")
		return
	}
	if _, err := h.Store.GetOrganization(ctx, body.OrganizationID); err != nil {
		h.writeStoreError(c, err, "Organization not found")
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "INTERNAL", "Internal server error", nil)
		return
	}
	employee, err := h.Store.CreateEmployee(ctx, models.Employee{
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Username:       body.Username,
		PasswordHash:   hash,
		PhotoURL:       body.PhotoURL,
		SpecialtyID:    body.SpecialtyID,
		OrganizationID: body.OrganizationID,
	})
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	h.Logger.Info().Int64("employee_id", employee.ID).Msg("employee created")
	c.JSON(http.StatusCreated, employee)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body EmployeePatch
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(body); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx := c.Request.Context()
	if body.SpecialtyID != nil {
		if _, err := h.Store.GetSpecialty(ctx, *body.SpecialtyID); err != nil {
			h.writeStoreError(c, err, "Specialty not found")
			return
		}
	}
	if body.OrganizationID != nil {
		if _, err := h.Store.GetOrganization(ctx, *body.OrganizationID); err != nil {
			h.writeStoreError(c, err, "Organization not found")
			return
		}
	}

	employee, err := h.Store.UpdateEmployee(ctx, id, body.FirstName, body.LastName, body.PhotoURL, body.SpecialtyID, body.OrganizationID)
	if err != nil {
		h.writeStoreError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary Ratings received by an employee
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Param id path int true "employee id"
// @Success 200 {object} map[string]any
// @Router /api/employees/{id}/ratings [get]
func (h *Handler) EmployeeRatings(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.Store.GetEmployee(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "Employee not found")
		return
	}
	items, err := h.Store.ListRatingsByEmployee(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
