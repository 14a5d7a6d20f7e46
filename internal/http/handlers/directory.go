package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ertis-service/backend/internal/models"
)

type CategoryBody struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type CategoryPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type SpecialtyBody struct {
	Name       string `json:"name" validate:"required,max=255"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

type OrganizationBody struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
}

type OrganizationPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
}

// @Summary List categories
// @Tags directory
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	items, err := h.Store.ListCategories(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, err := h.Store.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "Category not found")
		return
	}
	c.JSON(http.StatusOK, category)
}

// @Summary Create a category
// @Tags directory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body CategoryBody true "category"
// @Success 201 {object} models.Category
// @Router /api/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var body CategoryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(body); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	category, err := h.Store.CreateCategory(c.Request.Context(), models.Category{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body CategoryPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(body); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	category, err := h.Store.UpdateCategory(c.Request.Context(), id, body.Name, body.Description)
	if err != nil {
		h.writeStoreError(c, err, "Category not found")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteCategory(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "Category not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary Specialties of a category
// @Tags directory
// @Produce json
// @Param id path int true "category id"
// @Success 200 {object} map[string]any
// @Router /api/categories/{id}/specialties [get]
func (h *Handler) ListCategorySpecialties(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.Store.GetCategory(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "Category not found")
		return
	}
	items, err := h.Store.ListSpecialtiesByCategory(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateSpecialty(c *gin.Context) {
	var body SpecialtyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(body); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if _, err := h.Store.GetCategory(c.Request.Context(), body.CategoryID); err != nil {
		h.writeStoreError(c, err, "Category not found")
		return
	}
	specialty, err := h.Store.CreateSpecialty(c.Request.Context(), models.Specialty{
		Name:       body.Name,
		CategoryID: body.CategoryID,
	})
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, specialty)
}

// @Summary List housing organizations
// @Tags directory
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/organizations [get]
func (h *Handler) ListOrganizations(c *gin.Context) {
	items, err := h.Store.ListOrganizations(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) GetOrganization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	org, err := h.Store.GetOrganization(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "Organization not found")
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	var body OrganizationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(body); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	org, err := h.Store.CreateOrganization(c.Request.Context(), models.Organization{
		Name:        body.Name,
		Description: body.Description,
		Phone:       body.Phone,
		Email:       body.Email,
		Address:     body.Address,
	})
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, org)
}

func (h *Handler) UpdateOrganization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body OrganizationPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(body); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	org, err := h.Store.UpdateOrganization(c.Request.Context(), id, body.Name, body.Description, body.Phone, body.Email, body.Address)
	if err != nil {
		h.writeStoreError(c, err, "Organization not found")
		return
	}
	c.JSON(http.StatusOK, org)
}

func (h *Handler) DeleteOrganization(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteOrganization(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err, "Organization not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
