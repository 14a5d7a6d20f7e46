package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ertis-service/backend/internal/db"
	"github.com/ertis-service/backend/internal/models"
	"github.com/ertis-service/backend/internal/service"
	"github.com/ertis-service/backend/internal/storage"
)

type AssignRequestBody struct {
	EmployeeID int64 `json:"employee_id" validate:"required,gt=0"`
}

type CloseRequestBody struct {
	Reason *string `json:"reason" validate:"omitempty,max=1000"`
}

type RateRequestBody struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

// @Summary Create a service request
// @Description Creates the request and runs the AI triage pass when a photo is attached
// @Tags requests
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param description formData string true "problem description"
// @Param address formData string true "address"
// @Param category_name formData string true "category name"
// @Param problem_type formData string false "free-form problem type"
// @Param latitude formData number false "latitude"
// @Param longitude formData number false "longitude"
// @Param photo formData file false "photo of the problem"
// @Success 201 {object} models.Request
// @Failure 400 {object} map[string]any
// @Router /api/requests [post]
func (h *Handler) CreateRequest(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}

	in := service.CreateRequestInput{
		Description:  c.PostForm("description"),
		Address:      c.PostForm("address"),
		CategoryName: c.PostForm("category_name"),
		CreatorID:    cl.UserID,
	}
	if in.Description == "" || in.Address == "" || in.CategoryName == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "description, address and category_name are required", nil)
		return
	}
	if v := c.PostForm("problem_type"); v != "" {
		in.ProblemType = &v
	}
	lat, latOK, err := formFloat(c, "latitude")
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "latitude must be a number", nil)
		return
	}
	lon, lonOK, err := formFloat(c, "longitude")
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "longitude must be a number", nil)
		return
	}
	if latOK != lonOK {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "latitude and longitude must be provided together", nil)
		return
	}
	if latOK {
		in.Latitude, in.Longitude = &lat, &lon
	}

	if file, err := c.FormFile("photo"); err == nil {
		content, name, err := readUpload(file, h.Files.MaxBytes)
		if err != nil {
			writeError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Photo exceeds the size limit", nil)
			return
		}
		in.Photo, in.PhotoFilename = content, name
	}

	req, err := h.Triage.Create(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
		case errors.Is(err, storage.ErrFileTooLarge):
			writeError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Photo exceeds the size limit", nil)
		case errors.Is(err, storage.ErrBadExtension):
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unsupported photo format", nil)
		default:
			h.writeStoreError(c, err, "Category not found")
		}
		return
	}
	c.JSON(http.StatusCreated, req)
}

// @Summary Open requests with coordinates for the map
// @Tags requests
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/requests/map [get]
func (h *Handler) RequestsMap(c *gin.Context) {
	items, err := h.Store.ListRequestsForMap(c.Request.Context())
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Requests created by the caller
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /api/requests/my [get]
func (h *Handler) MyRequests(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	items, err := h.Store.ListRequestsByCreator(c.Request.Context(), cl.UserID)
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Requests assigned to the calling employee
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router /api/requests/assigned [get]
func (h *Handler) AssignedRequests(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	if cl.EmployeeID == nil {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Employee token required", nil)
		return
	}
	items, err := h.Store.ListRequestsByAssignee(c.Request.Context(), *cl.EmployeeID)
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary List all requests
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "status filter"
// @Param category_id query int false "category filter"
// @Param priority query string false "priority filter"
// @Success 200 {object} map[string]any
// @Router /api/requests [get]
func (h *Handler) ListRequests(c *gin.Context) {
	var f db.RequestFilter
	if v := c.Query("status"); v != "" {
		status, ok := models.ParseStatus(v)
		if !ok {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status", nil)
			return
		}
		f.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority, ok := models.ParsePriority(v)
		if !ok {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown priority", nil)
			return
		}
		f.Priority = &priority
	}
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid category_id", nil)
			return
		}
		f.CategoryID = &id
	}

	items, err := h.Store.ListRequests(c.Request.Context(), f)
	if err != nil {
		h.writeStoreError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Request details
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Success 200 {object} models.Request
// @Failure 404 {object} map[string]any
// @Router /api/requests/{id} [get]
func (h *Handler) GetRequest(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, err := h.Store.GetRequest(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, err, "Request not found")
		return
	}
	if !canViewRequest(cl.Role, cl.UserID, cl.EmployeeID, req) {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Not your request", nil)
		return
	}
	c.JSON(http.StatusOK, req)
}

// @Summary Assign a request to an employee
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Param payload body AssignRequestBody true "assignment"
// @Success 200 {object} models.Request
// @Failure 400 {object} map[string]any
// @Router /api/requests/{id}/assign [patch]
func (h *Handler) AssignRequest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body AssignRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(body); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx := c.Request.Context()
	req, err := h.Store.GetRequest(ctx, id)
	if err != nil {
		h.writeStoreError(c, err, "Request not found")
		return
	}
	if req.Status == models.StatusCompleted || req.Status == models.StatusClosed {
		writeError(c, http.StatusBadRequest, "INVALID_STATE", "Request is already finished", nil)
		return
	}
	employee, err := h.Store.GetEmployee(ctx, body.EmployeeID)
	if err != nil {
		h.writeStoreError(c, err, "Employee not found")
		return
	}

	req, err = h.Store.AssignRequest(ctx, id, employee.ID, assignmentStatus(req.Status))
	if err != nil {
		h.writeStoreError(c, err, "Request not found")
		return
	}
	h.Notifier.RequestAssigned(ctx, req.CreatorID, req.ID, employee.FullName())
	c.JSON(http.StatusOK, req)
}

// @Summary Mark an assigned request as in progress
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Success 200 {object} models.Request
// @Failure 400 {object} map[string]any
// @Router /api/requests/{id}/start [patch]
func (h *Handler) StartRequest(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	req, err := h.Store.GetRequest(ctx, id)
	if err != nil {
		h.writeStoreError(c, err, "Request not found")
		return
	}
	if cl.EmployeeID == nil || req.AssigneeID == nil || *req.AssigneeID != *cl.EmployeeID {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Request is assigned to someone else", nil)
		return
	}
	if req.Status != models.StatusAssigned {
		writeError(c, http.StatusBadRequest, "INVALID_STATE", "Request cannot be started from its current status", nil)
		return
	}

	req, err = h.Store.StartRequest(ctx, id)
	if err != nil {
		h.writeStoreError(c, err, "Request not found")
		return
	}
	h.Notifier.RequestInProgress(ctx, req.CreatorID, req.ID)
	c.JSON(http.StatusOK, req)
}

// @Summary Complete a request
// @Tags requests
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Param completion_note formData string false "what was done"
// @Param completion_photo formData file false "photo of the result"
// @Success 200 {object} models.Request
// @Failure 400 {object} map[string]any
// @Router /api/requests/{id}/complete [patch]
func (h *Handler) CompleteRequest(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	req, err := h.Store.GetRequest(ctx, id)
	if err != nil {
		h.writeStoreError(c, err, "Request not found")
		return
	}
	if cl.EmployeeID == nil || req.AssigneeID == nil || *req.AssigneeID != *cl.EmployeeID {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Request is assigned to someone else", nil)
		return
	}
	if req.Status != models.StatusAssigned && req.Status != models.StatusInProgress {
		writeError(c, http.StatusBadRequest, "INVALID_STATE", "Request cannot be completed from its current status", nil)
		return
	}

	var note *string
	if v := c.PostForm("completion_note"); v != "" {
		note = &v
	}
	var photoURL *string
	if file, err := c.FormFile("completion_photo"); err == nil {
		content, name, err := readUpload(file, h.Files.MaxBytes)
		if err != nil {
			writeError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Photo exceeds the size limit", nil)
			return
		}
		rel, err := h.Files.Save(content, name, "solutions")
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrFileTooLarge):
				writeError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Photo exceeds the size limit", nil)
			case errors.Is(err, storage.ErrBadExtension):
				writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unsupported photo format", nil)
			default:
				writeError(c, http.StatusInternalServerError, "INTERNAL", "Failed to store photo", nil)
			}
			return
		}
		photoURL = &rel
	}

	req, err = h.Store.CompleteRequest(ctx, id, photoURL, note, time.Now().UTC())
	if err != nil {
		if photoURL != nil {
			h.Files.Delete(*photoURL)
		}
		h.writeStoreError(c, err, "Request not found")
		return
	}
	h.Notifier.RequestCompleted(ctx, req.CreatorID, req.ID)
	c.JSON(http.StatusOK, req)
}

// @Summary Close a request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Param payload body CloseRequestBody false "close reason"
// @Success 200 {object} models.Request
// @Failure 400 {object} map[string]any
// @Router /api/requests/{id}/close [patch]
func (h *Handler) CloseRequest(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var body CloseRequestBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
			return
		}
	}

	ctx := c.Request.Context()
	req, err := h.Store.GetRequest(ctx, id)
	if err != nil {
		h.writeStoreError(c, err, "Request not found")
		return
	}
	if req.CreatorID != cl.UserID {
		writeError(c, http.StatusForbidden, "FORBIDDEN", "Not your request", nil)
		return
	}
	if req.Status == models.StatusClosed {
		writeError(c, http.StatusBadRequest, "INVALID_STATE", "Request is already closed", nil)
		return
	}

	req, err = h.Store.CloseRequest(ctx, id, body.Reason, time.Now().UTC())
	if err != nil {
		h.writeStoreError(c, err, "Request not found")
		return
	}
	h.Notifier.RequestClosed(ctx, req.CreatorID, req.ID, body.Reason)
	c.JSON(http.StatusOK, req)
}

// @Summary Rate a completed request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Param payload body RateRequestBody true "rating"
// @Success 201 {object} models.Rating
// @Failure 400 {object} map[string]any
// @Router /api/requests/{id}/rate [post]
func (h *Handler) RateRequest(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body RateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(body); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	rating, err := h.Ratings.Rate(c.Request.Context(), id, cl.UserID, body.Rating, body.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			writeError(c, http.StatusForbidden, "FORBIDDEN", "Not your request", nil)
		case errors.Is(err, service.ErrNotCompleted):
			writeError(c, http.StatusBadRequest, "INVALID_STATE", "Only completed requests can be rated", nil)
		case errors.Is(err, service.ErrNotAssigned):
			writeError(c, http.StatusBadRequest, "INVALID_STATE", "Request was never assigned", nil)
		case errors.Is(err, service.ErrAlreadyRated):
			writeError(c, http.StatusConflict, "DUPLICATE", "Request already rated", nil)
		default:
			h.writeStoreError(c, err, "Request not found")
		}
		return
	}
	c.JSON(http.StatusCreated, rating)
}

// assignmentStatus keeps reassignment from moving a request's status backward:
// work that already started stays in_progress under the new assignee.
func assignmentStatus(current models.RequestStatus) models.RequestStatus {
	if current == models.StatusInProgress {
		return current
	}
	return models.StatusAssigned
}

func canViewRequest(role models.Role, userID int64, employeeID *int64, req models.Request) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleEmployee:
		return employeeID != nil && req.AssigneeID != nil && *req.AssigneeID == *employeeID
	default:
		return req.CreatorID == userID
	}
}

func formFloat(c *gin.Context, field string) (float64, bool, error) {
	v := c.PostForm(field)
	if v == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, err
	}
	return f, true, nil
}

func readUpload(file *multipart.FileHeader, maxBytes int64) ([]byte, string, error) {
	if file.Size > maxBytes {
		return nil, "", storage.ErrFileTooLarge
	}
	f, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(content)) > maxBytes {
		return nil, "", storage.ErrFileTooLarge
	}
	return content, file.Filename, nil
}
