package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/pkg/response"
)

type registrationService interface {
	Submit(ctx context.Context, req dto.SubmitRegistrationRequest) (*models.Registration, error)
	Get(ctx context.Context, id string, caller *models.Caller) (*models.Registration, error)
	List(ctx context.Context, filter models.RegistrationFilter, caller *models.Caller) ([]models.Registration, error)
	Approve(ctx context.Context, id string, caller *models.Caller) (*models.Registration, error)
	Reject(ctx context.Context, id, notes string, caller *models.Caller) (*models.Registration, error)
}

// RegistrationHandler exposes the registration workflow.
type RegistrationHandler struct {
	service registrationService
}

// NewRegistrationHandler builds the handler.
func NewRegistrationHandler(service registrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Submit godoc
// @Summary Submit a registration
// @Description Public self-service registration for an open program
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRegistrationRequest true "Registration form"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	var req dto.SubmitRegistrationRequest
	if !bindJSON(c, &req, "invalid registration payload") {
		return
	}
	reg, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reg)
}

// List godoc
// @Summary List registrations
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param programId query string false "Program ID"
// @Param status query string false "pending, approved or rejected"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}
	filter := models.RegistrationFilter{
		ProgramID: c.Query("programId"),
		Status:    models.RegistrationStatus(c.Query("status")),
		Limit:     size,
		Offset:    (page - 1) * size,
	}
	regs, err := h.service.List(c.Request.Context(), filter, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, regs, &models.Pagination{Page: page, PageSize: size, TotalCount: len(regs)})
}

// Get godoc
// @Summary Get a registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	reg, err := h.service.Get(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reg, nil)
}

// Approve godoc
// @Summary Approve a pending registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /registrations/{id}/approve [post]
func (h *RegistrationHandler) Approve(c *gin.Context) {
	reg, err := h.service.Approve(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reg, nil)
}

// Reject godoc
// @Summary Reject a pending registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param payload body dto.ReviewRegistrationRequest false "Reviewer notes"
// @Success 200 {object} response.Envelope
// @Router /registrations/{id}/reject [post]
func (h *RegistrationHandler) Reject(c *gin.Context) {
	var req dto.ReviewRegistrationRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req, "invalid review payload") {
		return
	}
	reg, err := h.service.Reject(c.Request.Context(), c.Param("id"), req.Notes, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reg, nil)
}
