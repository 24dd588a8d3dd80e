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

type programService interface {
	Create(ctx context.Context, req dto.CreateProgramRequest, caller *models.Caller) (*models.Program, error)
	Get(ctx context.Context, id string) (*models.Program, error)
	List(ctx context.Context, includeArchived bool, caller *models.Caller) ([]models.Program, error)
	Archive(ctx context.Context, id string, caller *models.Caller) (*models.Program, error)
}

// ProgramHandler exposes internship program endpoints.
type ProgramHandler struct {
	service programService
}

// NewProgramHandler builds the handler.
func NewProgramHandler(service programService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

// Create godoc
// @Summary Open an internship program
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateProgramRequest true "Program payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var req dto.CreateProgramRequest
	if !bindJSON(c, &req, "invalid program payload") {
		return
	}
	program, err := h.service.Create(c.Request.Context(), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, program)
}

// List godoc
// @Summary List programs
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param includeArchived query bool false "Include archived programs"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	includeArchived, _ := strconv.ParseBool(c.Query("includeArchived"))
	programs, err := h.service.List(c.Request.Context(), includeArchived, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}

// Get godoc
// @Summary Get a program
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	program, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// Archive godoc
// @Summary Archive a program
// @Description Archived programs accept no new registrations or teams
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /programs/{id}/archive [post]
func (h *ProgramHandler) Archive(c *gin.Context) {
	program, err := h.service.Archive(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}
