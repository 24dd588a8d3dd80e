package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/response"
)

type teamService interface {
	Create(ctx context.Context, req dto.CreateTeamRequest, caller *models.Caller) (*models.TeamWithMembers, error)
	Get(ctx context.Context, teamID string, caller *models.Caller) (*models.TeamWithMembers, error)
	ListForCaller(ctx context.Context, programID string, caller *models.Caller) ([]models.Team, error)
	AddMember(ctx context.Context, teamID, userID string, caller *models.Caller) (*models.TeamWithMembers, error)
	RemoveMember(ctx context.Context, teamID, userID string, caller *models.Caller) (*models.TeamWithMembers, error)
	AssignSupervisor(ctx context.Context, teamID, supervisorID string, caller *models.Caller) (*models.TeamWithMembers, error)
	UpdateProgress(ctx context.Context, teamID string, progress int, caller *models.Caller) (*models.TeamWithMembers, error)
	ListActivity(ctx context.Context, teamID string, limit int, caller *models.Caller) ([]models.Activity, error)
}

// TeamHandler exposes team composition endpoints.
type TeamHandler struct {
	service teamService
}

// NewTeamHandler builds the handler.
func NewTeamHandler(service teamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// Create godoc
// @Summary Compose a team
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTeamRequest true "Team payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.CreateTeamRequest
	if !bindJSON(c, &req, "invalid team payload") {
		return
	}
	team, err := h.service.Create(c.Request.Context(), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, team)
}

// List godoc
// @Summary List teams visible to the caller
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param programId query string false "Program ID"
// @Success 200 {object} response.Envelope
// @Router /teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.service.ListForCaller(c.Request.Context(), c.Query("programId"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// Get godoc
// @Summary Get a team with its members
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.service.Get(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}

// AddMember godoc
// @Summary Add a team member
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.TeamMemberRequest true "Member"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/members [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	var req dto.TeamMemberRequest
	if !bindJSON(c, &req, "invalid member payload") {
		return
	}
	team, err := h.service.AddMember(c.Request.Context(), c.Param("id"), req.UserID, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}

// RemoveMember godoc
// @Summary Remove a team member
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/members/{userId} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	team, err := h.service.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("userId"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}

// AssignSupervisor godoc
// @Summary Assign the team supervisor
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.AssignSupervisorRequest true "Supervisor"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/supervisor [put]
func (h *TeamHandler) AssignSupervisor(c *gin.Context) {
	var req dto.AssignSupervisorRequest
	if !bindJSON(c, &req, "invalid supervisor payload") {
		return
	}
	team, err := h.service.AssignSupervisor(c.Request.Context(), c.Param("id"), req.SupervisorID, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}

// UpdateProgress godoc
// @Summary Set the team progress
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.UpdateTeamProgressRequest true "Progress"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /teams/{id}/progress [put]
func (h *TeamHandler) UpdateProgress(c *gin.Context) {
	var req dto.UpdateTeamProgressRequest
	if !bindJSON(c, &req, "invalid progress payload") {
		return
	}
	if req.Progress == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "progress is required"))
		return
	}
	team, err := h.service.UpdateProgress(c.Request.Context(), c.Param("id"), *req.Progress, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}

// Activity godoc
// @Summary List recent team activity
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/activity [get]
func (h *TeamHandler) Activity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.service.ListActivity(c.Request.Context(), c.Param("id"), limit, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
