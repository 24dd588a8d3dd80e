package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/pkg/response"
)

type weeklyReportService interface {
	Submit(ctx context.Context, teamID string, req dto.WeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error)
	SaveDraft(ctx context.Context, teamID string, req dto.WeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error)
	Approve(ctx context.Context, reportID string, req dto.ReviewWeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error)
	Reject(ctx context.Context, reportID string, req dto.ReviewWeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error)
	AddComment(ctx context.Context, reportID string, req dto.AddCommentRequest, caller *models.Caller) (*models.WeeklyReportComment, error)
	Get(ctx context.Context, reportID string, caller *models.Caller) (*models.WeeklyReportDetail, error)
	ListByTeam(ctx context.Context, teamID string, caller *models.Caller) ([]models.WeeklyReport, error)
}

// WeeklyReportHandler exposes the weekly report review loop.
type WeeklyReportHandler struct {
	service weeklyReportService
}

// NewWeeklyReportHandler builds the handler.
func NewWeeklyReportHandler(service weeklyReportService) *WeeklyReportHandler {
	return &WeeklyReportHandler{service: service}
}

// Submit godoc
// @Summary Submit the weekly summary of a team
// @Description Resubmitting a week overwrites the report unless it was approved
// @Tags Weekly Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.WeeklyReportRequest true "Weekly summary"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teams/{id}/weekly-reports [post]
func (h *WeeklyReportHandler) Submit(c *gin.Context) {
	var req dto.WeeklyReportRequest
	if !bindJSON(c, &req, "invalid weekly report payload") {
		return
	}
	report, err := h.service.Submit(c.Request.Context(), c.Param("id"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// SaveDraft godoc
// @Summary Save a weekly report draft
// @Tags Weekly Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.WeeklyReportRequest true "Weekly summary"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/weekly-reports/draft [post]
func (h *WeeklyReportHandler) SaveDraft(c *gin.Context) {
	var req dto.WeeklyReportRequest
	if !bindJSON(c, &req, "invalid weekly report payload") {
		return
	}
	report, err := h.service.SaveDraft(c.Request.Context(), c.Param("id"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// List godoc
// @Summary List the weekly reports of a team
// @Tags Weekly Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/weekly-reports [get]
func (h *WeeklyReportHandler) List(c *gin.Context) {
	reports, err := h.service.ListByTeam(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// Get godoc
// @Summary Get a weekly report with comments and member progress
// @Tags Weekly Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /weekly-reports/{id} [get]
func (h *WeeklyReportHandler) Get(c *gin.Context) {
	report, err := h.service.Get(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Approve godoc
// @Summary Approve a submitted weekly report
// @Tags Weekly Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param payload body dto.ReviewWeeklyReportRequest false "Optional comment"
// @Success 200 {object} response.Envelope
// @Router /weekly-reports/{id}/approve [post]
func (h *WeeklyReportHandler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve)
}

// Reject godoc
// @Summary Request a revision of a submitted weekly report
// @Tags Weekly Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param payload body dto.ReviewWeeklyReportRequest true "Required comment"
// @Success 200 {object} response.Envelope
// @Router /weekly-reports/{id}/reject [post]
func (h *WeeklyReportHandler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject)
}

func (h *WeeklyReportHandler) review(c *gin.Context, decide func(context.Context, string, dto.ReviewWeeklyReportRequest, *models.Caller) (*models.WeeklyReportDetail, error)) {
	var req dto.ReviewWeeklyReportRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req, "invalid review payload") {
		return
	}
	report, err := decide(c.Request.Context(), c.Param("id"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// AddComment godoc
// @Summary Comment on a weekly report
// @Tags Weekly Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param payload body dto.AddCommentRequest true "Comment"
// @Success 201 {object} response.Envelope
// @Router /weekly-reports/{id}/comments [post]
func (h *WeeklyReportHandler) AddComment(c *gin.Context) {
	var req dto.AddCommentRequest
	if !bindJSON(c, &req, "invalid comment payload") {
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), c.Param("id"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}
