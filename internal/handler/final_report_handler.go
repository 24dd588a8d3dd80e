package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/response"
)

type finalReportService interface {
	UploadDocument(ctx context.Context, teamID string, req dto.UploadDocumentRequest, file dto.UploadedFile, caller *models.Caller) (*models.TeamDocument, error)
	ListDocuments(ctx context.Context, teamID string, caller *models.Caller) ([]models.TeamDocument, error)
	SubmitFinalReport(ctx context.Context, teamID string, caller *models.Caller) (*models.Team, error)
	ReviewFinalReport(ctx context.Context, teamID string, req dto.ReviewFinalReportRequest, caller *models.Caller) (*models.Team, error)
}

// FinalReportHandler exposes team documentation and the final report review.
type FinalReportHandler struct {
	service finalReportService
}

// NewFinalReportHandler builds the handler.
func NewFinalReportHandler(service finalReportService) *FinalReportHandler {
	return &FinalReportHandler{service: service}
}

// UploadDocument godoc
// @Summary Upload a team document
// @Tags Final Report
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param kind formData string false "final_report, documentation or other"
// @Param file formData file true "Document"
// @Success 201 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /teams/{id}/documents [post]
func (h *FinalReportHandler) UploadDocument(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	files, closeAll, err := openUploads([]*multipart.FileHeader{header})
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeAll()

	req := dto.UploadDocumentRequest{Kind: c.PostForm("kind")}
	doc, err := h.service.UploadDocument(c.Request.Context(), c.Param("id"), req, files[0], callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// ListDocuments godoc
// @Summary List team documents
// @Tags Final Report
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/documents [get]
func (h *FinalReportHandler) ListDocuments(c *gin.Context) {
	docs, err := h.service.ListDocuments(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// Submit godoc
// @Summary Submit the team final report
// @Tags Final Report
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/final-report/submit [post]
func (h *FinalReportHandler) Submit(c *gin.Context) {
	team, err := h.service.SubmitFinalReport(c.Request.Context(), c.Param("id"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}

// Review godoc
// @Summary Review the team final report
// @Tags Final Report
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.ReviewFinalReportRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/final-report/review [post]
func (h *FinalReportHandler) Review(c *gin.Context) {
	var req dto.ReviewFinalReportRequest
	if !bindJSON(c, &req, "invalid review payload") {
		return
	}
	team, err := h.service.ReviewFinalReport(c.Request.Context(), c.Param("id"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}
