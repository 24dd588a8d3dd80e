package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/service"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/response"
)

type attendanceService interface {
	CheckIn(ctx context.Context, teamID string, req dto.CheckInRequest, photo *dto.UploadedFile, caller *models.Caller) (*models.Attendance, error)
	WeeklySummary(ctx context.Context, teamID, week string, caller *models.Caller) (*models.WeeklyAttendanceSummary, error)
	ApproveWeeklyAttendance(ctx context.Context, teamID string, req dto.ApproveWeeklyAttendanceRequest, caller *models.Caller) (*models.WeeklyAttendanceApproval, error)
	ListApprovals(ctx context.Context, teamID, week string, caller *models.Caller) ([]models.WeeklyAttendanceApproval, error)
	ExportWeeklySummary(ctx context.Context, teamID, week, format string, caller *models.Caller) (*service.ExportedFile, error)
}

// AttendanceHandler exposes check-ins and weekly approvals.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler builds the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// CheckIn godoc
// @Summary Record today's attendance
// @Description Multipart bodies may carry a photo; checking in again the same day overwrites the record.
// @Tags Attendance
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.CheckInRequest true "Check-in"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/attendance [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var (
		req   dto.CheckInRequest
		photo *dto.UploadedFile
	)
	if isMultipart(c) {
		var err error
		req, err = checkInFromForm(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		if header, err := c.FormFile("photo"); err == nil {
			opened, closeAll, err := openUploads([]*multipart.FileHeader{header})
			if err != nil {
				response.Error(c, err)
				return
			}
			defer closeAll()
			photo = &opened[0]
		}
	} else if !bindJSON(c, &req, "invalid check-in payload") {
		return
	}

	record, err := h.service.CheckIn(c.Request.Context(), c.Param("id"), req, photo, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

func checkInFromForm(c *gin.Context) (dto.CheckInRequest, error) {
	req := dto.CheckInRequest{
		Date:   c.PostForm("date"),
		Status: c.PostForm("status"),
		Excuse: c.PostForm("excuse"),
	}
	for field, dst := range map[string]**float64{"latitude": &req.Latitude, "longitude": &req.Longitude} {
		raw, ok := c.GetPostForm(field)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, field+" must be a number")
		}
		*dst = &v
	}
	return req, nil
}

// WeeklySummary godoc
// @Summary Weekly attendance grid of a team
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param week query string true "ISO week, e.g. 2024-W05"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/attendance/weekly [get]
func (h *AttendanceHandler) WeeklySummary(c *gin.Context) {
	summary, err := h.service.WeeklySummary(c.Request.Context(), c.Param("id"), c.Query("week"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Export godoc
// @Summary Export the weekly attendance grid
// @Tags Attendance
// @Produce text/csv,application/pdf
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param week query string true "ISO week"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /teams/{id}/attendance/weekly/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	file, err := h.service.ExportWeeklySummary(c.Request.Context(), c.Param("id"), c.Query("week"), c.DefaultQuery("format", service.ExportFormatCSV), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}

// Approve godoc
// @Summary Decide one student's attendance week
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param payload body dto.ApproveWeeklyAttendanceRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/attendance/approvals [put]
func (h *AttendanceHandler) Approve(c *gin.Context) {
	var req dto.ApproveWeeklyAttendanceRequest
	if !bindJSON(c, &req, "invalid approval payload") {
		return
	}
	approval, err := h.service.ApproveWeeklyAttendance(c.Request.Context(), c.Param("id"), req, callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, approval, nil)
}

// ListApprovals godoc
// @Summary List weekly attendance approvals
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Param week query string true "ISO week"
// @Success 200 {object} response.Envelope
// @Router /teams/{id}/attendance/approvals [get]
func (h *AttendanceHandler) ListApprovals(c *gin.Context) {
	approvals, err := h.service.ListApprovals(c.Request.Context(), c.Param("id"), c.Query("week"), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, approvals, nil)
}
