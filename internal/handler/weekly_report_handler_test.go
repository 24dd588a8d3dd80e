package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type weeklyReportServiceMock struct {
	lastReview dto.ReviewWeeklyReportRequest
	rejectErr  error
	approved   string
}

func (m *weeklyReportServiceMock) Submit(ctx context.Context, teamID string, req dto.WeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	return &models.WeeklyReportDetail{WeeklyReport: models.WeeklyReport{TeamID: teamID, Week: req.Week, Status: models.WeeklyReportSubmitted}}, nil
}

func (m *weeklyReportServiceMock) SaveDraft(ctx context.Context, teamID string, req dto.WeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	return &models.WeeklyReportDetail{WeeklyReport: models.WeeklyReport{TeamID: teamID, Week: req.Week, Status: models.WeeklyReportDraft}}, nil
}

func (m *weeklyReportServiceMock) Approve(ctx context.Context, reportID string, req dto.ReviewWeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	m.approved = reportID
	m.lastReview = req
	return &models.WeeklyReportDetail{WeeklyReport: models.WeeklyReport{ID: reportID, Status: models.WeeklyReportApproved}}, nil
}

func (m *weeklyReportServiceMock) Reject(ctx context.Context, reportID string, req dto.ReviewWeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	m.lastReview = req
	return nil, m.rejectErr
}

func (m *weeklyReportServiceMock) AddComment(ctx context.Context, reportID string, req dto.AddCommentRequest, caller *models.Caller) (*models.WeeklyReportComment, error) {
	return &models.WeeklyReportComment{ReportID: reportID, Body: req.Body}, nil
}

func (m *weeklyReportServiceMock) Get(ctx context.Context, reportID string, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	return &models.WeeklyReportDetail{WeeklyReport: models.WeeklyReport{ID: reportID}}, nil
}

func (m *weeklyReportServiceMock) ListByTeam(ctx context.Context, teamID string, caller *models.Caller) ([]models.WeeklyReport, error) {
	return nil, nil
}

func TestWeeklyReportHandlerApproveWithoutBody(t *testing.T) {
	svc := &weeklyReportServiceMock{}
	h := NewWeeklyReportHandler(svc)

	c, w := newTestContext(http.MethodPost, "/weekly-reports/r1/approve", nil, adminCaller)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	h.Approve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r1", svc.approved)
	assert.Empty(t, svc.lastReview.Comment)
}

func TestWeeklyReportHandlerRejectPropagatesValidation(t *testing.T) {
	svc := &weeklyReportServiceMock{rejectErr: appErrors.Clone(appErrors.ErrValidation, "a comment is required")}
	h := NewWeeklyReportHandler(svc)

	c, w := jsonContext(http.MethodPost, "/weekly-reports/r1/reject", dto.ReviewWeeklyReportRequest{Comment: ""}, adminCaller)
	h.Reject(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.CodeValidation, decodeEnvelope(w).Error.Code)
}

func TestWeeklyReportHandlerSubmit(t *testing.T) {
	h := NewWeeklyReportHandler(&weeklyReportServiceMock{})
	progress := 40
	c, w := jsonContext(http.MethodPost, "/teams/team-1/weekly-reports", dto.WeeklyReportRequest{Week: "2024-W05", ProgressPercentage: &progress}, adminCaller)
	c.Params = gin.Params{{Key: "id", Value: "team-1"}}
	h.Submit(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"week":"2024-W05"`)
}
