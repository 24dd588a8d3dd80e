package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/service"
)

type attendanceServiceMock struct {
	lastCheckIn  dto.CheckInRequest
	photoBody    string
	lastFormat   string
	lastWeek     string
	lastApproval dto.ApproveWeeklyAttendanceRequest
}

func (m *attendanceServiceMock) CheckIn(ctx context.Context, teamID string, req dto.CheckInRequest, photo *dto.UploadedFile, caller *models.Caller) (*models.Attendance, error) {
	m.lastCheckIn = req
	if photo != nil {
		body, _ := io.ReadAll(photo.Content)
		m.photoBody = string(body)
	}
	return &models.Attendance{ID: "att-1", TeamID: teamID}, nil
}

func (m *attendanceServiceMock) WeeklySummary(ctx context.Context, teamID, week string, caller *models.Caller) (*models.WeeklyAttendanceSummary, error) {
	m.lastWeek = week
	return &models.WeeklyAttendanceSummary{TeamID: teamID, Week: week}, nil
}

func (m *attendanceServiceMock) ApproveWeeklyAttendance(ctx context.Context, teamID string, req dto.ApproveWeeklyAttendanceRequest, caller *models.Caller) (*models.WeeklyAttendanceApproval, error) {
	m.lastApproval = req
	return &models.WeeklyAttendanceApproval{TeamID: teamID}, nil
}

func (m *attendanceServiceMock) ListApprovals(ctx context.Context, teamID, week string, caller *models.Caller) ([]models.WeeklyAttendanceApproval, error) {
	return nil, nil
}

func (m *attendanceServiceMock) ExportWeeklySummary(ctx context.Context, teamID, week, format string, caller *models.Caller) (*service.ExportedFile, error) {
	m.lastFormat = format
	return &service.ExportedFile{Filename: "attendance.csv", ContentType: "text/csv", Content: []byte("member,mon\n")}, nil
}

func TestAttendanceHandlerMultipartCheckIn(t *testing.T) {
	svc := &attendanceServiceMock{}
	h := NewAttendanceHandler(svc)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("status", "present"))
	require.NoError(t, mw.WriteField("latitude", "-6.2"))
	part, err := mw.CreateFormFile("photo", "selfie.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg"))
	require.NoError(t, mw.Close())

	c, w := newTestContext(http.MethodPost, "/teams/team-1/attendance", body, &models.Caller{UserID: "m1", Role: models.RoleStudent})
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: "team-1"}}
	h.CheckIn(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "present", svc.lastCheckIn.Status)
	require.NotNil(t, svc.lastCheckIn.Latitude)
	assert.InDelta(t, -6.2, *svc.lastCheckIn.Latitude, 0.0001)
	assert.Nil(t, svc.lastCheckIn.Longitude)
	assert.Equal(t, "jpeg", svc.photoBody)
}

func TestAttendanceHandlerExport(t *testing.T) {
	svc := &attendanceServiceMock{}
	h := NewAttendanceHandler(svc)

	c, w := newTestContext(http.MethodGet, "/teams/team-1/attendance/weekly/export?week=2024-W05", nil, adminCaller)
	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatCSV, svc.lastFormat)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance.csv")
	assert.Equal(t, "member,mon\n", w.Body.String())
}

func TestAttendanceHandlerApprove(t *testing.T) {
	svc := &attendanceServiceMock{}
	h := NewAttendanceHandler(svc)

	c, w := jsonContext(http.MethodPut, "/teams/team-1/attendance/approvals", dto.ApproveWeeklyAttendanceRequest{StudentID: "m1", Week: "2024-W05", Status: "approved"}, adminCaller)
	h.Approve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "m1", svc.lastApproval.StudentID)
}
