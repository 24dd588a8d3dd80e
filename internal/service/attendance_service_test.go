package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type attendanceStoreStub struct {
	mu      sync.Mutex
	records map[string]models.Attendance
	err     error
}

func (s *attendanceStoreStub) Upsert(ctx context.Context, r *models.Attendance) (*models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.records == nil {
		s.records = map[string]models.Attendance{}
	}
	key := r.TeamID + "|" + r.UserID + "|" + r.Date.Format("2006-01-02")
	if existing, ok := s.records[key]; ok {
		r.ID = existing.ID
	} else {
		r.ID = key
	}
	s.records[key] = *r
	out := *r
	return &out, nil
}

func (s *attendanceStoreStub) ListByTeamRange(ctx context.Context, teamID string, from, to time.Time) ([]models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Attendance
	for _, r := range s.records {
		if r.TeamID == teamID && !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

type approvalStoreStub struct {
	mu   sync.Mutex
	rows map[string]models.WeeklyAttendanceApproval
}

func (s *approvalStoreStub) Upsert(ctx context.Context, a *models.WeeklyAttendanceApproval) (*models.WeeklyAttendanceApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows == nil {
		s.rows = map[string]models.WeeklyAttendanceApproval{}
	}
	key := a.TeamID + "|" + a.WeekStartDate.Format("2006-01-02") + "|" + a.StudentID
	if existing, ok := s.rows[key]; ok {
		a.ID = existing.ID
	} else {
		a.ID = key
	}
	s.rows[key] = *a
	out := *a
	return &out, nil
}

func (s *approvalStoreStub) ListByTeamWeek(ctx context.Context, teamID string, weekStart time.Time) ([]models.WeeklyAttendanceApproval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WeeklyAttendanceApproval
	for _, a := range s.rows {
		if a.TeamID == teamID && a.WeekStartDate.Equal(weekStart) {
			out = append(out, a)
		}
	}
	return out, nil
}

type attendanceFixture struct {
	svc        *AttendanceService
	attendance *attendanceStoreStub
	approvals  *approvalStoreStub
	files      *fileStoreStub
	events     *recordingPublisher
	member     *models.Caller
	sup        *models.Caller
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	sup := "sup"
	teams := newTeamReaderStub()
	teams.addTeam("team-1", "leader", &sup, "m1", "m2")
	f := &attendanceFixture{
		attendance: &attendanceStoreStub{},
		approvals:  &approvalStoreStub{},
		files:      newFileStoreStub(),
		events:     &recordingPublisher{},
		member:     callerFor("m1", models.RoleStudent),
		sup:        callerFor("sup", models.RoleSupervisor),
	}
	f.svc = NewAttendanceService(f.attendance, f.approvals, teams, f.files, nil, nil, f.events, nil, nil)
	f.svc.now = func() time.Time { return time.Date(2024, time.January, 31, 8, 15, 0, 0, time.UTC) }
	return f
}

func TestCheckInTwiceKeepsOneRow(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	first, err := f.svc.CheckIn(ctx, "team-1", dto.CheckInRequest{Date: "2024-01-29", Status: "present"}, nil, f.member)
	require.NoError(t, err)
	second, err := f.svc.CheckIn(ctx, "team-1", dto.CheckInRequest{Date: "2024-01-29", Status: "permission", Excuse: "Sick"}, nil, f.member)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.attendance.records, 1)
	assert.Equal(t, models.AttendancePermission, second.Status)
	assert.Equal(t, []string{TopicAttendanceCheckedIn, TopicAttendanceCheckedIn}, f.events.topics())
}

func TestCheckInValidation(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "team-1", dto.CheckInRequest{Status: "permission"}, nil, f.member)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeValidation))

	_, err = f.svc.CheckIn(ctx, "team-1", dto.CheckInRequest{Status: "late"}, nil, f.member)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeValidation))

	_, err = f.svc.CheckIn(ctx, "team-1", dto.CheckInRequest{Status: "present"}, nil, callerFor("outsider", models.RoleStudent))
	assert.True(t, appErrors.IsKind(err, appErrors.CodeForbidden))

	_, err = f.svc.CheckIn(ctx, "team-1", dto.CheckInRequest{Status: "present"}, nil, nil)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeUnauthenticated))
}

func TestCheckInDefaultsToTodayAndStoresPhoto(t *testing.T) {
	f := newAttendanceFixture(t)
	lat, lng := -7.79, 110.36
	photo := &dto.UploadedFile{Name: "selfie.jpg", Content: strings.NewReader("jpeg")}

	record, err := f.svc.CheckIn(context.Background(), "team-1", dto.CheckInRequest{Status: "PRESENT", Latitude: &lat, Longitude: &lng}, photo, f.member)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", record.Date.Format("2006-01-02"))
	require.NotNil(t, record.PhotoURL)
	assert.True(t, strings.HasPrefix(*record.PhotoURL, "attendance/team-1/m1/"))
	assert.Equal(t, 1, f.files.count())

	f.attendance.err = errStoreDown
	_, err = f.svc.CheckIn(context.Background(), "team-1", dto.CheckInRequest{Status: "present"}, &dto.UploadedFile{Name: "b.jpg", Content: strings.NewReader("x")}, f.member)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeUnavailable))
	assert.Equal(t, 1, f.files.count())
}

func TestWeeklySummaryBucketsDays(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	for _, date := range []string{"2024-01-29", "2024-01-30", "2024-02-04", "2024-02-05"} {
		_, err := f.svc.CheckIn(ctx, "team-1", dto.CheckInRequest{Date: date, Status: "present"}, nil, f.member)
		require.NoError(t, err)
	}
	_, err := f.svc.CheckIn(ctx, "team-1", dto.CheckInRequest{Date: "2024-01-31", Status: "alpha"}, nil, callerFor("m2", models.RoleStudent))
	require.NoError(t, err)
	_, err = f.svc.ApproveWeeklyAttendance(ctx, "team-1", dto.ApproveWeeklyAttendanceRequest{StudentID: "m1", Week: "2024-W05", Status: "approved"}, f.sup)
	require.NoError(t, err)

	summary, err := f.svc.WeeklySummary(ctx, "team-1", "2024-W05", f.member)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-29", summary.WeekStartDate)
	rows := map[string]models.MemberAttendanceWeek{}
	for _, m := range summary.Members {
		require.Len(t, m.Days, 7)
		rows[m.UserID] = m
	}
	m1 := rows["m1"]
	assert.Equal(t, 3, m1.PresentCount)
	assert.Equal(t, models.AttendancePresent, m1.Days[0].Status)
	assert.Equal(t, models.AttendanceStatus(""), m1.Days[2].Status)
	assert.Equal(t, "2024-02-04", m1.Days[6].Date)
	assert.Equal(t, models.ApprovalApproved, m1.ApprovalStatus)
	assert.Equal(t, models.AttendanceAlpha, rows["m2"].Days[2].Status)
	assert.Equal(t, models.ApprovalPending, rows["m2"].ApprovalStatus)

	_, err = f.svc.WeeklySummary(ctx, "team-1", "2024-05", f.member)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeValidation))
}

func TestApproveWeeklyAttendanceUpserts(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	req := dto.ApproveWeeklyAttendanceRequest{StudentID: "m1", Week: "2024-W05", Status: "rejected", Notes: "missing Friday"}

	first, err := f.svc.ApproveWeeklyAttendance(ctx, "team-1", req, f.sup)
	require.NoError(t, err)
	req.Status = "approved"
	req.Notes = ""
	second, err := f.svc.ApproveWeeklyAttendance(ctx, "team-1", req, callerFor("admin", models.RoleAdmin))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.approvals.rows, 1)
	assert.Equal(t, models.ApprovalApproved, second.Status)
	assert.Equal(t, "admin", second.SupervisorID)
	assert.Equal(t, time.Date(2024, time.January, 29, 0, 0, 0, 0, time.UTC), second.WeekStartDate)
	assert.NotNil(t, second.ApprovedAt)

	list, err := f.svc.ListApprovals(ctx, "team-1", "2024-W05", f.member)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestApproveWeeklyAttendanceGuards(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	req := dto.ApproveWeeklyAttendanceRequest{StudentID: "m1", Week: "2024-W05", Status: "approved"}

	_, err := f.svc.ApproveWeeklyAttendance(ctx, "team-1", req, f.member)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeInsufficientRole))

	_, err = f.svc.ApproveWeeklyAttendance(ctx, "team-1", req, callerFor("other-sup", models.RoleSupervisor))
	assert.True(t, appErrors.IsKind(err, appErrors.CodeForbidden))

	req.StudentID = "outsider"
	_, err = f.svc.ApproveWeeklyAttendance(ctx, "team-1", req, f.sup)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeConstraintViolation))

	req.StudentID = "m1"
	req.Status = "maybe"
	_, err = f.svc.ApproveWeeklyAttendance(ctx, "team-1", req, f.sup)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeValidation))
}

func TestExportWeeklySummary(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	_, err := f.svc.CheckIn(ctx, "team-1", dto.CheckInRequest{Date: "2024-01-29", Status: "present"}, nil, f.member)
	require.NoError(t, err)

	file, err := f.svc.ExportWeeklySummary(ctx, "team-1", "2024-W05", "csv", f.sup)
	require.NoError(t, err)
	assert.Equal(t, "attendance_team-1_2024-W05.csv", file.Filename)
	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Member,2024-01-29,2024-01-30,2024-01-31,2024-02-01,2024-02-02,2024-02-03,2024-02-04,Present,Approval", lines[0])
	assert.Contains(t, string(file.Content), "Member m1,present,,,,,,,1,pending")

	pdf, err := f.svc.ExportWeeklySummary(ctx, "team-1", "2024-W05", "pdf", f.sup)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
}
