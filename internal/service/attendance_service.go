package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/export"
	"github.com/noah-isme/internship-api/pkg/isoweek"
	"github.com/noah-isme/internship-api/pkg/storage"
)

const dateLayout = "2006-01-02"

type attendanceStore interface {
	Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error)
	ListByTeamRange(ctx context.Context, teamID string, from, to time.Time) ([]models.Attendance, error)
}

type attendanceApprovalStore interface {
	Upsert(ctx context.Context, approval *models.WeeklyAttendanceApproval) (*models.WeeklyAttendanceApproval, error)
	ListByTeamWeek(ctx context.Context, teamID string, weekStart time.Time) ([]models.WeeklyAttendanceApproval, error)
}

// AttendanceService records daily check-ins and weekly supervisor sign-offs.
type AttendanceService struct {
	attendance attendanceStore
	approvals  attendanceApprovalStore
	teams      teamReader
	files      FileStore
	exporter   *ExportService
	validator  *validator.Validate
	now        func() time.Time
	notifier
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(attendance attendanceStore, approvals attendanceApprovalStore, teams teamReader, files FileStore, exporter *ExportService, validate *validator.Validate, events EventPublisher, analytics AnalyticsTracker, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if exporter == nil {
		exporter = NewExportService(logger, nil, nil)
	}
	return &AttendanceService{
		attendance: attendance,
		approvals:  approvals,
		teams:      teams,
		files:      files,
		exporter:   exporter,
		validator:  validate,
		now:        time.Now,
		notifier:   newNotifier(events, analytics, logger),
	}
}

// CheckIn records the caller's attendance for a date, replacing any earlier
// check-in for the same team, user and date.
func (s *AttendanceService) CheckIn(ctx context.Context, teamID string, req dto.CheckInRequest, photo *dto.UploadedFile, caller *models.Caller) (*models.Attendance, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamMember(caller, team); err != nil {
		return nil, err
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid check-in payload")
	}
	status := models.AttendanceStatus(req.Status)
	excuse := strings.TrimSpace(req.Excuse)
	if status == models.AttendancePermission && excuse == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "an excuse is required when checking in with permission")
	}
	date := s.now().UTC().Truncate(24 * time.Hour)
	if raw := strings.TrimSpace(req.Date); raw != "" {
		if date, err = time.Parse(dateLayout, raw); err != nil {
			return nil, validationError(err, "date must use YYYY-MM-DD")
		}
	}

	record := &models.Attendance{
		TeamID:      teamID,
		UserID:      caller.UserID,
		Date:        date,
		Status:      status,
		Excuse:      stringPtr(excuse),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CheckedInAt: s.now().UTC(),
	}
	var stored []*storage.StoredFile
	if photo != nil && s.files != nil {
		stored, err = storeUploads(s.files, "attendance/"+teamID+"/"+caller.UserID, []dto.UploadedFile{*photo}, s.logger)
		if err != nil {
			return nil, err
		}
		record.PhotoURL = &stored[0].Key
	}
	saved, err := s.attendance.Upsert(ctx, record)
	if err != nil {
		discardUploads(s.files, stored, s.logger)
		return nil, appErrors.Unavailable(err, "failed to record attendance")
	}

	s.publish(ctx, TopicAttendanceCheckedIn, saved)
	s.track(caller.UserID, EventAttendanceCheckedIn, map[string]interface{}{"teamId": teamID, "status": string(status), "date": date.Format(dateLayout)})
	return saved, nil
}

// WeeklySummary buckets the team's check-ins Monday through Sunday per member.
func (s *AttendanceService) WeeklySummary(ctx context.Context, teamID, week string, caller *models.Caller) (*models.WeeklyAttendanceSummary, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	w, err := parseWeek(week)
	if err != nil {
		return nil, err
	}
	days := w.Days()
	records, err := s.attendance.ListByTeamRange(ctx, teamID, days[0], days[len(days)-1])
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load attendance")
	}
	approvals, err := s.approvals.ListByTeamWeek(ctx, teamID, days[0])
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load attendance approvals")
	}
	return buildWeeklySummary(team, w, records, approvals), nil
}

func buildWeeklySummary(team *models.TeamWithMembers, w isoweek.Week, records []models.Attendance, approvals []models.WeeklyAttendanceApproval) *models.WeeklyAttendanceSummary {
	days := w.Days()
	byMemberDay := make(map[string]models.AttendanceStatus, len(records))
	for _, r := range records {
		byMemberDay[r.UserID+"|"+r.Date.Format(dateLayout)] = r.Status
	}
	byStudent := make(map[string]models.WeeklyAttendanceApproval, len(approvals))
	for _, a := range approvals {
		byStudent[a.StudentID] = a
	}

	summary := &models.WeeklyAttendanceSummary{
		TeamID:        team.ID,
		Week:          w.String(),
		WeekStartDate: days[0].Format(dateLayout),
		Members:       make([]models.MemberAttendanceWeek, 0, len(team.Members)),
	}
	for _, m := range team.Members {
		row := models.MemberAttendanceWeek{
			UserID:         m.UserID,
			FullName:       m.FullName,
			Days:           make([]models.AttendanceDay, 0, len(days)),
			ApprovalStatus: models.ApprovalPending,
		}
		for _, d := range days {
			date := d.Format(dateLayout)
			status := byMemberDay[m.UserID+"|"+date]
			if status == models.AttendancePresent {
				row.PresentCount++
			}
			row.Days = append(row.Days, models.AttendanceDay{Date: date, Status: status})
		}
		if a, ok := byStudent[m.UserID]; ok {
			row.ApprovalStatus = a.Status
			row.ApprovalNotes = a.Notes
		}
		summary.Members = append(summary.Members, row)
	}
	return summary
}

// ApproveWeeklyAttendance records the supervisor decision on one student's
// week. Repeated decisions revise the same row.
func (s *AttendanceService) ApproveWeeklyAttendance(ctx context.Context, teamID string, req dto.ApproveWeeklyAttendanceRequest, caller *models.Caller) (*models.WeeklyAttendanceApproval, error) {
	if err := Authorize(caller, CapReviewer); err != nil {
		return nil, err
	}
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamSupervisorOrAdmin(caller, &team.Team); err != nil {
		return nil, err
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance approval payload")
	}
	w, err := parseWeek(req.Week)
	if err != nil {
		return nil, err
	}
	if !team.IsMember(req.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrConstraintViolation, "student is not a member of the team")
	}

	approval := &models.WeeklyAttendanceApproval{
		TeamID:        teamID,
		WeekStartDate: w.Monday(),
		StudentID:     req.StudentID,
		SupervisorID:  caller.UserID,
		Status:        models.ApprovalStatus(req.Status),
		Notes:         stringPtr(strings.TrimSpace(req.Notes)),
	}
	if approval.Status != models.ApprovalPending {
		at := s.now().UTC()
		approval.ApprovedAt = &at
	}
	stored, err := s.approvals.Upsert(ctx, approval)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to save attendance approval")
	}
	s.track(caller.UserID, EventWeeklyAttendanceReviewed, map[string]interface{}{
		"teamId":    teamID,
		"studentId": req.StudentID,
		"week":      w.String(),
		"status":    req.Status,
	})
	return stored, nil
}

// ListApprovals returns the sign-offs of a team for a week.
func (s *AttendanceService) ListApprovals(ctx context.Context, teamID, week string, caller *models.Caller) ([]models.WeeklyAttendanceApproval, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	w, err := parseWeek(week)
	if err != nil {
		return nil, err
	}
	rows, err := s.approvals.ListByTeamWeek(ctx, teamID, w.Monday())
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list attendance approvals")
	}
	if rows == nil {
		rows = []models.WeeklyAttendanceApproval{}
	}
	return rows, nil
}

// ExportWeeklySummary renders the weekly summary as CSV or PDF.
func (s *AttendanceService) ExportWeeklySummary(ctx context.Context, teamID, week, format string, caller *models.Caller) (*ExportedFile, error) {
	summary, err := s.WeeklySummary(ctx, teamID, week, caller)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("attendance_%s_%s", teamID, summary.Week)
	return s.exporter.Render(name, format, attendanceDataset(summary))
}

func attendanceDataset(summary *models.WeeklyAttendanceSummary) export.Dataset {
	headers := []string{"Member"}
	if len(summary.Members) > 0 {
		for _, d := range summary.Members[0].Days {
			headers = append(headers, d.Date)
		}
	} else if w, err := isoweek.Parse(summary.Week); err == nil {
		for _, d := range w.Days() {
			headers = append(headers, d.Format(dateLayout))
		}
	}
	headers = append(headers, "Present", "Approval")

	rows := make([]map[string]string, 0, len(summary.Members))
	for _, m := range summary.Members {
		row := map[string]string{"Member": m.FullName, "Present": strconv.Itoa(m.PresentCount), "Approval": string(m.ApprovalStatus)}
		for _, d := range m.Days {
			row[d.Date] = string(d.Status)
		}
		rows = append(rows, row)
	}
	return export.Dataset{
		Title:   "Weekly attendance " + summary.Week,
		Headers: headers,
		Rows:    rows,
	}
}

func parseWeek(raw string) (isoweek.Week, error) {
	w, err := isoweek.Parse(strings.TrimSpace(raw))
	if err != nil {
		return isoweek.Week{}, validationError(err, "week must be a valid ISO week (YYYY-Www)")
	}
	return w, nil
}
