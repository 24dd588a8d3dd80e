package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-api/internal/models"
)

const attendanceColumns = `id, team_id, user_id, date, status, excuse, latitude, longitude, photo_url, checked_in_at, created_at, updated_at`

// AttendanceRepository persists daily check-ins.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert inserts or overwrites the check-in for (team, user, date).
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CheckedInAt.IsZero() {
		record.CheckedInAt = now
	}
	query := fmt.Sprintf(`INSERT INTO attendances (id, team_id, user_id, date, status, excuse, latitude, longitude, photo_url, checked_in_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
ON CONFLICT (team_id, user_id, date)
DO UPDATE SET status = EXCLUDED.status, excuse = EXCLUDED.excuse, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
	photo_url = EXCLUDED.photo_url, checked_in_at = EXCLUDED.checked_in_at, updated_at = EXCLUDED.updated_at
RETURNING %s`, attendanceColumns)
	var stored models.Attendance
	if err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.TeamID, record.UserID, record.Date, record.Status, record.Excuse,
		record.Latitude, record.Longitude, record.PhotoURL, record.CheckedInAt, now); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// ListByTeamRange returns check-ins of a team between from and to inclusive.
func (r *AttendanceRepository) ListByTeamRange(ctx context.Context, teamID string, from, to time.Time) ([]models.Attendance, error) {
	query := fmt.Sprintf("SELECT %s FROM attendances WHERE team_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date, user_id", attendanceColumns)
	var rows []models.Attendance
	if err := r.db.SelectContext(ctx, &rows, query, teamID, from, to); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

const approvalColumns = `id, team_id, week_start_date, student_id, supervisor_id, status, notes, approved_at, created_at, updated_at`

// WeeklyAttendanceApprovalRepository persists supervisor sign-offs.
type WeeklyAttendanceApprovalRepository struct {
	db *sqlx.DB
}

// NewWeeklyAttendanceApprovalRepository constructs the repository.
func NewWeeklyAttendanceApprovalRepository(db *sqlx.DB) *WeeklyAttendanceApprovalRepository {
	return &WeeklyAttendanceApprovalRepository{db: db}
}

// Upsert inserts or revises the approval keyed by (team, week start, student).
func (r *WeeklyAttendanceApprovalRepository) Upsert(ctx context.Context, approval *models.WeeklyAttendanceApproval) (*models.WeeklyAttendanceApproval, error) {
	now := time.Now().UTC()
	if approval.ID == "" {
		approval.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`INSERT INTO weekly_attendance_approvals (id, team_id, week_start_date, student_id, supervisor_id, status, notes, approved_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
ON CONFLICT (team_id, week_start_date, student_id)
DO UPDATE SET supervisor_id = EXCLUDED.supervisor_id, status = EXCLUDED.status, notes = EXCLUDED.notes,
	approved_at = EXCLUDED.approved_at, updated_at = EXCLUDED.updated_at
RETURNING %s`, approvalColumns)
	var stored models.WeeklyAttendanceApproval
	if err := r.db.GetContext(ctx, &stored, query,
		approval.ID, approval.TeamID, approval.WeekStartDate, approval.StudentID, approval.SupervisorID,
		approval.Status, approval.Notes, approval.ApprovedAt, now); err != nil {
		return nil, fmt.Errorf("upsert weekly attendance approval: %w", err)
	}
	return &stored, nil
}

// ListByTeamWeek returns approvals of a team for the week starting weekStart.
func (r *WeeklyAttendanceApprovalRepository) ListByTeamWeek(ctx context.Context, teamID string, weekStart time.Time) ([]models.WeeklyAttendanceApproval, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_attendance_approvals WHERE team_id = $1 AND week_start_date = $2 ORDER BY student_id", approvalColumns)
	var rows []models.WeeklyAttendanceApproval
	if err := r.db.SelectContext(ctx, &rows, query, teamID, weekStart); err != nil {
		return nil, fmt.Errorf("list weekly attendance approvals: %w", err)
	}
	return rows, nil
}
