package models

import "time"

// AttendanceStatus is the daily check-in status.
type AttendanceStatus string

const (
	AttendancePresent    AttendanceStatus = "present"
	AttendancePermission AttendanceStatus = "permission"
	AttendanceAlpha      AttendanceStatus = "alpha"
)

// Valid reports whether the status is known.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendancePermission, AttendanceAlpha:
		return true
	}
	return false
}

// Attendance is one check-in per team, user and date.
type Attendance struct {
	ID          string           `db:"id" json:"id"`
	TeamID      string           `db:"team_id" json:"teamId"`
	UserID      string           `db:"user_id" json:"userId"`
	Date        time.Time        `db:"date" json:"date"`
	Status      AttendanceStatus `db:"status" json:"status"`
	Excuse      *string          `db:"excuse" json:"excuse,omitempty"`
	Latitude    *float64         `db:"latitude" json:"latitude,omitempty"`
	Longitude   *float64         `db:"longitude" json:"longitude,omitempty"`
	PhotoURL    *string          `db:"photo_url" json:"-"`
	CheckedInAt time.Time        `db:"checked_in_at" json:"checkedInAt"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
}

// ApprovalStatus is the supervisor decision on a student's week.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// WeeklyAttendanceApproval is unique per team, week start and student.
type WeeklyAttendanceApproval struct {
	ID            string         `db:"id" json:"id"`
	TeamID        string         `db:"team_id" json:"teamId"`
	WeekStartDate time.Time      `db:"week_start_date" json:"weekStartDate"`
	StudentID     string         `db:"student_id" json:"studentId"`
	SupervisorID  string         `db:"supervisor_id" json:"supervisorId"`
	Status        ApprovalStatus `db:"status" json:"status"`
	Notes         *string        `db:"notes" json:"notes,omitempty"`
	ApprovedAt    *time.Time     `db:"approved_at" json:"approvedAt,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}

// AttendanceDay is one bucket of the weekly summary.
type AttendanceDay struct {
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status,omitempty"`
}

// MemberAttendanceWeek is one member's row in the weekly summary.
type MemberAttendanceWeek struct {
	UserID         string          `json:"userId"`
	FullName       string          `json:"fullName"`
	Days           []AttendanceDay `json:"days"`
	PresentCount   int             `json:"presentCount"`
	ApprovalStatus ApprovalStatus  `json:"approvalStatus"`
	ApprovalNotes  *string         `json:"approvalNotes,omitempty"`
}

// WeeklyAttendanceSummary buckets a team's check-ins Monday through Sunday.
type WeeklyAttendanceSummary struct {
	TeamID        string                 `json:"teamId"`
	Week          string                 `json:"week"`
	WeekStartDate string                 `json:"weekStartDate"`
	Members       []MemberAttendanceWeek `json:"members"`
}
