package models

import (
	"time"

	"github.com/lib/pq"
)

// WeeklyReportStatus tracks the weekly report review state.
type WeeklyReportStatus string

const (
	WeeklyReportDraft             WeeklyReportStatus = "draft"
	WeeklyReportSubmitted         WeeklyReportStatus = "submitted"
	WeeklyReportApproved          WeeklyReportStatus = "approved"
	WeeklyReportRevisionRequested WeeklyReportStatus = "revision_requested"
)

// WeeklyReport is a per-team, per-ISO-week progress summary.
type WeeklyReport struct {
	ID                 string             `db:"id" json:"id"`
	TeamID             string             `db:"team_id" json:"teamId"`
	Week               string             `db:"week" json:"week"`
	Description        string             `db:"description" json:"description"`
	ProgressPercentage int                `db:"progress_percentage" json:"progressPercentage"`
	TaskIDs            pq.StringArray     `db:"task_ids" json:"taskIds"`
	Status             WeeklyReportStatus `db:"status" json:"status"`
	SubmittedBy        *string            `db:"submitted_by" json:"submittedBy,omitempty"`
	SubmittedAt        *time.Time         `db:"submitted_at" json:"submittedAt,omitempty"`
	ReviewedBy         *string            `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewedAt         *time.Time         `db:"reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt          time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updatedAt"`
}

// WeeklyReportComment is an author-attributed review note.
type WeeklyReportComment struct {
	ID        string    `db:"id" json:"id"`
	ReportID  string    `db:"report_id" json:"reportId"`
	AuthorID  string    `db:"author_id" json:"authorId"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// MemberProgress is the per-member view derived from a report's task ids.
type MemberProgress struct {
	MemberID  string `json:"memberId"`
	FullName  string `json:"fullName"`
	Assigned  int    `json:"assigned"`
	Completed int    `json:"completed"`
}

// WeeklyReportDetail bundles a report with its comments and derived member progress.
type WeeklyReportDetail struct {
	WeeklyReport
	Comments       []WeeklyReportComment `json:"comments"`
	MemberProgress []MemberProgress      `json:"memberProgress"`
}
