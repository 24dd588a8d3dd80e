package models

import "time"

// FinalReportStatus tracks the team final report review.
type FinalReportStatus string

const (
	FinalReportDraft             FinalReportStatus = "draft"
	FinalReportSubmitted         FinalReportStatus = "submitted"
	FinalReportApproved          FinalReportStatus = "approved"
	FinalReportRevisionRequested FinalReportStatus = "revision_requested"
)

// Editable reports whether documents may still be uploaded.
func (s FinalReportStatus) Editable() bool {
	return s == FinalReportDraft || s == FinalReportRevisionRequested || s == ""
}

// DocumentKind classifies team documentation.
type DocumentKind string

const (
	DocumentFinalReport   DocumentKind = "final_report"
	DocumentDocumentation DocumentKind = "documentation"
	DocumentOther         DocumentKind = "other"
)

// Team groups students under a leader and an optional supervisor.
type Team struct {
	ID                     string            `db:"id" json:"id"`
	ProgramID              string            `db:"program_id" json:"programId"`
	Name                   string            `db:"name" json:"name"`
	LeaderID               string            `db:"leader_id" json:"leaderId"`
	SupervisorID           *string           `db:"supervisor_id" json:"supervisorId,omitempty"`
	Progress               int               `db:"progress" json:"progress"`
	FinalReportStatus      FinalReportStatus `db:"final_report_status" json:"finalReportStatus"`
	FinalReportSubmittedAt *time.Time        `db:"final_report_submitted_at" json:"finalReportSubmittedAt,omitempty"`
	FinalReportReviewedBy  *string           `db:"final_report_reviewed_by" json:"finalReportReviewedBy,omitempty"`
	FinalReportNotes       *string           `db:"final_report_notes" json:"finalReportNotes,omitempty"`
	CreatedAt              time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt              time.Time         `db:"updated_at" json:"updatedAt"`
}

// HasSupervisor reports whether userID supervises the team.
func (t *Team) HasSupervisor(userID string) bool {
	return t.SupervisorID != nil && *t.SupervisorID == userID
}

// TeamMember is a member row joined with the user profile.
type TeamMember struct {
	TeamID    string    `db:"team_id" json:"-"`
	UserID    string    `db:"user_id" json:"userId"`
	FullName  string    `db:"full_name" json:"fullName"`
	Email     string    `db:"email" json:"email"`
	Role      UserRole  `db:"role" json:"role"`
	StudentID *string   `db:"student_id" json:"studentId,omitempty"`
	JoinedAt  time.Time `db:"joined_at" json:"joinedAt"`
}

// TeamWithMembers is the explicit read aggregate of a team.
type TeamWithMembers struct {
	Team
	Members   []TeamMember   `json:"members"`
	Documents []TeamDocument `json:"documents,omitempty"`
}

// IsMember reports whether userID belongs to the team, leader included.
func (t *TeamWithMembers) IsMember(userID string) bool {
	if t.LeaderID == userID {
		return true
	}
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberIDs lists the member user ids.
func (t *TeamWithMembers) MemberIDs() []string {
	ids := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// TeamDocument is one entry of the team's documentation list.
type TeamDocument struct {
	ID          string       `db:"id" json:"id"`
	TeamID      string       `db:"team_id" json:"teamId"`
	Name        string       `db:"name" json:"name"`
	URL         string       `db:"url" json:"-"`
	Kind        DocumentKind `db:"kind" json:"kind"`
	UploadedBy  string       `db:"uploaded_by" json:"uploadedBy"`
	UploadedAt  time.Time    `db:"uploaded_at" json:"uploadedAt"`
	DownloadURL string       `db:"-" json:"downloadUrl,omitempty"`
}

// TeamFilter scopes team listings. Empty UserID means every team.
type TeamFilter struct {
	ProgramID string
	UserID    string
}
