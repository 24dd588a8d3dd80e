package models

import "time"

// RegistrationStatus captures the registration review state.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// Active reports whether the status blocks another registration for the same email.
func (s RegistrationStatus) Active() bool {
	return s == RegistrationPending || s == RegistrationApproved
}

// Registration is a self-service request to join a program.
type Registration struct {
	ID          string             `db:"id" json:"id"`
	ProgramID   string             `db:"program_id" json:"programId"`
	FullName    string             `db:"full_name" json:"fullName"`
	StudentID   string             `db:"student_id" json:"studentId"`
	Email       string             `db:"email" json:"email"`
	Phone       *string            `db:"phone" json:"phone,omitempty"`
	Status      RegistrationStatus `db:"status" json:"status"`
	UserID      *string            `db:"user_id" json:"userId,omitempty"`
	ReviewedBy  *string            `db:"reviewed_by" json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time         `db:"reviewed_at" json:"reviewedAt,omitempty"`
	ReviewNotes *string            `db:"review_notes" json:"reviewNotes,omitempty"`
	CreatedAt   time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updatedAt"`
}

// RegistrationFilter narrows registration listings.
type RegistrationFilter struct {
	ProgramID string
	Status    RegistrationStatus
	Limit     int
	Offset    int
}
