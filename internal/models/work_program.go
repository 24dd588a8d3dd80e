package models

import (
	"time"

	"github.com/lib/pq"
)

// WorkProgram is a team goal composed of tasks with an aggregate completion percentage.
type WorkProgram struct {
	ID          string         `db:"id" json:"id"`
	TeamID      string         `db:"team_id" json:"teamId"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	MemberIDs   pq.StringArray `db:"member_ids" json:"memberIds"`
	Progress    int            `db:"progress" json:"progress"`
	CreatedBy   string         `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// HasMember reports whether userID is in the work program's member set.
func (wp *WorkProgram) HasMember(userID string) bool {
	for _, id := range wp.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// WorkProgramProgress is the per-member completion percentage.
type WorkProgramProgress struct {
	ID            string    `db:"id" json:"id"`
	WorkProgramID string    `db:"work_program_id" json:"workProgramId"`
	MemberID      string    `db:"member_id" json:"memberId"`
	Percentage    int       `db:"percentage" json:"percentage"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// WorkProgramDetail bundles a work program with its member rows.
type WorkProgramDetail struct {
	WorkProgram
	MemberProgress []WorkProgramProgress `json:"memberProgress"`
}

// TaskCounts summarises completion under a work program.
type TaskCounts struct {
	Total     int `db:"total"`
	Completed int `db:"completed"`
}
