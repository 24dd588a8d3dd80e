package models

import (
	"time"

	"github.com/lib/pq"
)

// TaskStatus is the coarse task lifecycle state.
type TaskStatus string

const (
	TaskStatusTodo      TaskStatus = "todo"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task is a unit of team work, optionally under a work program.
type Task struct {
	ID                string         `db:"id" json:"id"`
	TeamID            string         `db:"team_id" json:"teamId"`
	WorkProgramID     *string        `db:"work_program_id" json:"workProgramId,omitempty"`
	Title             string         `db:"title" json:"title"`
	Description       *string        `db:"description" json:"description,omitempty"`
	StartDate         *time.Time     `db:"start_date" json:"startDate,omitempty"`
	DueDate           *time.Time     `db:"due_date" json:"dueDate,omitempty"`
	Status            TaskStatus     `db:"status" json:"status"`
	Completed         bool           `db:"completed" json:"completed"`
	AssignedMemberIDs pq.StringArray `db:"assigned_member_ids" json:"assignedMemberIds"`
	CompletedByID     *string        `db:"completed_by_id" json:"completedById,omitempty"`
	CompletedAt       *time.Time     `db:"completed_at" json:"completedAt,omitempty"`
	CreatedBy         string         `db:"created_by" json:"createdBy"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsAssigned reports whether userID is among the task assignees.
func (t *Task) IsAssigned(userID string) bool {
	for _, id := range t.AssignedMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// TaskArtifact is a completion file recorded with the status flip.
type TaskArtifact struct {
	ID          string    `db:"id" json:"id"`
	TaskID      string    `db:"task_id" json:"taskId"`
	Name        string    `db:"name" json:"name"`
	URL         string    `db:"url" json:"-"`
	ContentType string    `db:"content_type" json:"contentType"`
	SizeBytes   int64     `db:"size_bytes" json:"sizeBytes"`
	UploadedBy  string    `db:"uploaded_by" json:"uploadedBy"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploadedAt"`
	DownloadURL string    `db:"-" json:"downloadUrl,omitempty"`
}

// TaskUpdate is an append-only progress note.
type TaskUpdate struct {
	ID        string    `db:"id" json:"id"`
	TaskID    string    `db:"task_id" json:"taskId"`
	MemberID  string    `db:"member_id" json:"memberId"`
	Note      string    `db:"note" json:"note"`
	Progress  *int      `db:"progress" json:"progress,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TaskDetail is the read aggregate of a task.
type TaskDetail struct {
	Task
	Artifacts []TaskArtifact `json:"artifacts"`
	Updates   []TaskUpdate   `json:"updates"`
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	TeamID        string
	WorkProgramID string
}

// TaskCompletion carries the state written when a task is completed.
type TaskCompletion struct {
	TaskID        string
	CompletedByID string
	CompletedAt   time.Time
	Artifacts     []TaskArtifact
}
