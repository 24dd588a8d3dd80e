package dto

import "io"

// UploadedFile is a file received from the transport, read once by the service.
type UploadedFile struct {
	Name    string
	Content io.Reader
}

// CreateWorkProgramRequest payload for a new work program.
type CreateWorkProgramRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"memberIds"`
}

// CreateTaskRequest payload for a new task.
type CreateTaskRequest struct {
	WorkProgramID string   `json:"workProgramId"`
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description"`
	StartDate     string   `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	DueDate       string   `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	AssigneeIDs   []string `json:"assigneeIds"`
}

// UpdateTaskRequest is a partial task update. Nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string   `json:"title" form:"title" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description" form:"description"`
	StartDate   *string   `json:"startDate" form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	DueDate     *string   `json:"dueDate" form:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	AssigneeIDs *[]string `json:"assigneeIds" form:"assigneeIds"`
	Completed   *bool     `json:"completed" form:"completed"`
}

// AddTaskUpdateRequest appends a progress note.
type AddTaskUpdateRequest struct {
	Note     string `json:"note" validate:"required"`
	Progress *int   `json:"progress"`
}
