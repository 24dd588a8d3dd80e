package dto

// CreateProgramRequest payload for opening a program.
type CreateProgramRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// SubmitRegistrationRequest is the public self-service registration form.
type SubmitRegistrationRequest struct {
	ProgramID string `json:"programId" validate:"required"`
	FullName  string `json:"fullName" validate:"required,max=200"`
	StudentID string `json:"studentId" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

// ReviewRegistrationRequest carries optional reviewer notes.
type ReviewRegistrationRequest struct {
	Notes string `json:"notes"`
}
