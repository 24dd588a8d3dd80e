package dto

// CreateTeamRequest payload for composing a team.
type CreateTeamRequest struct {
	ProgramID    string   `json:"programId" validate:"required"`
	Name         string   `json:"name" validate:"required,max=200"`
	LeaderID     string   `json:"leaderId" validate:"required"`
	SupervisorID string   `json:"supervisorId"`
	MemberIDs    []string `json:"memberIds"`
}

// TeamMemberRequest adds a member to a team.
type TeamMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// AssignSupervisorRequest sets the team supervisor.
type AssignSupervisorRequest struct {
	SupervisorID string `json:"supervisorId" validate:"required"`
}

// UpdateTeamProgressRequest sets the team progress value.
type UpdateTeamProgressRequest struct {
	Progress *int `json:"progress" validate:"required"`
}

// UploadDocumentRequest carries the metadata of a documentation upload.
type UploadDocumentRequest struct {
	Kind string `form:"kind" json:"kind" validate:"omitempty,oneof=final_report documentation other"`
}

// ReviewFinalReportRequest is the supervisor decision on a final report.
type ReviewFinalReportRequest struct {
	Decision string `json:"decision" validate:"required,report_decision"`
	Notes    string `json:"notes"`
}
