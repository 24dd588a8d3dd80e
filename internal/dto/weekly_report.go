package dto

// WeeklyReportRequest is used for both submitting and drafting a report.
type WeeklyReportRequest struct {
	Week               string   `json:"week" validate:"required,iso_week"`
	Description        string   `json:"description"`
	ProgressPercentage *int     `json:"progressPercentage" validate:"required"`
	TaskIDs            []string `json:"taskIds"`
}

// ReviewWeeklyReportRequest carries the reviewer comment.
type ReviewWeeklyReportRequest struct {
	Comment string `json:"comment"`
}

// AddCommentRequest appends a comment to a report.
type AddCommentRequest struct {
	Body string `json:"body" validate:"required"`
}
