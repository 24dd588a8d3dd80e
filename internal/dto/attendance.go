package dto

// CheckInRequest records a daily check-in. An empty date means today.
type CheckInRequest struct {
	Date      string   `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
	Status    string   `json:"status" form:"status" validate:"required,attendance_status"`
	Excuse    string   `json:"excuse" form:"excuse"`
	Latitude  *float64 `json:"latitude" form:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" form:"longitude" validate:"omitempty,longitude"`
}

// ApproveWeeklyAttendanceRequest is the supervisor decision on one student's week.
type ApproveWeeklyAttendanceRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Week      string `json:"week" validate:"required,iso_week"`
	Status    string `json:"status" validate:"required,oneof=pending approved rejected"`
	Notes     string `json:"notes"`
}
