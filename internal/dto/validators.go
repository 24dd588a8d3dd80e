package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/pkg/isoweek"
)

// NewValidator returns a validator with the workflow tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators adds iso_week, attendance_status and report_decision.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("iso_week", func(fl validator.FieldLevel) bool {
		return isoweek.Valid(fl.Field().String())
	})
	_ = v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("report_decision", func(fl validator.FieldLevel) bool {
		switch models.FinalReportStatus(fl.Field().String()) {
		case models.FinalReportApproved, models.FinalReportRevisionRequested:
			return true
		}
		return false
	})
}
