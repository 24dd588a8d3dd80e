package service

import "go.uber.org/zap"

// Analytics event names emitted by the workflows.
const (
	EventRegistrationSubmitted    = "registration_submitted"
	EventRegistrationApproved     = "registration_approved"
	EventRegistrationRejected     = "registration_rejected"
	EventProgramCreated           = "program_created"
	EventProgramArchived          = "program_archived"
	EventTeamCreated              = "team_created"
	EventTeamMemberAdded          = "team_member_added"
	EventTeamMemberRemoved        = "team_member_removed"
	EventTeamSupervisorAssigned   = "team_supervisor_assigned"
	EventTeamProgressUpdated      = "team_progress_updated"
	EventWorkProgramCreated       = "work_program_created"
	EventTaskCreated              = "task_created"
	EventTaskUpdated              = "task_updated"
	EventTaskCompleted            = "task_completed"
	EventTaskDeleted              = "task_deleted"
	EventTaskUpdateAdded          = "task_update_added"
	EventWeeklyReportDrafted      = "weekly_report_drafted"
	EventWeeklyReportSubmitted    = "weekly_report_submitted"
	EventWeeklyReportApproved     = "weekly_report_approved"
	EventWeeklyReportRevision     = "weekly_report_revision_requested"
	EventWeeklyReportCommented    = "weekly_report_commented"
	EventAttendanceCheckedIn      = "attendance_checked_in"
	EventWeeklyAttendanceReviewed = "weekly_attendance_reviewed"
	EventDocumentUploaded         = "team_document_uploaded"
	EventFinalReportSubmitted     = "final_report_submitted"
	EventFinalReportReviewed      = "final_report_reviewed"
)

// AnalyticsTracker receives fire-and-forget product analytics.
type AnalyticsTracker interface {
	Track(actorID, event string, props map[string]interface{})
}

// NopAnalytics discards analytics.
type NopAnalytics struct{}

// Track implements AnalyticsTracker.
func (NopAnalytics) Track(string, string, map[string]interface{}) {}

// MetricsAnalytics counts workflow events in Prometheus and logs them at debug level.
type MetricsAnalytics struct {
	metrics *MetricsService
	logger  *zap.Logger
}

// NewMetricsAnalytics constructs the tracker.
func NewMetricsAnalytics(metrics *MetricsService, logger *zap.Logger) *MetricsAnalytics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsAnalytics{metrics: metrics, logger: logger}
}

// Track implements AnalyticsTracker.
func (a *MetricsAnalytics) Track(actorID, event string, props map[string]interface{}) {
	a.metrics.RecordWorkflowEvent(event)
	a.logger.Debug("workflow event", zap.String("event", event), zap.String("actor_id", actorID), zap.Any("props", props))
}
