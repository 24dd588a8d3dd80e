package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

// Event topics published after successful mutations.
const (
	TopicTeamUpdated         = "team.updated"
	TopicTaskUpdated         = "task.updated"
	TopicAttendanceCheckedIn = "attendance.checked_in"
	TopicReportSubmitted     = "report.submitted"
	TopicReportUpdated       = "report.updated"
)

// notifier fans successful mutations out to the event and analytics
// collaborators. Neither may fail the originating call.
type notifier struct {
	events    EventPublisher
	analytics AnalyticsTracker
	logger    *zap.Logger
}

func newNotifier(events EventPublisher, analytics AnalyticsTracker, logger *zap.Logger) notifier {
	if events == nil {
		events = NopPublisher{}
	}
	if analytics == nil {
		analytics = NopAnalytics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return notifier{events: events, analytics: analytics, logger: logger}
}

func (n notifier) publish(ctx context.Context, topic string, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("event publisher panicked", zap.String("topic", topic), zap.Any("panic", r))
		}
	}()
	if err := n.events.Publish(ctx, topic, payload); err != nil {
		n.logger.Warn("failed to publish event", zap.String("topic", topic), zap.Error(err))
	}
}

func (n notifier) track(actorID, event string, props map[string]interface{}) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("analytics tracker panicked", zap.String("event", event), zap.Any("panic", r))
		}
	}()
	n.analytics.Track(actorID, event, props)
}

func actorOf(caller *models.Caller) string {
	if caller == nil {
		return ""
	}
	return caller.UserID
}

// storeError maps a repository failure to a domain error: a missing row
// becomes NOT_FOUND, anything else UNAVAILABLE.
func storeError(err error, notFound, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Unavailable(err, "failed to "+op)
}

type teamReader interface {
	GetByID(ctx context.Context, id string) (*models.Team, error)
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

// loadTeamWithMembers is the explicit team read aggregate used by every workflow.
func loadTeamWithMembers(ctx context.Context, teams teamReader, teamID string) (*models.TeamWithMembers, error) {
	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, storeError(err, "team not found", "load team")
	}
	members, err := teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load team members")
	}
	if members == nil {
		members = []models.TeamMember{}
	}
	return &models.TeamWithMembers{Team: *team, Members: members}, nil
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
