package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/repository"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/isoweek"
)

type weeklyReportStore interface {
	GetByID(ctx context.Context, id string) (*models.WeeklyReport, error)
	ListByTeam(ctx context.Context, teamID string) ([]models.WeeklyReport, error)
	Submit(ctx context.Context, report *models.WeeklyReport) (*models.WeeklyReport, error)
	SaveDraft(ctx context.Context, report *models.WeeklyReport) (*models.WeeklyReport, error)
	Review(ctx context.Context, params repository.ReviewReportParams) error
	AddComment(ctx context.Context, comment *models.WeeklyReportComment) error
	ListComments(ctx context.Context, reportID string) ([]models.WeeklyReportComment, error)
}

type taskLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]models.Task, error)
}

// WeeklyReportService owns the weekly report state machine.
type WeeklyReportService struct {
	reports   weeklyReportStore
	teams     teamReader
	tasks     taskLookup
	validator *validator.Validate
	notifier
}

// NewWeeklyReportService constructs the service.
func NewWeeklyReportService(reports weeklyReportStore, teams teamReader, tasks taskLookup, validate *validator.Validate, events EventPublisher, analytics AnalyticsTracker, logger *zap.Logger) *WeeklyReportService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	return &WeeklyReportService{
		reports:   reports,
		teams:     teams,
		tasks:     tasks,
		validator: validate,
		notifier:  newNotifier(events, analytics, logger),
	}
}

// Submit creates or overwrites the team's report for the week as submitted.
// Existing comments are kept; an approved report cannot be resubmitted.
func (s *WeeklyReportService) Submit(ctx context.Context, teamID string, req dto.WeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	report, err := s.prepare(ctx, teamID, req, caller)
	if err != nil {
		return nil, err
	}
	stored, err := s.reports.Submit(ctx, report)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "weekly report "+report.Week+" is already approved")
		}
		return nil, appErrors.Unavailable(err, "failed to submit weekly report")
	}
	detail, err := s.detail(ctx, stored)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, TopicReportSubmitted, stored)
	s.track(caller.UserID, EventWeeklyReportSubmitted, map[string]interface{}{"teamId": teamID, "week": stored.Week})
	return detail, nil
}

// SaveDraft creates or updates the week's report while it is still a draft.
func (s *WeeklyReportService) SaveDraft(ctx context.Context, teamID string, req dto.WeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	report, err := s.prepare(ctx, teamID, req, caller)
	if err != nil {
		return nil, err
	}
	stored, err := s.reports.SaveDraft(ctx, report)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "weekly report "+report.Week+" is no longer a draft")
		}
		return nil, appErrors.Unavailable(err, "failed to save weekly report draft")
	}
	s.track(caller.UserID, EventWeeklyReportDrafted, map[string]interface{}{"teamId": teamID, "week": stored.Week})
	return s.detail(ctx, stored)
}

func (s *WeeklyReportService) prepare(ctx context.Context, teamID string, req dto.WeeklyReportRequest, caller *models.Caller) (*models.WeeklyReport, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamLeaderOrAdmin(caller, &team.Team); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid weekly report payload")
	}
	week, err := isoweek.Parse(strings.TrimSpace(req.Week))
	if err != nil {
		return nil, validationError(err, "week must be a valid ISO week (YYYY-Www)")
	}
	if *req.ProgressPercentage < 0 || *req.ProgressPercentage > 100 {
		return nil, appErrors.Clone(appErrors.ErrConstraintViolation, "progressPercentage must be between 0 and 100")
	}
	taskIDs := distinct(req.TaskIDs)
	if err := s.requireTeamTasks(ctx, teamID, taskIDs); err != nil {
		return nil, err
	}
	submitter := caller.UserID
	return &models.WeeklyReport{
		TeamID:             teamID,
		Week:               week.String(),
		Description:        strings.TrimSpace(req.Description),
		ProgressPercentage: *req.ProgressPercentage,
		TaskIDs:            pq.StringArray(taskIDs),
		SubmittedBy:        &submitter,
	}, nil
}

func (s *WeeklyReportService) requireTeamTasks(ctx context.Context, teamID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tasks, err := s.tasks.GetByIDs(ctx, ids)
	if err != nil {
		return appErrors.Unavailable(err, "failed to load report tasks")
	}
	found := make(map[string]struct{}, len(tasks))
	for _, task := range tasks {
		if task.TeamID == teamID {
			found[task.ID] = struct{}{}
		}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return appErrors.Clone(appErrors.ErrConstraintViolation, "task "+id+" does not belong to the team")
		}
	}
	return nil
}

// Approve accepts a submitted report. The optional comment is appended.
func (s *WeeklyReportService) Approve(ctx context.Context, reportID string, req dto.ReviewWeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	return s.review(ctx, reportID, models.WeeklyReportApproved, strings.TrimSpace(req.Comment), caller)
}

// Reject sends a submitted report back for revision. A comment is required.
func (s *WeeklyReportService) Reject(ctx context.Context, reportID string, req dto.ReviewWeeklyReportRequest, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	return s.review(ctx, reportID, models.WeeklyReportRevisionRequested, strings.TrimSpace(req.Comment), caller)
}

func (s *WeeklyReportService) review(ctx context.Context, reportID string, to models.WeeklyReportStatus, comment string, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	if err := Authorize(caller, CapReviewer); err != nil {
		return nil, err
	}
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, storeError(err, "weekly report not found", "load weekly report")
	}
	team, err := s.teams.GetByID(ctx, report.TeamID)
	if err != nil {
		return nil, storeError(err, "team not found", "load team")
	}
	if err := RequireTeamSupervisorOrAdmin(caller, team); err != nil {
		return nil, err
	}
	if to == models.WeeklyReportRevisionRequested && comment == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a comment is required when requesting revision")
	}
	if report.Status != models.WeeklyReportSubmitted {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only submitted reports can be reviewed, report is "+string(report.Status))
	}

	now := time.Now().UTC()
	params := repository.ReviewReportParams{ID: reportID, Status: to, ReviewerID: caller.UserID, ReviewedAt: now}
	if comment != "" {
		params.Comment = &models.WeeklyReportComment{ReportID: reportID, AuthorID: caller.UserID, Body: comment, CreatedAt: now}
	}
	if err := s.reports.Review(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "weekly report was modified concurrently")
		}
		return nil, appErrors.Unavailable(err, "failed to review weekly report")
	}
	report.Status = to
	report.ReviewedBy = &caller.UserID
	report.ReviewedAt = &now

	detail, err := s.detail(ctx, report)
	if err != nil {
		return nil, err
	}
	event := EventWeeklyReportApproved
	if to == models.WeeklyReportRevisionRequested {
		event = EventWeeklyReportRevision
	}
	s.publish(ctx, TopicReportUpdated, report)
	s.track(caller.UserID, event, map[string]interface{}{"reportId": reportID, "teamId": report.TeamID})
	return detail, nil
}

// AddComment appends a comment. Allowed for the team leader, the team
// supervisor and admins, in any status.
func (s *WeeklyReportService) AddComment(ctx context.Context, reportID string, req dto.AddCommentRequest, caller *models.Caller) (*models.WeeklyReportComment, error) {
	if err := Authorize(caller, CapMember); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "comment body is required")
	}
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, storeError(err, "weekly report not found", "load weekly report")
	}
	team, err := s.teams.GetByID(ctx, report.TeamID)
	if err != nil {
		return nil, storeError(err, "team not found", "load team")
	}
	if !IsAdmin(caller) && !IsTeamSupervisor(caller, team) && !IsTeamLeader(caller, team) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the team leader, supervisor or an admin may comment")
	}
	comment := &models.WeeklyReportComment{
		ReportID:  reportID,
		AuthorID:  caller.UserID,
		Body:      strings.TrimSpace(req.Body),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reports.AddComment(ctx, comment); err != nil {
		return nil, appErrors.Unavailable(err, "failed to add comment")
	}
	s.publish(ctx, TopicReportUpdated, comment)
	s.track(caller.UserID, EventWeeklyReportCommented, map[string]interface{}{"reportId": reportID})
	return comment, nil
}

// Get returns a report with comments and per-member progress.
func (s *WeeklyReportService) Get(ctx context.Context, reportID string, caller *models.Caller) (*models.WeeklyReportDetail, error) {
	if err := Authorize(caller, CapMember); err != nil {
		return nil, err
	}
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, storeError(err, "weekly report not found", "load weekly report")
	}
	team, err := loadTeamWithMembers(ctx, s.teams, report.TeamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	return s.detailFor(ctx, report, team)
}

// ListByTeam returns the team's reports, newest week first.
func (s *WeeklyReportService) ListByTeam(ctx context.Context, teamID string, caller *models.Caller) ([]models.WeeklyReport, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	reports, err := s.reports.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list weekly reports")
	}
	return reports, nil
}

func (s *WeeklyReportService) detail(ctx context.Context, report *models.WeeklyReport) (*models.WeeklyReportDetail, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, report.TeamID)
	if err != nil {
		return nil, err
	}
	return s.detailFor(ctx, report, team)
}

func (s *WeeklyReportService) detailFor(ctx context.Context, report *models.WeeklyReport, team *models.TeamWithMembers) (*models.WeeklyReportDetail, error) {
	comments, err := s.reports.ListComments(ctx, report.ID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load report comments")
	}
	if comments == nil {
		comments = []models.WeeklyReportComment{}
	}
	var tasks []models.Task
	if len(report.TaskIDs) > 0 {
		tasks, err = s.tasks.GetByIDs(ctx, report.TaskIDs)
		if err != nil {
			return nil, appErrors.Unavailable(err, "failed to load report tasks")
		}
	}
	return &models.WeeklyReportDetail{
		WeeklyReport:   *report,
		Comments:       comments,
		MemberProgress: memberProgress(team.Members, tasks),
	}, nil
}

// memberProgress counts, per member, the report tasks assigned to them and
// how many of those are completed. Tasks deleted since submission are absent
// from tasks and therefore skipped.
func memberProgress(members []models.TeamMember, tasks []models.Task) []models.MemberProgress {
	out := make([]models.MemberProgress, 0, len(members))
	for _, m := range members {
		row := models.MemberProgress{MemberID: m.UserID, FullName: m.FullName}
		for i := range tasks {
			if !tasks[i].IsAssigned(m.UserID) {
				continue
			}
			row.Assigned++
			if tasks[i].Completed {
				row.Completed++
			}
		}
		out = append(out, row)
	}
	return out
}
