package service

import (
	"context"
	"database/sql"
	"encoding/json"
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
)

// DefaultRecomputeRetries bounds replays of a failed recompute.
const DefaultRecomputeRetries = 3

type taskStore interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateDetails(ctx context.Context, task *models.Task) error
	Complete(ctx context.Context, completion models.TaskCompletion) error
	Delete(ctx context.Context, id string) error
	ListArtifacts(ctx context.Context, taskID string) ([]models.TaskArtifact, error)
	AddUpdate(ctx context.Context, update *models.TaskUpdate) error
	ListUpdates(ctx context.Context, taskID string) ([]models.TaskUpdate, error)
}

type workProgramStore interface {
	Create(ctx context.Context, wp *models.WorkProgram) error
	GetByID(ctx context.Context, id string) (*models.WorkProgram, error)
	ListByTeam(ctx context.Context, teamID string) ([]models.WorkProgram, error)
	ListProgress(ctx context.Context, workProgramID string) ([]models.WorkProgramProgress, error)
	UpsertMemberProgress(ctx context.Context, workProgramID, memberID string, percentage int) error
	Recompute(ctx context.Context, workProgramID string) (*models.WorkProgram, error)
}

type activityRecorder interface {
	Create(ctx context.Context, activity *models.Activity) error
}

type recomputeMetrics interface {
	RecordRecompute(result string)
	RecordRecomputeRetry()
}

// TaskServiceConfig tunes the progress engine.
type TaskServiceConfig struct {
	RecomputeRetries int
}

// TaskService runs task transitions and keeps work program progress aggregated.
type TaskService struct {
	tasks        taskStore
	workPrograms workProgramStore
	teams        teamReader
	activities   activityRecorder
	files        FileStore
	signer       URLSigner
	metrics      recomputeMetrics
	validator    *validator.Validate
	config       TaskServiceConfig
	locks        *keyedMutex
	notifier
}

// TaskServiceDeps groups the collaborators of TaskService.
type TaskServiceDeps struct {
	Tasks        taskStore
	WorkPrograms workProgramStore
	Teams        teamReader
	Activities   activityRecorder
	Files        FileStore
	Signer       URLSigner
	Metrics      recomputeMetrics
	Validator    *validator.Validate
	Events       EventPublisher
	Analytics    AnalyticsTracker
	Logger       *zap.Logger
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskServiceDeps, cfg TaskServiceConfig) *TaskService {
	if deps.Validator == nil {
		deps.Validator = dto.NewValidator()
	}
	if deps.Metrics == nil {
		deps.Metrics = (*MetricsService)(nil)
	}
	if cfg.RecomputeRetries < 0 {
		cfg.RecomputeRetries = 0
	} else if cfg.RecomputeRetries == 0 {
		cfg.RecomputeRetries = DefaultRecomputeRetries
	}
	return &TaskService{
		tasks:        deps.Tasks,
		workPrograms: deps.WorkPrograms,
		teams:        deps.Teams,
		activities:   deps.Activities,
		files:        deps.Files,
		signer:       deps.Signer,
		metrics:      deps.Metrics,
		validator:    deps.Validator,
		config:       cfg,
		locks:        newKeyedMutex(),
		notifier:     newNotifier(deps.Events, deps.Analytics, deps.Logger),
	}
}

// CreateWorkProgram adds a work program to a team. Leader or admin. An empty
// member list assigns every team member.
func (s *TaskService) CreateWorkProgram(ctx context.Context, teamID string, req dto.CreateWorkProgramRequest, caller *models.Caller) (*models.WorkProgramDetail, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamLeaderOrAdmin(caller, &team.Team); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid work program payload")
	}
	members := distinct(req.MemberIDs)
	if len(members) == 0 {
		members = team.MemberIDs()
	}
	if err := requireMembers(team, members); err != nil {
		return nil, err
	}

	wp := &models.WorkProgram{
		TeamID:      teamID,
		Title:       strings.TrimSpace(req.Title),
		Description: stringPtr(strings.TrimSpace(req.Description)),
		MemberIDs:   pq.StringArray(members),
		CreatedBy:   caller.UserID,
	}
	if err := s.workPrograms.Create(ctx, wp); err != nil {
		return nil, appErrors.Unavailable(err, "failed to create work program")
	}
	s.track(caller.UserID, EventWorkProgramCreated, map[string]interface{}{"teamId": teamID, "workProgramId": wp.ID})
	return &models.WorkProgramDetail{WorkProgram: *wp, MemberProgress: []models.WorkProgramProgress{}}, nil
}

// GetWorkProgram returns the aggregate with per-member progress rows.
func (s *TaskService) GetWorkProgram(ctx context.Context, id string, caller *models.Caller) (*models.WorkProgramDetail, error) {
	wp, err := s.workPrograms.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "work program not found", "load work program")
	}
	team, err := loadTeamWithMembers(ctx, s.teams, wp.TeamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	rows, err := s.workPrograms.ListProgress(ctx, id)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load member progress")
	}
	if rows == nil {
		rows = []models.WorkProgramProgress{}
	}
	return &models.WorkProgramDetail{WorkProgram: *wp, MemberProgress: rows}, nil
}

// ListWorkPrograms returns a team's work programs.
func (s *TaskService) ListWorkPrograms(ctx context.Context, teamID string, caller *models.Caller) ([]models.WorkProgram, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	list, err := s.workPrograms.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list work programs")
	}
	return list, nil
}

// CreateTask adds a todo task. Leader or admin.
func (s *TaskService) CreateTask(ctx context.Context, teamID string, req dto.CreateTaskRequest, caller *models.Caller) (*models.Task, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamLeaderOrAdmin(caller, &team.Team); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid task payload")
	}
	start, due, err := parseSchedule(req.StartDate, req.DueDate)
	if err != nil {
		return nil, err
	}
	assignees := distinct(req.AssigneeIDs)
	if err := requireMembers(team, assignees); err != nil {
		return nil, err
	}

	task := &models.Task{
		TeamID:            teamID,
		Title:             strings.TrimSpace(req.Title),
		Description:       stringPtr(strings.TrimSpace(req.Description)),
		StartDate:         start,
		DueDate:           due,
		AssignedMemberIDs: pq.StringArray(assignees),
		CreatedBy:         caller.UserID,
	}
	if wpID := strings.TrimSpace(req.WorkProgramID); wpID != "" {
		wp, err := s.workPrograms.GetByID(ctx, wpID)
		if err != nil {
			return nil, storeError(err, "work program not found", "load work program")
		}
		if wp.TeamID != teamID {
			return nil, appErrors.Clone(appErrors.ErrConstraintViolation, "work program belongs to another team")
		}
		task.WorkProgramID = &wp.ID
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, appErrors.Unavailable(err, "failed to create task")
	}
	if task.WorkProgramID != nil {
		if _, err := s.RecomputeWorkProgram(ctx, *task.WorkProgramID); err != nil {
			return nil, err
		}
	}
	s.publish(ctx, TopicTaskUpdated, task)
	s.track(caller.UserID, EventTaskCreated, map[string]interface{}{"taskId": task.ID, "teamId": teamID})
	return task, nil
}

// GetTask returns a task with artifacts and progress notes.
func (s *TaskService) GetTask(ctx context.Context, taskID string, caller *models.Caller) (*models.TaskDetail, error) {
	task, _, err := s.loadTaskForCaller(ctx, taskID, caller, RequireTeamAccess)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, task)
}

// ListTasks returns a team's tasks, optionally narrowed to one work program.
func (s *TaskService) ListTasks(ctx context.Context, teamID, workProgramID string, caller *models.Caller) ([]models.Task, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, models.TaskFilter{TeamID: teamID, WorkProgramID: workProgramID})
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list tasks")
	}
	return tasks, nil
}

// UpdateTask applies a partial update. Flipping completed from false to true
// requires at least one file; the flip and the artifacts commit together and
// the work program aggregate is recomputed before returning.
// A recompute failure after the flip surfaces to the caller; repeating the
// request with completed=true recomputes again without new files.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest, files []dto.UploadedFile, caller *models.Caller) (*models.TaskDetail, error) {
	task, team, err := s.loadTaskForCaller(ctx, taskID, caller, RequireTeamAccess)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid task update payload")
	}
	if req.Completed != nil && !*req.Completed && task.Completed {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "a completed task cannot be reopened")
	}
	completing := req.Completed != nil && *req.Completed && !task.Completed
	if completing && len(files) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "completing a task requires at least one file")
	}
	changed, err := applyTaskPatch(task, team, req)
	if err != nil {
		return nil, err
	}

	// Asking for completed=true again on a completed task replays the
	// recompute, so a request that failed after the flip committed can be retried.
	recompute := task.WorkProgramID != nil && req.Completed != nil && *req.Completed

	// Details go first: once the completion commits nothing may fail before
	// the recompute runs.
	if changed {
		if err := s.tasks.UpdateDetails(ctx, task); err != nil {
			return nil, storeError(err, "task not found", "update task")
		}
	}
	if completing {
		if err := s.complete(ctx, task, files, caller); err != nil {
			return nil, err
		}
	}
	if recompute {
		if _, err := s.RecomputeWorkProgram(ctx, *task.WorkProgramID); err != nil {
			s.logger.Error("work program progress left stale", zap.String("task_id", task.ID), zap.String("work_program_id", *task.WorkProgramID), zap.Error(err))
			return nil, err
		}
	}

	detail, err := s.detail(ctx, task)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, TopicTaskUpdated, detail)
	event := EventTaskUpdated
	if completing {
		event = EventTaskCompleted
	}
	s.track(caller.UserID, event, map[string]interface{}{"taskId": task.ID, "teamId": task.TeamID})
	return detail, nil
}

func (s *TaskService) complete(ctx context.Context, task *models.Task, files []dto.UploadedFile, caller *models.Caller) error {
	stored, err := storeUploads(s.files, "tasks/"+task.ID, files, s.logger)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	artifacts := make([]models.TaskArtifact, 0, len(stored))
	for _, f := range stored {
		artifacts = append(artifacts, models.TaskArtifact{
			Name:        f.Name,
			URL:         f.Key,
			ContentType: f.ContentType,
			SizeBytes:   f.Size,
			UploadedBy:  caller.UserID,
			UploadedAt:  now,
		})
	}
	err = s.tasks.Complete(ctx, models.TaskCompletion{
		TaskID:        task.ID,
		CompletedByID: caller.UserID,
		CompletedAt:   now,
		Artifacts:     artifacts,
	})
	if err != nil {
		discardUploads(s.files, stored, s.logger)
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "task is already completed")
		}
		return appErrors.Unavailable(err, "failed to complete task")
	}
	task.Completed = true
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &now
	task.CompletedByID = &caller.UserID

	metadata, _ := json.Marshal(map[string]interface{}{"artifacts": len(artifacts)})
	if err := s.activities.Create(ctx, &models.Activity{
		ActorID:    caller.UserID,
		Action:     models.ActivityCompletedTask,
		TargetType: "task",
		TargetID:   task.ID,
		TeamID:     &task.TeamID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn("failed to record task completion activity", zap.String("task_id", task.ID), zap.Error(err))
	}
	return nil
}

// RecomputeWorkProgram derives the work program progress from its tasks.
// Recomputes of one work program never interleave; serialization failures
// are replayed a bounded number of times before CONSTRAINT_VIOLATION.
func (s *TaskService) RecomputeWorkProgram(ctx context.Context, workProgramID string) (*models.WorkProgram, error) {
	unlock := s.locks.Lock(workProgramID)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt <= s.config.RecomputeRetries; attempt++ {
		if attempt > 0 {
			s.metrics.RecordRecomputeRetry()
			s.logger.Warn("retrying work program recompute", zap.String("work_program_id", workProgramID), zap.Int("attempt", attempt), zap.Error(lastErr))
		}
		wp, err := s.workPrograms.Recompute(ctx, workProgramID)
		if err == nil {
			s.metrics.RecordRecompute("ok")
			return wp, nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordRecompute("failed")
			return nil, appErrors.Clone(appErrors.ErrNotFound, "work program not found")
		}
		if !repository.IsRetryable(err) {
			s.metrics.RecordRecompute("failed")
			return nil, appErrors.Unavailable(err, "failed to recompute work program progress")
		}
		lastErr = err
	}
	s.metrics.RecordRecompute("failed")
	return nil, appErrors.Wrap(lastErr, appErrors.ErrConstraintViolation.Code, appErrors.ErrConstraintViolation.Status, "work program progress could not be recomputed")
}

// AddTaskUpdate appends a progress note by a team member. A numeric progress
// on a work program task overrides the member's own progress row and is
// refused for team members outside the work program.
func (s *TaskService) AddTaskUpdate(ctx context.Context, taskID string, req dto.AddTaskUpdateRequest, caller *models.Caller) (*models.TaskUpdate, error) {
	task, _, err := s.loadTaskForCaller(ctx, taskID, caller, RequireTeamMember)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid task update payload")
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		return nil, appErrors.Clone(appErrors.ErrConstraintViolation, "progress must be between 0 and 100")
	}
	// Progress rows exist only for work program members; the recompute
	// overwrites exactly that set.
	if req.Progress != nil && task.WorkProgramID != nil {
		wp, err := s.workPrograms.GetByID(ctx, *task.WorkProgramID)
		if err != nil {
			return nil, storeError(err, "work program not found", "load work program")
		}
		if !wp.HasMember(caller.UserID) {
			return nil, appErrors.Clone(appErrors.ErrConstraintViolation, "only work program members can report progress")
		}
	}

	update := &models.TaskUpdate{
		TaskID:   task.ID,
		MemberID: caller.UserID,
		Note:     strings.TrimSpace(req.Note),
		Progress: req.Progress,
	}
	if err := s.tasks.AddUpdate(ctx, update); err != nil {
		return nil, appErrors.Unavailable(err, "failed to add task update")
	}
	if req.Progress != nil && task.WorkProgramID != nil {
		unlock := s.locks.Lock(*task.WorkProgramID)
		err := s.workPrograms.UpsertMemberProgress(ctx, *task.WorkProgramID, caller.UserID, *req.Progress)
		unlock()
		if err != nil {
			return nil, appErrors.Unavailable(err, "failed to update member progress")
		}
	}
	s.publish(ctx, TopicTaskUpdated, update)
	s.track(caller.UserID, EventTaskUpdateAdded, map[string]interface{}{"taskId": task.ID})
	return update, nil
}

// DeleteTask removes a task. The work program aggregate is left as is until
// the next completion under it.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string, caller *models.Caller) error {
	task, _, err := s.loadTaskForCaller(ctx, taskID, caller, func(c *models.Caller, team *models.TeamWithMembers) error {
		return RequireTeamLeaderOrAdmin(c, &team.Team)
	})
	if err != nil {
		return err
	}
	artifacts, err := s.tasks.ListArtifacts(ctx, taskID)
	if err != nil {
		s.logger.Warn("failed to list artifacts of deleted task", zap.String("task_id", taskID), zap.Error(err))
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return storeError(err, "task not found", "delete task")
	}
	for _, a := range artifacts {
		if err := s.files.Delete(a.URL); err != nil {
			s.logger.Warn("failed to remove artifact file", zap.String("key", a.URL), zap.Error(err))
		}
	}
	s.publish(ctx, TopicTaskUpdated, map[string]interface{}{"taskId": taskID, "teamId": task.TeamID, "deleted": true})
	s.track(caller.UserID, EventTaskDeleted, map[string]interface{}{"taskId": taskID, "teamId": task.TeamID})
	return nil
}

func (s *TaskService) loadTaskForCaller(ctx context.Context, taskID string, caller *models.Caller, check func(*models.Caller, *models.TeamWithMembers) error) (*models.Task, *models.TeamWithMembers, error) {
	if err := Authorize(caller, CapMember); err != nil {
		return nil, nil, err
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, storeError(err, "task not found", "load task")
	}
	team, err := loadTeamWithMembers(ctx, s.teams, task.TeamID)
	if err != nil {
		return nil, nil, err
	}
	if err := check(caller, team); err != nil {
		return nil, nil, err
	}
	return task, team, nil
}

func (s *TaskService) detail(ctx context.Context, task *models.Task) (*models.TaskDetail, error) {
	artifacts, err := s.tasks.ListArtifacts(ctx, task.ID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load task artifacts")
	}
	updates, err := s.tasks.ListUpdates(ctx, task.ID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load task updates")
	}
	if artifacts == nil {
		artifacts = []models.TaskArtifact{}
	}
	if updates == nil {
		updates = []models.TaskUpdate{}
	}
	for i := range artifacts {
		artifacts[i].DownloadURL = signURL(s.signer, task.ID, artifacts[i].URL, s.logger)
	}
	return &models.TaskDetail{Task: *task, Artifacts: artifacts, Updates: updates}, nil
}

func applyTaskPatch(task *models.Task, team *models.TeamWithMembers, req dto.UpdateTaskRequest) (bool, error) {
	changed := false
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
		changed = true
	}
	if req.Description != nil {
		task.Description = stringPtr(strings.TrimSpace(*req.Description))
		changed = true
	}
	if req.StartDate != nil || req.DueDate != nil {
		startRaw, dueRaw := formatDate(task.StartDate), formatDate(task.DueDate)
		if req.StartDate != nil {
			startRaw = *req.StartDate
		}
		if req.DueDate != nil {
			dueRaw = *req.DueDate
		}
		start, due, err := parseSchedule(startRaw, dueRaw)
		if err != nil {
			return false, err
		}
		task.StartDate, task.DueDate = start, due
		changed = true
	}
	if req.AssigneeIDs != nil {
		assignees := distinct(*req.AssigneeIDs)
		if err := requireMembers(team, assignees); err != nil {
			return false, err
		}
		task.AssignedMemberIDs = pq.StringArray(assignees)
		changed = true
	}
	return changed, nil
}

func requireMembers(team *models.TeamWithMembers, ids []string) error {
	for _, id := range ids {
		if !team.IsMember(id) {
			return appErrors.Clone(appErrors.ErrConstraintViolation, "user "+id+" is not a member of the team")
		}
	}
	return nil
}

func parseSchedule(startRaw, dueRaw string) (*time.Time, *time.Time, error) {
	start, err := parseOptionalDate(startRaw)
	if err != nil {
		return nil, nil, err
	}
	due, err := parseOptionalDate(dueRaw)
	if err != nil {
		return nil, nil, err
	}
	if start != nil && due != nil && due.Before(*start) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "dueDate must not be before startDate")
	}
	return start, due, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, validationError(err, "dates must use YYYY-MM-DD")
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
