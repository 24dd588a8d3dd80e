package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/internship-api/internal/models"
)

const taskColumns = `id, team_id, work_program_id, title, description, start_date, due_date, status, completed,
assigned_member_ids, completed_by_id, completed_at, created_by, created_at, updated_at`

// TaskRepository persists tasks, completion artifacts and progress notes.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs the repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task in the todo state.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Status = models.TaskStatusTodo
	task.Completed = false
	if task.AssignedMemberIDs == nil {
		task.AssignedMemberIDs = pq.StringArray{}
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	const query = `INSERT INTO tasks (id, team_id, work_program_id, title, description, start_date, due_date, status, completed,
assigned_member_ids, created_by, created_at, updated_at)
VALUES (:id, :team_id, :work_program_id, :title, :description, :start_date, :due_date, :status, :completed,
:assigned_member_ids, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetByID fetches a task.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1", taskColumns)
	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// GetByIDs returns the tasks that still exist among ids.
func (r *TaskRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Task, error) {
	if len(ids) == 0 {
		return []models.Task{}, nil
	}
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = ANY($1)", taskColumns)
	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("get tasks by ids: %w", err)
	}
	return tasks, nil
}

// List returns tasks matching the filter.
func (r *TaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	args := make([]interface{}, 0, 2)
	conditions := make([]string, 0, 2)
	if filter.TeamID != "" {
		args = append(args, filter.TeamID)
		conditions = append(conditions, fmt.Sprintf("team_id = $%d", len(args)))
	}
	if filter.WorkProgramID != "" {
		args = append(args, filter.WorkProgramID)
		conditions = append(conditions, fmt.Sprintf("work_program_id = $%d", len(args)))
	}
	query := fmt.Sprintf("SELECT %s FROM tasks", taskColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at"

	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateDetails writes the freely mutable task fields.
func (r *TaskRepository) UpdateDetails(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	const query = `UPDATE tasks SET title = :title, description = :description, start_date = :start_date, due_date = :due_date,
assigned_member_ids = :assigned_member_ids, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Complete flips the task to completed and records its artifacts in one
// transaction. It returns sql.ErrNoRows when the task is already completed.
func (r *TaskRepository) Complete(ctx context.Context, completion models.TaskCompletion) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin task completion: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateQuery = `UPDATE tasks SET completed = TRUE, status = $2, completed_by_id = $3, completed_at = $4, updated_at = $4
WHERE id = $1 AND completed = FALSE`
	result, err := tx.ExecContext(ctx, updateQuery, completion.TaskID, models.TaskStatusCompleted, completion.CompletedByID, completion.CompletedAt)
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check task completion rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	const artifactQuery = `INSERT INTO task_artifacts (id, task_id, name, url, content_type, size_bytes, uploaded_by, uploaded_at)
VALUES (:id, :task_id, :name, :url, :content_type, :size_bytes, :uploaded_by, :uploaded_at)`
	for i := range completion.Artifacts {
		artifact := &completion.Artifacts[i]
		if artifact.ID == "" {
			artifact.ID = uuid.NewString()
		}
		artifact.TaskID = completion.TaskID
		if _, err = tx.NamedExecContext(ctx, artifactQuery, artifact); err != nil {
			return fmt.Errorf("insert task artifact: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit task completion: %w", err)
	}
	return nil
}

// Delete removes a task with its artifacts and notes.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListArtifacts returns completion files of a task.
func (r *TaskRepository) ListArtifacts(ctx context.Context, taskID string) ([]models.TaskArtifact, error) {
	const query = `SELECT id, task_id, name, url, content_type, size_bytes, uploaded_by, uploaded_at FROM task_artifacts WHERE task_id = $1 ORDER BY uploaded_at`
	var artifacts []models.TaskArtifact
	if err := r.db.SelectContext(ctx, &artifacts, query, taskID); err != nil {
		return nil, fmt.Errorf("list task artifacts: %w", err)
	}
	return artifacts, nil
}

// AddUpdate appends a progress note.
func (r *TaskRepository) AddUpdate(ctx context.Context, update *models.TaskUpdate) error {
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	if update.CreatedAt.IsZero() {
		update.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO task_updates (id, task_id, member_id, note, progress, created_at)
VALUES (:id, :task_id, :member_id, :note, :progress, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, update); err != nil {
		return fmt.Errorf("add task update: %w", err)
	}
	return nil
}

// ListUpdates returns the notes of a task in creation order.
func (r *TaskRepository) ListUpdates(ctx context.Context, taskID string) ([]models.TaskUpdate, error) {
	const query = `SELECT id, task_id, member_id, note, progress, created_at FROM task_updates WHERE task_id = $1 ORDER BY created_at`
	var updates []models.TaskUpdate
	if err := r.db.SelectContext(ctx, &updates, query, taskID); err != nil {
		return nil, fmt.Errorf("list task updates: %w", err)
	}
	return updates, nil
}
