package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/internship-api/internal/models"
)

const weeklyReportColumns = `id, team_id, week, description, progress_percentage, task_ids, status, submitted_by, submitted_at,
reviewed_by, reviewed_at, created_at, updated_at`

// WeeklyReportRepository persists weekly reports and their review comments.
type WeeklyReportRepository struct {
	db *sqlx.DB
}

// NewWeeklyReportRepository constructs the repository.
func NewWeeklyReportRepository(db *sqlx.DB) *WeeklyReportRepository {
	return &WeeklyReportRepository{db: db}
}

// GetByID fetches a report.
func (r *WeeklyReportRepository) GetByID(ctx context.Context, id string) (*models.WeeklyReport, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_reports WHERE id = $1", weeklyReportColumns)
	var report models.WeeklyReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get weekly report: %w", err)
	}
	return &report, nil
}

// ListByTeam returns a team's reports, latest week first.
func (r *WeeklyReportRepository) ListByTeam(ctx context.Context, teamID string) ([]models.WeeklyReport, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_reports WHERE team_id = $1 ORDER BY week DESC", weeklyReportColumns)
	var reports []models.WeeklyReport
	if err := r.db.SelectContext(ctx, &reports, query, teamID); err != nil {
		return nil, fmt.Errorf("list weekly reports: %w", err)
	}
	return reports, nil
}

// Submit inserts or overwrites the (team, week) report as submitted. An
// existing approved report is left untouched and sql.ErrNoRows is returned.
func (r *WeeklyReportRepository) Submit(ctx context.Context, report *models.WeeklyReport) (*models.WeeklyReport, error) {
	query := fmt.Sprintf(`INSERT INTO weekly_reports (id, team_id, week, description, progress_percentage, task_ids, status, submitted_by, submitted_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, 'submitted', $7, $8, $8, $8)
ON CONFLICT (team_id, week) DO UPDATE SET
	description = EXCLUDED.description,
	progress_percentage = EXCLUDED.progress_percentage,
	task_ids = EXCLUDED.task_ids,
	status = 'submitted',
	submitted_by = EXCLUDED.submitted_by,
	submitted_at = EXCLUDED.submitted_at,
	updated_at = EXCLUDED.updated_at
WHERE weekly_reports.status <> 'approved'
RETURNING %s`, weeklyReportColumns)
	return r.upsert(ctx, query, report, "submit weekly report")
}

// SaveDraft inserts or overwrites the (team, week) report while it is still a
// draft. Any other existing status yields sql.ErrNoRows.
func (r *WeeklyReportRepository) SaveDraft(ctx context.Context, report *models.WeeklyReport) (*models.WeeklyReport, error) {
	query := fmt.Sprintf(`INSERT INTO weekly_reports (id, team_id, week, description, progress_percentage, task_ids, status, submitted_by, submitted_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, 'draft', $7, NULL, $8, $8)
ON CONFLICT (team_id, week) DO UPDATE SET
	description = EXCLUDED.description,
	progress_percentage = EXCLUDED.progress_percentage,
	task_ids = EXCLUDED.task_ids,
	updated_at = EXCLUDED.updated_at
WHERE weekly_reports.status = 'draft'
RETURNING %s`, weeklyReportColumns)
	return r.upsert(ctx, query, report, "save weekly report draft")
}

func (r *WeeklyReportRepository) upsert(ctx context.Context, query string, report *models.WeeklyReport, op string) (*models.WeeklyReport, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.TaskIDs == nil {
		report.TaskIDs = pq.StringArray{}
	}
	now := time.Now().UTC()
	var stored models.WeeklyReport
	err := r.db.GetContext(ctx, &stored, query,
		report.ID, report.TeamID, report.Week, report.Description, report.ProgressPercentage, report.TaskIDs, report.SubmittedBy, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stored, nil
}

// ReviewReportParams groups the outcome of a supervisor review.
type ReviewReportParams struct {
	ID         string
	Status     models.WeeklyReportStatus
	ReviewerID string
	ReviewedAt time.Time
	Comment    *models.WeeklyReportComment
}

// Review moves a submitted report to its review status and appends the
// optional comment in the same transaction. It returns sql.ErrNoRows when the
// report is not submitted.
func (r *WeeklyReportRepository) Review(ctx context.Context, params ReviewReportParams) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin weekly report review: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateQuery = `UPDATE weekly_reports SET status = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $4
WHERE id = $1 AND status = 'submitted'`
	result, err := tx.ExecContext(ctx, updateQuery, params.ID, params.Status, params.ReviewerID, params.ReviewedAt)
	if err != nil {
		return fmt.Errorf("review weekly report: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check weekly report review rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	if params.Comment != nil {
		if err = insertComment(ctx, tx, params.Comment); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit weekly report review: %w", err)
	}
	return nil
}

// AddComment appends a comment outside of a review.
func (r *WeeklyReportRepository) AddComment(ctx context.Context, comment *models.WeeklyReportComment) error {
	return insertComment(ctx, r.db, comment)
}

func insertComment(ctx context.Context, exec sqlx.ExtContext, comment *models.WeeklyReportComment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO weekly_report_comments (id, report_id, author_id, body, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := exec.ExecContext(ctx, query, comment.ID, comment.ReportID, comment.AuthorID, comment.Body, comment.CreatedAt); err != nil {
		return fmt.Errorf("insert weekly report comment: %w", err)
	}
	return nil
}

// ListComments returns comments in insertion order.
func (r *WeeklyReportRepository) ListComments(ctx context.Context, reportID string) ([]models.WeeklyReportComment, error) {
	const query = `SELECT id, report_id, author_id, body, created_at FROM weekly_report_comments WHERE report_id = $1 ORDER BY seq`
	var comments []models.WeeklyReportComment
	if err := r.db.SelectContext(ctx, &comments, query, reportID); err != nil {
		return nil, fmt.Errorf("list weekly report comments: %w", err)
	}
	return comments, nil
}
