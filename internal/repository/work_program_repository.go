package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-api/internal/models"
)

const workProgramColumns = `id, team_id, title, description, member_ids, progress, created_by, created_at, updated_at`

// WorkProgramRepository persists work programs and per-member progress.
type WorkProgramRepository struct {
	db *sqlx.DB
}

// NewWorkProgramRepository constructs the repository.
func NewWorkProgramRepository(db *sqlx.DB) *WorkProgramRepository {
	return &WorkProgramRepository{db: db}
}

// Create inserts a work program.
func (r *WorkProgramRepository) Create(ctx context.Context, wp *models.WorkProgram) error {
	if wp.ID == "" {
		wp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	wp.CreatedAt = now
	wp.UpdatedAt = now
	const query = `INSERT INTO work_programs (id, team_id, title, description, member_ids, progress, created_by, created_at, updated_at)
VALUES (:id, :team_id, :title, :description, :member_ids, :progress, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, wp); err != nil {
		return fmt.Errorf("create work program: %w", err)
	}
	return nil
}

// GetByID fetches a work program.
func (r *WorkProgramRepository) GetByID(ctx context.Context, id string) (*models.WorkProgram, error) {
	query := fmt.Sprintf("SELECT %s FROM work_programs WHERE id = $1", workProgramColumns)
	var wp models.WorkProgram
	if err := r.db.GetContext(ctx, &wp, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get work program: %w", err)
	}
	return &wp, nil
}

// ListByTeam returns the team's work programs.
func (r *WorkProgramRepository) ListByTeam(ctx context.Context, teamID string) ([]models.WorkProgram, error) {
	query := fmt.Sprintf("SELECT %s FROM work_programs WHERE team_id = $1 ORDER BY created_at", workProgramColumns)
	var list []models.WorkProgram
	if err := r.db.SelectContext(ctx, &list, query, teamID); err != nil {
		return nil, fmt.Errorf("list work programs: %w", err)
	}
	return list, nil
}

// ListProgress returns per-member progress rows.
func (r *WorkProgramRepository) ListProgress(ctx context.Context, workProgramID string) ([]models.WorkProgramProgress, error) {
	const query = `SELECT id, work_program_id, member_id, percentage, updated_at FROM work_program_progress WHERE work_program_id = $1 ORDER BY member_id`
	var rows []models.WorkProgramProgress
	if err := r.db.SelectContext(ctx, &rows, query, workProgramID); err != nil {
		return nil, fmt.Errorf("list work program progress: %w", err)
	}
	return rows, nil
}

const upsertProgressQuery = `INSERT INTO work_program_progress (id, work_program_id, member_id, percentage, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (work_program_id, member_id)
DO UPDATE SET percentage = EXCLUDED.percentage, updated_at = EXCLUDED.updated_at`

// UpsertMemberProgress writes one member's percentage.
func (r *WorkProgramRepository) UpsertMemberProgress(ctx context.Context, workProgramID, memberID string, percentage int) error {
	if _, err := r.db.ExecContext(ctx, upsertProgressQuery, uuid.NewString(), workProgramID, memberID, percentage, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert member progress: %w", err)
	}
	return nil
}

// RoundPercentage returns round(100*completed/total) with halves away from zero.
func RoundPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// Recompute derives the work program progress from its tasks and mirrors the
// value onto every assigned member inside one transaction holding the row
// lock. A work program without tasks is left untouched.
func (r *WorkProgramRepository) Recompute(ctx context.Context, workProgramID string) (result *models.WorkProgram, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin recompute: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var wp models.WorkProgram
	lockQuery := fmt.Sprintf("SELECT %s FROM work_programs WHERE id = $1 FOR UPDATE", workProgramColumns)
	if err = tx.GetContext(ctx, &wp, lockQuery, workProgramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lock work program: %w", err)
	}

	var counts models.TaskCounts
	const countQuery = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE completed) AS completed FROM tasks WHERE work_program_id = $1`
	if err = tx.GetContext(ctx, &counts, countQuery, workProgramID); err != nil {
		return nil, fmt.Errorf("count work program tasks: %w", err)
	}

	if counts.Total > 0 {
		now := time.Now().UTC()
		wp.Progress = RoundPercentage(counts.Completed, counts.Total)
		wp.UpdatedAt = now
		if _, err = tx.ExecContext(ctx, `UPDATE work_programs SET progress = $2, updated_at = $3 WHERE id = $1`, wp.ID, wp.Progress, now); err != nil {
			return nil, fmt.Errorf("update work program progress: %w", err)
		}
		for _, memberID := range wp.MemberIDs {
			if _, err = tx.ExecContext(ctx, upsertProgressQuery, uuid.NewString(), wp.ID, memberID, wp.Progress, now); err != nil {
				return nil, fmt.Errorf("upsert member progress: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit recompute: %w", err)
	}
	return &wp, nil
}
