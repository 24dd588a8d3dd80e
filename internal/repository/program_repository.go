package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-api/internal/models"
)

const programColumns = `id, title, description, start_date, end_date, archived, created_at, updated_at`

// ProgramRepository persists internship programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs the repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// Create inserts a program.
func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	const query = `INSERT INTO programs (id, title, description, start_date, end_date, archived, created_at, updated_at)
VALUES (:id, :title, :description, :start_date, :end_date, :archived, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// GetByID fetches a program.
func (r *ProgramRepository) GetByID(ctx context.Context, id string) (*models.Program, error) {
	query := fmt.Sprintf("SELECT %s FROM programs WHERE id = $1", programColumns)
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get program: %w", err)
	}
	return &program, nil
}

// List returns programs ordered by start date, newest first.
func (r *ProgramRepository) List(ctx context.Context, includeArchived bool) ([]models.Program, error) {
	query := fmt.Sprintf("SELECT %s FROM programs", programColumns)
	if !includeArchived {
		query += " WHERE archived = FALSE"
	}
	query += " ORDER BY start_date DESC"
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// Archive marks the program archived. Archiving twice is a no-op.
func (r *ProgramRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE programs SET archived = TRUE, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("archive program: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check archive rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
