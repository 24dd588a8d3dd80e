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

	"github.com/noah-isme/internship-api/internal/models"
)

const registrationColumns = `id, program_id, full_name, student_id, email, phone, status, user_id, reviewed_by, reviewed_at, review_notes, created_at, updated_at`

// RegistrationRepository persists program registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create inserts a pending registration. A concurrent active registration
// for the same email surfaces as a unique violation.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	if reg.Status == "" {
		reg.Status = models.RegistrationPending
	}
	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now
	const query = `INSERT INTO registrations (id, program_id, full_name, student_id, email, phone, status, created_at, updated_at)
VALUES (:id, :program_id, :full_name, :student_id, :email, :phone, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reg); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// GetByID fetches a registration.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	query := fmt.Sprintf("SELECT %s FROM registrations WHERE id = $1", registrationColumns)
	var reg models.Registration
	if err := r.db.GetContext(ctx, &reg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &reg, nil
}

// FindActiveByEmail returns the pending or approved registration for email.
func (r *RegistrationRepository) FindActiveByEmail(ctx context.Context, email string) (*models.Registration, error) {
	query := fmt.Sprintf(`SELECT %s FROM registrations WHERE LOWER(email) = $1 AND status IN ('pending', 'approved') LIMIT 1`, registrationColumns)
	var reg models.Registration
	if err := r.db.GetContext(ctx, &reg, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find active registration: %w", err)
	}
	return &reg, nil
}

// List returns registrations matching the filter, newest first.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(fmt.Sprintf("SELECT %s FROM registrations", registrationColumns))

	conditions := make([]string, 0, 2)
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		conditions = append(conditions, fmt.Sprintf("program_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var regs []models.Registration
	if err := r.db.SelectContext(ctx, &regs, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// ReviewParams groups the columns written by approve and reject.
type ReviewParams struct {
	ID         string
	Status     models.RegistrationStatus
	ReviewedBy string
	ReviewedAt time.Time
	Notes      *string
}

// Review moves a pending registration to its terminal status. It returns
// sql.ErrNoRows when the registration is no longer pending.
func (r *RegistrationRepository) Review(ctx context.Context, params ReviewParams) error {
	query := fmt.Sprintf(`UPDATE registrations SET status = :status, reviewed_by = :reviewed_by, reviewed_at = :reviewed_at,
review_notes = COALESCE(:review_notes, review_notes), updated_at = :reviewed_at
WHERE id = :id AND status = '%s'`, models.RegistrationPending)
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":           params.ID,
		"status":       params.Status,
		"reviewed_by":  params.ReviewedBy,
		"reviewed_at":  params.ReviewedAt,
		"review_notes": params.Notes,
	})
	if err != nil {
		return fmt.Errorf("review registration: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check registration review rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// LinkUser sets user_id when it is not yet linked.
func (r *RegistrationRepository) LinkUser(ctx context.Context, id, userID string) error {
	const query = `UPDATE registrations SET user_id = $2, updated_at = $3 WHERE id = $1 AND user_id IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("link registration user: %w", err)
	}
	return nil
}
