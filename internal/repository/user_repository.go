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

const userColumns = `id, external_id, email, full_name, role, student_id, nidn, phone, password_hash, active, created_at, updated_at`

// UserRepository provides database access for user identities.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = $1", id, "find user by id")
}

// FindByExternalID returns the user linked to an external identity.
func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return r.findOne(ctx, "external_id = $1", externalID, "find user by external id")
}

// FindByEmail returns a user by case-insensitive email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER($1)", strings.TrimSpace(email), "find user by email")
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg interface{}, op string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s LIMIT 1", userColumns, where)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// FindByIDs returns the users that exist among ids.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ANY($1) AND active = TRUE", userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find users by ids: %w", err)
	}
	return users, nil
}

// ListByRole returns active users holding role.
func (r *UserRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE role = $1 AND active = TRUE ORDER BY full_name", userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, role); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	const query = `INSERT INTO users (id, external_id, email, full_name, role, student_id, nidn, phone, password_hash, active, created_at, updated_at)
VALUES (:id, :external_id, :email, :full_name, :role, :student_id, :nidn, :phone, :password_hash, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// LinkExternalID binds an external identity to an existing user.
func (r *UserRepository) LinkExternalID(ctx context.Context, id, externalID string) error {
	const query = `UPDATE users SET external_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, externalID, time.Now().UTC()); err != nil {
		return fmt.Errorf("link external id: %w", err)
	}
	return nil
}

// PromoteFromPending upgrades a pending user to role and fills the student id
// when missing. It returns false when the user was not pending.
func (r *UserRepository) PromoteFromPending(ctx context.Context, id string, role models.UserRole, studentID *string) (bool, error) {
	const query = `UPDATE users SET role = $2, student_id = COALESCE(student_id, $3), updated_at = $4
WHERE id = $1 AND role = 'pending'`
	result, err := r.db.ExecContext(ctx, query, id, role, studentID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("promote user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check promote rows: %w", err)
	}
	return rows > 0, nil
}

// UpdateRole sets the role explicitly. Used by operator tooling.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	const query = `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, role, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
