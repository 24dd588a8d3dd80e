package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-api/internal/models"
)

// ActivityRepository records workflow activity entries.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create inserts an activity entry.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}
	if len(activity.Metadata) == 0 {
		activity.Metadata = []byte("{}")
	}
	const query = `INSERT INTO activities (id, actor_id, action, target_type, target_id, team_id, metadata, created_at)
VALUES (:id, :actor_id, :action, :target_type, :target_id, :team_id, :metadata, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, activity); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// ListByTeam returns the latest activity of a team.
func (r *ActivityRepository) ListByTeam(ctx context.Context, teamID string, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const query = `SELECT id, actor_id, action, target_type, target_id, team_id, metadata, created_at
FROM activities WHERE team_id = $1 ORDER BY created_at DESC LIMIT $2`
	var list []models.Activity
	if err := r.db.SelectContext(ctx, &list, query, teamID, limit); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return list, nil
}
