package models

import (
	"encoding/json"
	"time"
)

// Activity actions recorded by the workflow.
const (
	ActivityCompletedTask = "completed_task"
)

// Activity is an audit record of a workflow mutation.
type Activity struct {
	ID         string          `db:"id" json:"id"`
	ActorID    string          `db:"actor_id" json:"actorId"`
	Action     string          `db:"action" json:"action"`
	TargetType string          `db:"target_type" json:"targetType"`
	TargetID   string          `db:"target_id" json:"targetId"`
	TeamID     *string         `db:"team_id" json:"teamId,omitempty"`
	Metadata   json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}
