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

const teamColumns = `t.id, t.program_id, t.name, t.leader_id, t.supervisor_id, t.progress, t.final_report_status,
t.final_report_submitted_at, t.final_report_reviewed_by, t.final_report_notes, t.created_at, t.updated_at`

// TeamRepository persists teams, their members and documentation.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository constructs the repository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts the team and its member rows atomically.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team, memberIDs []string) (err error) {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.FinalReportStatus == "" {
		team.FinalReportStatus = models.FinalReportDraft
	}
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin team transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertTeam = `INSERT INTO teams (id, program_id, name, leader_id, supervisor_id, progress, final_report_status, created_at, updated_at)
VALUES (:id, :program_id, :name, :leader_id, :supervisor_id, :progress, :final_report_status, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertTeam, team); err != nil {
		return fmt.Errorf("insert team: %w", err)
	}

	const insertMember = `INSERT INTO team_members (team_id, user_id, joined_at) VALUES ($1, $2, $3) ON CONFLICT (team_id, user_id) DO NOTHING`
	for _, userID := range memberIDs {
		if _, err = tx.ExecContext(ctx, insertMember, team.ID, userID, now); err != nil {
			return fmt.Errorf("insert team member: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit team: %w", err)
	}
	return nil
}

// GetByID fetches a team without members.
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM teams t WHERE t.id = $1", teamColumns)
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &team, nil
}

// ListMembers returns member rows joined with user profiles.
func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	const query = `SELECT m.team_id, m.user_id, u.full_name, u.email, u.role, u.student_id, m.joined_at
FROM team_members m JOIN users u ON u.id = m.user_id
WHERE m.team_id = $1 ORDER BY u.full_name`
	var members []models.TeamMember
	if err := r.db.SelectContext(ctx, &members, query, teamID); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
}

// List returns teams matching the filter. With a UserID only teams the user
// leads, supervises or belongs to are returned.
func (r *TeamRepository) List(ctx context.Context, filter models.TeamFilter) ([]models.Team, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(fmt.Sprintf("SELECT %s FROM teams t", teamColumns))

	conditions := make([]string, 0, 2)
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		conditions = append(conditions, fmt.Sprintf("t.program_id = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(t.leader_id = $%d OR t.supervisor_id = $%d OR EXISTS (SELECT 1 FROM team_members m WHERE m.team_id = t.id AND m.user_id = $%d))",
			idx, idx, idx))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY t.created_at DESC")

	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// AddMember inserts a member row. It reports false when the user already belongs to the team.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID string) (bool, error) {
	const query = `INSERT INTO team_members (team_id, user_id, joined_at) VALUES ($1, $2, $3) ON CONFLICT (team_id, user_id) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query, teamID, userID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("add team member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check add member rows: %w", err)
	}
	return rows > 0, nil
}

// RemoveMember deletes a member row. It reports false when nothing was removed.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) (bool, error) {
	const query = `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("remove team member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check remove member rows: %w", err)
	}
	return rows > 0, nil
}

// UpdateSupervisor sets the team supervisor.
func (r *TeamRepository) UpdateSupervisor(ctx context.Context, teamID, supervisorID string) error {
	const query = `UPDATE teams SET supervisor_id = $2, updated_at = $3 WHERE id = $1`
	return r.execOne(ctx, "update team supervisor", query, teamID, supervisorID, time.Now().UTC())
}

// UpdateProgress sets the team progress value.
func (r *TeamRepository) UpdateProgress(ctx context.Context, teamID string, progress int) error {
	const query = `UPDATE teams SET progress = $2, updated_at = $3 WHERE id = $1`
	return r.execOne(ctx, "update team progress", query, teamID, progress, time.Now().UTC())
}

// FinalReportTransition describes a guarded final report status change.
type FinalReportTransition struct {
	TeamID     string
	From       []models.FinalReportStatus
	To         models.FinalReportStatus
	ReviewedBy *string
	Notes      *string
	At         time.Time
}

// TransitionFinalReport moves the final report status when the current status
// is one of From. It returns sql.ErrNoRows otherwise.
func (r *TeamRepository) TransitionFinalReport(ctx context.Context, tr FinalReportTransition) error {
	from := make([]string, len(tr.From))
	for i, s := range tr.From {
		from[i] = fmt.Sprintf("'%s'", s)
	}
	setParts := []string{"final_report_status = $2", "updated_at = $3"}
	args := []interface{}{tr.TeamID, tr.To, tr.At}
	if tr.To == models.FinalReportSubmitted {
		setParts = append(setParts, "final_report_submitted_at = $3")
	}
	if tr.ReviewedBy != nil {
		args = append(args, *tr.ReviewedBy)
		setParts = append(setParts, fmt.Sprintf("final_report_reviewed_by = $%d", len(args)))
	}
	if tr.Notes != nil {
		args = append(args, *tr.Notes)
		setParts = append(setParts, fmt.Sprintf("final_report_notes = $%d", len(args)))
	}
	query := fmt.Sprintf("UPDATE teams SET %s WHERE id = $1 AND final_report_status IN (%s)",
		strings.Join(setParts, ", "), strings.Join(from, ", "))
	return r.execOne(ctx, "transition final report", query, args...)
}

// AddDocument appends a documentation entry.
func (r *TeamRepository) AddDocument(ctx context.Context, doc *models.TeamDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO team_documents (id, team_id, name, url, kind, uploaded_by, uploaded_at)
VALUES (:id, :team_id, :name, :url, :kind, :uploaded_by, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("add team document: %w", err)
	}
	return nil
}

// ListDocuments returns documentation in upload order.
func (r *TeamRepository) ListDocuments(ctx context.Context, teamID string) ([]models.TeamDocument, error) {
	const query = `SELECT id, team_id, name, url, kind, uploaded_by, uploaded_at FROM team_documents WHERE team_id = $1 ORDER BY uploaded_at, id`
	var docs []models.TeamDocument
	if err := r.db.SelectContext(ctx, &docs, query, teamID); err != nil {
		return nil, fmt.Errorf("list team documents: %w", err)
	}
	return docs, nil
}

func (r *TeamRepository) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s rows: %w", op, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
