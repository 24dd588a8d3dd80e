package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/models"
)

func TestTeamRepositoryCreateInsertsMembersInTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTeamRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teams")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO team_members")).WithArgs(sqlmock.AnyArg(), "u1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO team_members")).WithArgs(sqlmock.AnyArg(), "u2", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	team := &models.Team{ProgramID: "prog-1", Name: "Desa Maju", LeaderID: "u1"}
	require.NoError(t, repo.Create(context.Background(), team, []string{"u1", "u2"}))
	require.NotEmpty(t, team.ID)
	require.Equal(t, models.FinalReportDraft, team.FinalReportStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryCreateRollsBackOnMemberFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTeamRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teams")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO team_members")).WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Team{ProgramID: "prog-1", LeaderID: "u1"}, []string{"u1"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryAddMemberIsIdempotent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTeamRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (team_id, user_id) DO NOTHING")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (team_id, user_id) DO NOTHING")).WillReturnResult(sqlmock.NewResult(0, 0))

	added, err := repo.AddMember(context.Background(), "team-1", "u9")
	require.NoError(t, err)
	require.True(t, added)
	added, err = repo.AddMember(context.Background(), "team-1", "u9")
	require.NoError(t, err)
	require.False(t, added)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryListScopedToUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTeamRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "program_id", "name", "leader_id", "supervisor_id", "progress", "final_report_status",
		"final_report_submitted_at", "final_report_reviewed_by", "final_report_notes", "created_at", "updated_at"}).
		AddRow("team-1", "prog-1", "Desa Maju", "u1", "sup-1", 40, "draft", nil, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("t.leader_id = $1 OR t.supervisor_id = $1")).
		WithArgs("sup-1").
		WillReturnRows(rows)

	teams, err := repo.List(context.Background(), models.TeamFilter{UserID: "sup-1"})
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.True(t, teams[0].HasSupervisor("sup-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryTransitionFinalReport(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTeamRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("final_report_status IN ('draft', 'revision_requested')")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.TransitionFinalReport(context.Background(), FinalReportTransition{
		TeamID: "team-1",
		From:   []models.FinalReportStatus{models.FinalReportDraft, models.FinalReportRevisionRequested},
		To:     models.FinalReportSubmitted,
		At:     time.Now(),
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
