package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workProgramRowColumns = []string{"id", "team_id", "title", "description", "member_ids", "progress", "created_by", "created_at", "updated_at"}

func TestRoundPercentage(t *testing.T) {
	assert.Equal(t, 0, RoundPercentage(0, 0))
	assert.Equal(t, 33, RoundPercentage(1, 3))
	assert.Equal(t, 67, RoundPercentage(2, 3))
	assert.Equal(t, 100, RoundPercentage(3, 3))
	assert.Equal(t, 13, RoundPercentage(1, 8))
	assert.Equal(t, 50, RoundPercentage(1, 2))
}

func TestWorkProgramRepositoryRecompute(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewWorkProgramRepository(db)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM work_programs WHERE id = $1 FOR UPDATE")).
		WithArgs("wp-1").
		WillReturnRows(sqlmock.NewRows(workProgramRowColumns).
			AddRow("wp-1", "team-1", "Posyandu", nil, "{m1,m2}", 0, "u1", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE completed)")).
		WithArgs("wp-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "completed"}).AddRow(3, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE work_programs SET progress = $2")).
		WithArgs("wp-1", 33, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO work_program_progress")).
		WithArgs(sqlmock.AnyArg(), "wp-1", "m1", 33, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO work_program_progress")).
		WithArgs(sqlmock.AnyArg(), "wp-1", "m2", 33, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	wp, err := repo.Recompute(context.Background(), "wp-1")
	require.NoError(t, err)
	require.Equal(t, 33, wp.Progress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkProgramRepositoryRecomputeSkipsEmptyProgram(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewWorkProgramRepository(db)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(workProgramRowColumns).
			AddRow("wp-1", "team-1", "Posyandu", nil, "{m1}", 40, "u1", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "completed"}).AddRow(0, 0))
	mock.ExpectCommit()

	wp, err := repo.Recompute(context.Background(), "wp-1")
	require.NoError(t, err)
	require.Equal(t, 40, wp.Progress)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkProgramRepositoryRecomputeRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewWorkProgramRepository(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	_, err := repo.Recompute(context.Background(), "wp-1")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
