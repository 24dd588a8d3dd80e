package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubGoose(t *testing.T, err error) *[]string {
	var calls []string
	prev := gooseRun
	gooseRun = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
		calls = append(calls, command)
		calls = append(calls, args...)
		assert.Equal(t, ".", dir)
		return err
	}
	t.Cleanup(func() { gooseRun = prev })
	return &calls
}

func mockDB(t *testing.T) *sqlx.DB {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock")
}

func TestMigrateDefaultsToUp(t *testing.T) {
	calls := stubGoose(t, nil)
	files := fstest.MapFS{"0001_init.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")}}

	require.NoError(t, Migrate(context.Background(), mockDB(t), files, nil, ""))
	assert.Equal(t, []string{"up"}, *calls)
}

func TestMigratePassesArgsAndWrapsErrors(t *testing.T) {
	calls := stubGoose(t, errors.New("no migration 9"))

	err := Migrate(context.Background(), mockDB(t), fstest.MapFS{}, nil, "up-to", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate up-to")
	assert.Equal(t, []string{"up-to", "9"}, *calls)
}
