package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreAnnotated(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		body, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestInitCarriesNaturalKeys(t *testing.T) {
	body, err := fs.ReadFile(FS, "0001_init.sql")
	require.NoError(t, err)
	schema := string(body)

	for _, key := range []string{
		"UNIQUE (team_id, week)",
		"UNIQUE (team_id, user_id, date)",
		"UNIQUE (team_id, week_start_date, student_id)",
		"UNIQUE (work_program_id, member_id)",
		"PRIMARY KEY (team_id, user_id)",
		"WHERE status IN ('pending', 'approved')",
	} {
		assert.True(t, strings.Contains(schema, key), key)
	}
}

func TestCommentOrderingMigration(t *testing.T) {
	body, err := fs.ReadFile(FS, "0002_comment_order.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "ADD COLUMN IF NOT EXISTS seq BIGSERIAL")
	assert.Contains(t, string(body), "(report_id, seq)")
}
