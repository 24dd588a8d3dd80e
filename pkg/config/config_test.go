package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 7, cfg.Workflow.MinTeamSize)
	assert.Equal(t, 3, cfg.Workflow.RecomputeRetries)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxFileSizeBytes)
	assert.Equal(t, 2, cfg.Events.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Events.DrainTimeout)
	assert.Equal(t, 10*time.Minute, cfg.CORS.MaxAge)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("WORKFLOW_MIN_TEAM_SIZE", "5")
	t.Setenv("JWT_EXPIRATION", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DATABASE_URL", "postgres://app@db/internship")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workflow.MinTeamSize)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "postgres://app@db/internship", cfg.Database.URL)
	assert.True(t, cfg.Database.AutoMigrate)
}
