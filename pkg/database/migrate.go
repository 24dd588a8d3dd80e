package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

var gooseRun = goose.RunContext // mockable

// Migrate runs a goose command (up, down, redo, status, version, up-to,
// down-to) against the *.sql files at the root of files.
func Migrate(ctx context.Context, db *sqlx.DB, files fs.FS, logger *zap.Logger, command string, args ...string) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if command == "" {
		command = "up"
	}
	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := gooseRun(ctx, command, db.DB, ".", args...); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}

type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) { l.s.Infof(format, v...) }

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.s.Fatalf(format, v...) }
