// Command admin manages operator accounts and the schema of the internship API.
//
//	admin adduser -email ops@example.com -name "Ops" -role admin
//	admin role -email sup@example.com -role supervisor
//	admin list -role supervisor
//	admin token -email ops@example.com
//	admin migrate [up|down|redo|status|version|up-to N|down-to N]
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/repository"
	"github.com/noah-isme/internship-api/internal/service"
	"github.com/noah-isme/internship-api/migrations"
	"github.com/noah-isme/internship-api/pkg/config"
	"github.com/noah-isme/internship-api/pkg/database"
	"github.com/noah-isme/internship-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	cli := newCommandLine(db, cfg, logr)
	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		logr.Fatal("admin command failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

func newCommandLine(db *sqlx.DB, cfg *config.Config, logr *zap.Logger) *commandLine {
	users := repository.NewUserRepository(db)
	auth := service.NewAuthService(users, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	return &commandLine{
		users:  users,
		tokens: auth,
		migrate: func(ctx context.Context, command string, args ...string) error {
			return database.Migrate(ctx, db, migrations.FS, logr, command, args...)
		},
		out: os.Stdout,
	}
}
