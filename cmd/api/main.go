package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/internship-api/api/swagger"
	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/handler"
	internalmiddleware "github.com/noah-isme/internship-api/internal/middleware"
	"github.com/noah-isme/internship-api/internal/repository"
	"github.com/noah-isme/internship-api/internal/service"
	"github.com/noah-isme/internship-api/migrations"
	"github.com/noah-isme/internship-api/pkg/broker"
	"github.com/noah-isme/internship-api/pkg/config"
	"github.com/noah-isme/internship-api/pkg/database"
	"github.com/noah-isme/internship-api/pkg/jobs"
	"github.com/noah-isme/internship-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/internship-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/internship-api/pkg/middleware/requestid"
	"github.com/noah-isme/internship-api/pkg/storage"
)

// @title Internship Program API
// @version 1.0.0
// @description Registration, team, task, weekly report, attendance and final report workflows of an internship program.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, migrations.FS, logr, "up"); err != nil {
			logr.Sugar().Fatalw("failed to migrate database", "error", err)
		}
	}

	events, shutdownEvents := newEventPublisher(ctx, cfg, logr)
	defer shutdownEvents()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := newRouter(cfg, db, events, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to build router", "error", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	logr.Sugar().Infow("server stopped")
}

// newEventPublisher returns the Redis publisher behind an async queue when
// events are enabled, otherwise a no-op publisher.
func newEventPublisher(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.EventPublisher, func()) {
	if !cfg.Events.Enabled {
		return service.NopPublisher{}, func() {}
	}
	client, err := broker.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, events disabled", "error", err)
		return service.NopPublisher{}, func() {}
	}
	async := service.NewAsyncPublisher(broker.NewRedisPublisher(client, cfg.Events.ChannelPrefix), jobs.QueueConfig{
		Workers:      cfg.Events.Workers,
		BufferSize:   cfg.Events.BufferSize,
		MaxRetries:   cfg.Events.MaxRetries,
		DrainTimeout: cfg.Events.DrainTimeout,
		Logger:       logr,
	})
	// Detached from the signal context so Stop can drain the backlog.
	async.Start(context.Background())
	return async, func() {
		async.Stop()
		_ = client.Close()
	}
}

func newRouter(cfg *config.Config, db *sqlx.DB, events service.EventPublisher, logr *zap.Logger) (*gin.Engine, error) {
	files, err := storage.NewLocalStorage(cfg.Storage.Dir, cfg.Storage.MaxFileSizeBytes)
	if err != nil {
		return nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL, cfg.Storage.PublicBaseURL+cfg.APIPrefix+"/files")

	validate := dto.NewValidator()
	metrics := service.NewMetricsService()
	analytics := service.NewMetricsAnalytics(metrics, logr)

	users := repository.NewUserRepository(db)
	programs := repository.NewProgramRepository(db)
	registrations := repository.NewRegistrationRepository(db)
	teams := repository.NewTeamRepository(db)
	tasks := repository.NewTaskRepository(db)
	workPrograms := repository.NewWorkProgramRepository(db)
	activities := repository.NewActivityRepository(db)
	reports := repository.NewWeeklyReportRepository(db)
	attendance := repository.NewAttendanceRepository(db)
	approvals := repository.NewWeeklyAttendanceApprovalRepository(db)

	authSvc := service.NewAuthService(users, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	identitySvc := service.NewIdentityService(users, logr)
	programSvc := service.NewProgramService(programs, validate, analytics, logr)
	registrationSvc := service.NewRegistrationService(registrations, users, programs, validate, analytics, logr)
	teamSvc := service.NewTeamService(teams, users, programs, activities, validate, events, analytics, logr, service.TeamServiceConfig{
		MinTeamSize: cfg.Workflow.MinTeamSize,
	})
	taskSvc := service.NewTaskService(service.TaskServiceDeps{
		Tasks:        tasks,
		WorkPrograms: workPrograms,
		Teams:        teams,
		Activities:   activities,
		Files:        files,
		Signer:       signer,
		Metrics:      metrics,
		Validator:    validate,
		Events:       events,
		Analytics:    analytics,
		Logger:       logr,
	}, service.TaskServiceConfig{RecomputeRetries: cfg.Workflow.RecomputeRetries})
	reportSvc := service.NewWeeklyReportService(reports, teams, tasks, validate, events, analytics, logr)
	exportSvc := service.NewExportService(logr, nil, nil)
	attendanceSvc := service.NewAttendanceService(attendance, approvals, teams, files, exportSvc, validate, events, analytics, logr)
	finalReportSvc := service.NewFinalReportService(teams, files, signer, validate, events, analytics, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	programHandler := handler.NewProgramHandler(programSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	teamHandler := handler.NewTeamHandler(teamSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	reportHandler := handler.NewWeeklyReportHandler(reportSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	finalReportHandler := handler.NewFinalReportHandler(finalReportSvc)
	fileHandler := handler.NewFileHandler(signer, files, logr)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/registrations", registrationHandler.Submit)
	api.GET("/files/:token", fileHandler.Download)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc, identitySvc))
	secured.GET("/me", authHandler.Me)

	admin := internalmiddleware.RequireRoles(service.CapAdmin...)
	member := internalmiddleware.RequireRoles(service.CapMember...)

	secured.GET("/admin/metrics", admin, metricsHandler.Summary)

	secured.POST("/programs", admin, programHandler.Create)
	secured.GET("/programs", member, programHandler.List)
	secured.GET("/programs/:id", member, programHandler.Get)
	secured.POST("/programs/:id/archive", admin, programHandler.Archive)

	secured.GET("/registrations", admin, registrationHandler.List)
	secured.GET("/registrations/:id", admin, registrationHandler.Get)
	secured.POST("/registrations/:id/approve", admin, registrationHandler.Approve)
	secured.POST("/registrations/:id/reject", admin, registrationHandler.Reject)

	teamsGroup := secured.Group("/teams", member)
	teamsGroup.POST("", admin, teamHandler.Create)
	teamsGroup.GET("", teamHandler.List)
	teamsGroup.GET("/:id", teamHandler.Get)
	teamsGroup.GET("/:id/activity", teamHandler.Activity)
	teamsGroup.POST("/:id/members", teamHandler.AddMember)
	teamsGroup.DELETE("/:id/members/:userId", teamHandler.RemoveMember)
	teamsGroup.PUT("/:id/supervisor", admin, teamHandler.AssignSupervisor)
	teamsGroup.PUT("/:id/progress", internalmiddleware.RequireRoles(service.CapReviewer...), teamHandler.UpdateProgress)

	teamsGroup.POST("/:id/work-programs", taskHandler.CreateWorkProgram)
	teamsGroup.GET("/:id/work-programs", taskHandler.ListWorkPrograms)
	teamsGroup.POST("/:id/tasks", taskHandler.CreateTask)
	teamsGroup.GET("/:id/tasks", taskHandler.ListTasks)

	teamsGroup.POST("/:id/weekly-reports", reportHandler.Submit)
	teamsGroup.POST("/:id/weekly-reports/draft", reportHandler.SaveDraft)
	teamsGroup.GET("/:id/weekly-reports", reportHandler.List)

	teamsGroup.POST("/:id/attendance", attendanceHandler.CheckIn)
	teamsGroup.GET("/:id/attendance/weekly", attendanceHandler.WeeklySummary)
	teamsGroup.GET("/:id/attendance/weekly/export", attendanceHandler.Export)
	teamsGroup.PUT("/:id/attendance/approvals", attendanceHandler.Approve)
	teamsGroup.GET("/:id/attendance/approvals", attendanceHandler.ListApprovals)

	teamsGroup.POST("/:id/documents", finalReportHandler.UploadDocument)
	teamsGroup.GET("/:id/documents", finalReportHandler.ListDocuments)
	teamsGroup.POST("/:id/final-report/submit", finalReportHandler.Submit)
	teamsGroup.POST("/:id/final-report/review", finalReportHandler.Review)

	secured.GET("/work-programs/:id", member, taskHandler.GetWorkProgram)
	secured.GET("/tasks/:id", member, taskHandler.GetTask)
	secured.PATCH("/tasks/:id", member, taskHandler.UpdateTask)
	secured.DELETE("/tasks/:id", member, taskHandler.DeleteTask)
	secured.POST("/tasks/:id/updates", member, taskHandler.AddUpdate)

	secured.GET("/weekly-reports/:id", member, reportHandler.Get)
	secured.POST("/weekly-reports/:id/approve", member, reportHandler.Approve)
	secured.POST("/weekly-reports/:id/reject", member, reportHandler.Reject)
	secured.POST("/weekly-reports/:id/comments", member, reportHandler.AddComment)

	return r, nil
}
