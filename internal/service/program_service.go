package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type programStore interface {
	Create(ctx context.Context, program *models.Program) error
	GetByID(ctx context.Context, id string) (*models.Program, error)
	List(ctx context.Context, includeArchived bool) ([]models.Program, error)
	Archive(ctx context.Context, id string) error
}

// ProgramService manages internship programs.
type ProgramService struct {
	repo      programStore
	validator *validator.Validate
	notifier
}

// NewProgramService constructs the service.
func NewProgramService(repo programStore, validate *validator.Validate, analytics AnalyticsTracker, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	return &ProgramService{repo: repo, validator: validate, notifier: newNotifier(nil, analytics, logger)}
}

// Create opens a new program. Admin only.
func (s *ProgramService) Create(ctx context.Context, req dto.CreateProgramRequest, caller *models.Caller) (*models.Program, error) {
	if err := Authorize(caller, CapAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid program payload")
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate")
	}
	program := &models.Program{
		Title:       strings.TrimSpace(req.Title),
		Description: stringPtr(strings.TrimSpace(req.Description)),
		StartDate:   start,
		EndDate:     end,
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, appErrors.Unavailable(err, "failed to create program")
	}
	s.track(caller.UserID, EventProgramCreated, map[string]interface{}{"programId": program.ID})
	return program, nil
}

// Get returns a program by id.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "program not found", "load program")
	}
	return program, nil
}

// List returns programs. Archived programs are only listed for admins.
func (s *ProgramService) List(ctx context.Context, includeArchived bool, caller *models.Caller) ([]models.Program, error) {
	if includeArchived && !IsAdmin(caller) {
		includeArchived = false
	}
	programs, err := s.repo.List(ctx, includeArchived)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list programs")
	}
	return programs, nil
}

// Archive closes a program for new registrations and teams. Idempotent.
func (s *ProgramService) Archive(ctx context.Context, id string, caller *models.Caller) (*models.Program, error) {
	if err := Authorize(caller, CapAdmin); err != nil {
		return nil, err
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return nil, storeError(err, "program not found", "archive program")
	}
	s.track(caller.UserID, EventProgramArchived, map[string]interface{}{"programId": id})
	return s.Get(ctx, id)
}

// requireOpenProgram loads the program and rejects archived ones.
func requireOpenProgram(ctx context.Context, programs interface {
	GetByID(ctx context.Context, id string) (*models.Program, error)
}, id string) (*models.Program, error) {
	program, err := programs.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "program not found", "load program")
	}
	if program.Archived {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "program is archived")
	}
	return program, nil
}
