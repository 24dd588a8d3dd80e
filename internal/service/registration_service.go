package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/repository"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type registrationStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.Registration, error)
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error)
	Review(ctx context.Context, params repository.ReviewParams) error
	LinkUser(ctx context.Context, id, userID string) error
}

type registrationUserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	PromoteFromPending(ctx context.Context, id string, role models.UserRole, studentID *string) (bool, error)
}

type programReader interface {
	GetByID(ctx context.Context, id string) (*models.Program, error)
}

// RegistrationService runs the pending → approved|rejected registration workflow.
type RegistrationService struct {
	repo      registrationStore
	users     registrationUserStore
	programs  programReader
	validator *validator.Validate
	notifier
}

// NewRegistrationService constructs the service.
func NewRegistrationService(repo registrationStore, users registrationUserStore, programs programReader, validate *validator.Validate, analytics AnalyticsTracker, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	return &RegistrationService{
		repo:      repo,
		users:     users,
		programs:  programs,
		validator: validate,
		notifier:  newNotifier(nil, analytics, logger),
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Submit records a self-service registration. At most one pending or approved
// registration may exist per normalized email.
func (s *RegistrationService) Submit(ctx context.Context, req dto.SubmitRegistrationRequest) (*models.Registration, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid registration payload")
	}
	if _, err := requireOpenProgram(ctx, s.programs, req.ProgramID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindActiveByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.ErrDuplicateActive
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Unavailable(err, "failed to check existing registrations")
	}

	reg := &models.Registration{
		ProgramID: req.ProgramID,
		FullName:  strings.TrimSpace(req.FullName),
		StudentID: strings.TrimSpace(req.StudentID),
		Email:     req.Email,
		Phone:     stringPtr(strings.TrimSpace(req.Phone)),
		Status:    models.RegistrationPending,
	}
	if err := s.repo.Create(ctx, reg); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.ErrDuplicateActive
		}
		return nil, appErrors.Unavailable(err, "failed to create registration")
	}
	s.track("", EventRegistrationSubmitted, map[string]interface{}{"registrationId": reg.ID, "programId": reg.ProgramID})
	return reg, nil
}

// Get returns a registration. Admin only.
func (s *RegistrationService) Get(ctx context.Context, id string, caller *models.Caller) (*models.Registration, error) {
	if err := Authorize(caller, CapAdmin); err != nil {
		return nil, err
	}
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "registration not found", "load registration")
	}
	return reg, nil
}

// List returns registrations matching the filter. Admin only.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter, caller *models.Caller) ([]models.Registration, error) {
	if err := Authorize(caller, CapAdmin); err != nil {
		return nil, err
	}
	regs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list registrations")
	}
	return regs, nil
}

// Approve accepts a pending registration and provisions or promotes the student account.
// The status flip commits before the account step; when that step fails the
// registration stays approved without a user, and approving it again finishes
// the provisioning instead of failing with INVALID_TRANSITION.
func (s *RegistrationService) Approve(ctx context.Context, id string, caller *models.Caller) (*models.Registration, error) {
	if err := Authorize(caller, CapAdmin); err != nil {
		return nil, err
	}
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "registration not found", "load registration")
	}
	if reg.Status != models.RegistrationApproved || reg.UserID != nil {
		if reg, err = s.review(ctx, reg, models.RegistrationApproved, nil, caller); err != nil {
			return nil, err
		}
	} else {
		s.logger.Info("resuming account provisioning for approved registration", zap.String("registration_id", reg.ID))
	}

	user, err := s.resolveStudent(ctx, reg)
	if err != nil {
		s.logger.Error("registration approved without student account", zap.String("registration_id", reg.ID), zap.Error(err))
		return nil, err
	}
	if reg.UserID == nil {
		if err := s.repo.LinkUser(ctx, reg.ID, user.ID); err != nil {
			s.logger.Error("registration approved without linked user", zap.String("registration_id", reg.ID), zap.String("user_id", user.ID), zap.Error(err))
			return nil, appErrors.Unavailable(err, "failed to link registration user")
		}
		reg.UserID = &user.ID
	}

	s.track(caller.UserID, EventRegistrationApproved, map[string]interface{}{"registrationId": reg.ID, "userId": user.ID})
	return reg, nil
}

// Reject declines a pending registration. No user is touched.
func (s *RegistrationService) Reject(ctx context.Context, id, notes string, caller *models.Caller) (*models.Registration, error) {
	if err := Authorize(caller, CapAdmin); err != nil {
		return nil, err
	}
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "registration not found", "load registration")
	}
	reg, err = s.review(ctx, reg, models.RegistrationRejected, stringPtr(strings.TrimSpace(notes)), caller)
	if err != nil {
		return nil, err
	}
	s.track(caller.UserID, EventRegistrationRejected, map[string]interface{}{"registrationId": reg.ID})
	return reg, nil
}

func (s *RegistrationService) review(ctx context.Context, reg *models.Registration, status models.RegistrationStatus, notes *string, caller *models.Caller) (*models.Registration, error) {
	if reg.Status != models.RegistrationPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "registration is already "+string(reg.Status))
	}

	now := time.Now().UTC()
	err := s.repo.Review(ctx, repository.ReviewParams{
		ID:         reg.ID,
		Status:     status,
		ReviewedBy: caller.UserID,
		ReviewedAt: now,
		Notes:      notes,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "registration is no longer pending")
		}
		return nil, appErrors.Unavailable(err, "failed to review registration")
	}

	reg.Status = status
	reg.ReviewedBy = &caller.UserID
	reg.ReviewedAt = &now
	if notes != nil {
		reg.ReviewNotes = notes
	}
	return reg, nil
}

// resolveStudent promotes an existing pending user or creates a new student.
// Users already holding student, supervisor or admin keep their role.
func (s *RegistrationService) resolveStudent(ctx context.Context, reg *models.Registration) (*models.User, error) {
	studentID := stringPtr(reg.StudentID)
	user, err := s.users.FindByEmail(ctx, reg.Email)
	if err == nil {
		if user.Role == models.RolePending {
			if _, err := s.users.PromoteFromPending(ctx, user.ID, models.RoleStudent, studentID); err != nil {
				return nil, appErrors.Unavailable(err, "failed to promote user")
			}
			user.Role = models.RoleStudent
		}
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Unavailable(err, "failed to resolve registration user")
	}

	user = &models.User{
		ExternalID: syntheticExternalPrefix + uuid.NewString(),
		Email:      reg.Email,
		FullName:   reg.FullName,
		Role:       models.RoleStudent,
		StudentID:  studentID,
		Phone:      reg.Phone,
		Active:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Unavailable(err, "failed to create student account")
	}
	s.logger.Info("created student account from registration", zap.String("registration_id", reg.ID), zap.String("user_id", user.ID))
	return user, nil
}
