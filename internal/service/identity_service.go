package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/repository"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type identityStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	LinkExternalID(ctx context.Context, id, externalID string) error
}

// IdentityService resolves verified token claims into the caller identity.
type IdentityService struct {
	users  identityStore
	logger *zap.Logger
}

// NewIdentityService constructs the resolver.
func NewIdentityService(users identityStore, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{users: users, logger: logger}
}

// ResolveCaller finds the user by external identity, then by email, and
// provisions a pending user when neither exists. A user found by email gets
// the subject linked only while its external id is empty or synthetic.
func (s *IdentityService) ResolveCaller(ctx context.Context, claims *models.JWTClaims) (*models.Caller, error) {
	if claims == nil || claims.Subject == "" {
		return nil, appErrors.ErrUnauthenticated
	}

	user, err := s.users.FindByExternalID(ctx, claims.Subject)
	if err == nil {
		return s.active(user)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Unavailable(err, "failed to resolve caller")
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "token carries no email claim")
	}
	user, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !linkable(user.ExternalID) {
			s.logger.Warn("external identity not linked, user already bound to another subject",
				zap.String("user_id", user.ID), zap.String("external_id", claims.Subject))
			return s.active(user)
		}
		if linkErr := s.users.LinkExternalID(ctx, user.ID, claims.Subject); linkErr != nil {
			return nil, appErrors.Unavailable(linkErr, "failed to link external identity")
		}
		user.ExternalID = claims.Subject
		return s.active(user)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Unavailable(err, "failed to resolve caller")
	}

	fullName := strings.TrimSpace(claims.Name)
	if fullName == "" {
		fullName = email
	}
	user = &models.User{
		ExternalID: claims.Subject,
		Email:      email,
		FullName:   fullName,
		Role:       models.RolePending,
		Active:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			// lost a race with a concurrent first request of the same identity
			if existing, findErr := s.users.FindByExternalID(ctx, claims.Subject); findErr == nil {
				return s.active(existing)
			}
		}
		return nil, appErrors.Unavailable(err, "failed to provision user")
	}
	s.logger.Info("provisioned pending user", zap.String("user_id", user.ID), zap.String("external_id", claims.Subject))
	return models.CallerFromUser(user), nil
}

// syntheticExternalPrefix marks ids minted for users created by registration
// approval, which are replaced by the first real identity provider subject.
const syntheticExternalPrefix = "registration:"

func linkable(externalID string) bool {
	return externalID == "" || strings.HasPrefix(externalID, syntheticExternalPrefix)
}

func (s *IdentityService) active(user *models.User) (*models.Caller, error) {
	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account is inactive")
	}
	return models.CallerFromUser(user), nil
}
