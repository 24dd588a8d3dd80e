package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

// DefaultMinTeamSize is the minimum number of distinct members at creation.
const DefaultMinTeamSize = 7

type teamStore interface {
	teamReader
	Create(ctx context.Context, team *models.Team, memberIDs []string) error
	List(ctx context.Context, filter models.TeamFilter) ([]models.Team, error)
	AddMember(ctx context.Context, teamID, userID string) (bool, error)
	RemoveMember(ctx context.Context, teamID, userID string) (bool, error)
	UpdateSupervisor(ctx context.Context, teamID, supervisorID string) error
	UpdateProgress(ctx context.Context, teamID string, progress int) error
	ListDocuments(ctx context.Context, teamID string) ([]models.TeamDocument, error)
}

type teamUserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type activityLister interface {
	ListByTeam(ctx context.Context, teamID string, limit int) ([]models.Activity, error)
}

// TeamServiceConfig tunes team composition rules.
type TeamServiceConfig struct {
	MinTeamSize int
}

// TeamService enforces team composition rules.
type TeamService struct {
	repo       teamStore
	users      teamUserStore
	programs   programReader
	activities activityLister
	validator  *validator.Validate
	config     TeamServiceConfig
	notifier
}

// NewTeamService constructs the service.
func NewTeamService(repo teamStore, users teamUserStore, programs programReader, activities activityLister, validate *validator.Validate, events EventPublisher, analytics AnalyticsTracker, logger *zap.Logger, cfg TeamServiceConfig) *TeamService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if cfg.MinTeamSize <= 0 {
		cfg.MinTeamSize = DefaultMinTeamSize
	}
	return &TeamService{
		repo:       repo,
		users:      users,
		programs:   programs,
		activities: activities,
		validator:  validate,
		config:     cfg,
		notifier:   newNotifier(events, analytics, logger),
	}
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Create composes a team. Admin only.
func (s *TeamService) Create(ctx context.Context, req dto.CreateTeamRequest, caller *models.Caller) (*models.TeamWithMembers, error) {
	if err := Authorize(caller, CapAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid team payload")
	}
	requested := distinct(req.MemberIDs)
	if len(requested) < s.config.MinTeamSize {
		return nil, appErrors.Clone(appErrors.ErrConstraintViolation, "a team needs at least the minimum number of distinct members")
	}
	if _, err := requireOpenProgram(ctx, s.programs, req.ProgramID); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, req.LeaderID); err != nil {
		return nil, storeError(err, "leader not found", "load leader")
	}
	var supervisorID *string
	if id := strings.TrimSpace(req.SupervisorID); id != "" {
		if err := s.requireSupervisorRole(ctx, id); err != nil {
			return nil, err
		}
		supervisorID = &id
	}

	resolved, err := s.users.FindByIDs(ctx, requested)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to resolve team members")
	}
	memberIDs := make([]string, 0, len(resolved)+1)
	for _, u := range resolved {
		memberIDs = append(memberIDs, u.ID)
	}
	if dropped := len(requested) - len(resolved); dropped > 0 {
		s.logger.Info("dropped unresolved team members", zap.String("program_id", req.ProgramID), zap.Int("dropped", dropped))
	}
	memberIDs = distinct(append(memberIDs, req.LeaderID))

	team := &models.Team{
		ProgramID:    req.ProgramID,
		Name:         strings.TrimSpace(req.Name),
		LeaderID:     req.LeaderID,
		SupervisorID: supervisorID,
	}
	if err := s.repo.Create(ctx, team, memberIDs); err != nil {
		return nil, appErrors.Unavailable(err, "failed to create team")
	}

	result, err := s.LoadTeamWithMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, TopicTeamUpdated, result)
	s.track(caller.UserID, EventTeamCreated, map[string]interface{}{"teamId": team.ID, "members": len(memberIDs)})
	return result, nil
}

func (s *TeamService) requireSupervisorRole(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return storeError(err, "supervisor not found", "load supervisor")
	}
	if user.Role != models.RoleSupervisor && user.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrConstraintViolation, "supervisor must hold the supervisor or admin role")
	}
	return nil
}

// LoadTeamWithMembers returns the explicit team aggregate with documents.
func (s *TeamService) LoadTeamWithMembers(ctx context.Context, teamID string) (*models.TeamWithMembers, error) {
	team, err := loadTeamWithMembers(ctx, s.repo, teamID)
	if err != nil {
		return nil, err
	}
	docs, err := s.repo.ListDocuments(ctx, teamID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load team documents")
	}
	team.Documents = docs
	return team, nil
}

// Get returns a team the caller may access.
func (s *TeamService) Get(ctx context.Context, teamID string, caller *models.Caller) (*models.TeamWithMembers, error) {
	team, err := s.LoadTeamWithMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	return team, nil
}

// ListForCaller returns every team for admins, otherwise the teams the caller
// leads, supervises or belongs to.
func (s *TeamService) ListForCaller(ctx context.Context, programID string, caller *models.Caller) ([]models.Team, error) {
	if err := Authorize(caller, CapMember); err != nil {
		return nil, err
	}
	filter := models.TeamFilter{ProgramID: programID}
	if !IsAdmin(caller) {
		filter.UserID = caller.UserID
	}
	teams, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list teams")
	}
	return teams, nil
}

// AddMember adds a user to the team. Adding an existing member is a no-op.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID string, caller *models.Caller) (*models.TeamWithMembers, error) {
	team, err := loadTeamWithMembers(ctx, s.repo, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamLeaderOrAdmin(caller, &team.Team); err != nil {
		return nil, err
	}
	if team.IsMember(userID) {
		return s.LoadTeamWithMembers(ctx, teamID)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, storeError(err, "user not found", "load user")
	}
	added, err := s.repo.AddMember(ctx, teamID, userID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to add team member")
	}
	result, err := s.LoadTeamWithMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if added {
		s.publish(ctx, TopicTeamUpdated, result)
		s.track(caller.UserID, EventTeamMemberAdded, map[string]interface{}{"teamId": teamID, "userId": userID})
	}
	return result, nil
}

// RemoveMember removes a user from the team. Removing a non-member is a no-op;
// the leader cannot be removed.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID string, caller *models.Caller) (*models.TeamWithMembers, error) {
	team, err := loadTeamWithMembers(ctx, s.repo, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamLeaderOrAdmin(caller, &team.Team); err != nil {
		return nil, err
	}
	if team.LeaderID == userID {
		return nil, appErrors.Clone(appErrors.ErrConstraintViolation, "the team leader cannot be removed")
	}
	removed, err := s.repo.RemoveMember(ctx, teamID, userID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to remove team member")
	}
	result, err := s.LoadTeamWithMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if removed {
		s.publish(ctx, TopicTeamUpdated, result)
		s.track(caller.UserID, EventTeamMemberRemoved, map[string]interface{}{"teamId": teamID, "userId": userID})
	}
	return result, nil
}

// AssignSupervisor sets the team supervisor. Admin only.
func (s *TeamService) AssignSupervisor(ctx context.Context, teamID, supervisorID string, caller *models.Caller) (*models.TeamWithMembers, error) {
	if err := Authorize(caller, CapAdmin); err != nil {
		return nil, err
	}
	if err := s.requireSupervisorRole(ctx, supervisorID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSupervisor(ctx, teamID, supervisorID); err != nil {
		return nil, storeError(err, "team not found", "assign supervisor")
	}
	result, err := s.LoadTeamWithMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, TopicTeamUpdated, result)
	s.track(caller.UserID, EventTeamSupervisorAssigned, map[string]interface{}{"teamId": teamID, "supervisorId": supervisorID})
	return result, nil
}

// UpdateProgress sets the team progress. Team supervisor or admin.
func (s *TeamService) UpdateProgress(ctx context.Context, teamID string, progress int, caller *models.Caller) (*models.TeamWithMembers, error) {
	team, err := loadTeamWithMembers(ctx, s.repo, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamSupervisorOrAdmin(caller, &team.Team); err != nil {
		return nil, err
	}
	if progress < 0 || progress > 100 {
		return nil, appErrors.Clone(appErrors.ErrConstraintViolation, "progress must be between 0 and 100")
	}
	if err := s.repo.UpdateProgress(ctx, teamID, progress); err != nil {
		return nil, storeError(err, "team not found", "update team progress")
	}
	result, err := s.LoadTeamWithMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, TopicTeamUpdated, result)
	s.track(caller.UserID, EventTeamProgressUpdated, map[string]interface{}{"teamId": teamID, "progress": progress})
	return result, nil
}

// ListActivity returns recent workflow activity of a team.
func (s *TeamService) ListActivity(ctx context.Context, teamID string, limit int, caller *models.Caller) ([]models.Activity, error) {
	team, err := loadTeamWithMembers(ctx, s.repo, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	list, err := s.activities.ListByTeam(ctx, teamID, limit)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list team activity")
	}
	return list, nil
}
