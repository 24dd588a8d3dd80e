package service

import (
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

// Capability is the set of roles allowed to perform an operation.
type Capability []models.UserRole

// Capability sets shared by the workflows.
var (
	CapAdmin    = Capability{models.RoleAdmin}
	CapReviewer = Capability{models.RoleSupervisor, models.RoleAdmin}
	CapStudent  = Capability{models.RoleStudent, models.RoleAdmin}
	CapMember   = Capability{models.RoleStudent, models.RoleSupervisor, models.RoleAdmin}
)

// Allows reports whether role belongs to the capability.
func (c Capability) Allows(role models.UserRole) bool {
	for _, r := range c {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize fails with UNAUTHENTICATED when no caller was resolved and with
// INSUFFICIENT_ROLE when the caller's role is outside the capability.
func Authorize(caller *models.Caller, capability Capability) error {
	if caller == nil || caller.UserID == "" {
		return appErrors.ErrUnauthenticated
	}
	if !capability.Allows(caller.Role) {
		return appErrors.Clone(appErrors.ErrInsufficientRole, "role "+string(caller.Role)+" is not allowed to perform this operation")
	}
	return nil
}

// IsAdmin reports whether the caller is an administrator.
func IsAdmin(caller *models.Caller) bool {
	return caller != nil && caller.Role == models.RoleAdmin
}

// IsTeamLeader reports whether the caller leads the team.
func IsTeamLeader(caller *models.Caller, team *models.Team) bool {
	return caller != nil && team != nil && team.LeaderID == caller.UserID
}

// IsTeamSupervisor reports whether the caller supervises the team.
func IsTeamSupervisor(caller *models.Caller, team *models.Team) bool {
	return caller != nil && team != nil && team.HasSupervisor(caller.UserID)
}

// IsTeamMember reports whether the caller is a member or the leader of the team.
func IsTeamMember(caller *models.Caller, team *models.TeamWithMembers) bool {
	return caller != nil && team != nil && team.IsMember(caller.UserID)
}

// RequireTeamLeaderOrAdmin gates leader-owned operations.
func RequireTeamLeaderOrAdmin(caller *models.Caller, team *models.Team) error {
	if err := Authorize(caller, CapMember); err != nil {
		return err
	}
	if IsAdmin(caller) || IsTeamLeader(caller, team) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "only the team leader or an admin may perform this operation")
}

// RequireTeamSupervisorOrAdmin gates review operations. A non-reviewer role
// fails with INSUFFICIENT_ROLE, a supervisor of another team with FORBIDDEN.
func RequireTeamSupervisorOrAdmin(caller *models.Caller, team *models.Team) error {
	if err := Authorize(caller, CapReviewer); err != nil {
		return err
	}
	if IsAdmin(caller) || IsTeamSupervisor(caller, team) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "only the team supervisor or an admin may perform this operation")
}

// RequireTeamMember gates operations performed by members on their own team.
func RequireTeamMember(caller *models.Caller, team *models.TeamWithMembers) error {
	if err := Authorize(caller, CapMember); err != nil {
		return err
	}
	if IsTeamMember(caller, team) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "caller is not a member of this team")
}

// RequireTeamAccess allows members, the leader, the supervisor and admins.
func RequireTeamAccess(caller *models.Caller, team *models.TeamWithMembers) error {
	if err := Authorize(caller, CapMember); err != nil {
		return err
	}
	if IsAdmin(caller) || IsTeamMember(caller, team) || IsTeamSupervisor(caller, &team.Team) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "caller has no access to this team")
}
