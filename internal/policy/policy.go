// Package policy decides who may assign work to whom and which roles may use
// the privileged task operations.
package policy

import (
	"slices"

	"workorder/internal/apperr"
	"workorder/internal/model"
)

// CanAssign reports whether a user with actorRole may make targetRole the
// assignee of a task. isSelf is true when actor and target are the same user.
func CanAssign(actorRole, targetRole model.Role, isSelf bool) bool {
	switch actorRole {
	case model.RoleAdmin, model.RoleSupervisor, model.RolePlanner:
		return true
	case model.RoleTechnician:
		return isSelf
	case model.RoleEHS, model.RoleSecurity:
		return targetRole == model.RolePlanner || targetRole == model.RoleSupervisor
	}
	return false
}

// CanCreateUnassigned reports whether a task created by role may be left
// without a responsible party. Technicians get the task assigned to
// themselves instead.
func CanCreateUnassigned(role model.Role) bool {
	return role != model.RoleTechnician
}

// AuthorizeAssignment returns a Forbidden error when actor may not assign
// work to target. A nil actor is the system and is always allowed.
func AuthorizeAssignment(actor, target *model.User) error {
	if actor == nil {
		return nil
	}
	if CanAssign(actor.Role, target.Role, actor.ID == target.ID) {
		return nil
	}
	switch actor.Role {
	case model.RoleTechnician:
		return apperr.Forbidden("technicians can only assign tasks to themselves")
	case model.RoleEHS, model.RoleSecurity:
		return apperr.Forbidden("%s users can only assign tasks to planners or supervisors", actor.Role)
	}
	return apperr.Forbidden("role %q cannot assign tasks", actor.Role)
}

var managers = []model.Role{model.RoleAdmin, model.RoleSupervisor, model.RolePlanner}

// ManagerRoles returns the roles allowed to archive tasks and read reports.
func ManagerRoles() []model.Role {
	return slices.Clone(managers)
}

func CanArchive(role model.Role) bool {
	return slices.Contains(managers, role)
}
