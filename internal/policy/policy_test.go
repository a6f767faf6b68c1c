package policy_test

import (
	"testing"

	"workorder/internal/apperr"
	"workorder/internal/model"
	"workorder/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanAssign(t *testing.T) {
	allRoles := []model.Role{
		model.RoleAdmin, model.RoleSupervisor, model.RolePlanner,
		model.RoleTechnician, model.RoleEHS, model.RoleSecurity,
	}

	for _, target := range allRoles {
		for _, actor := range []model.Role{model.RoleAdmin, model.RoleSupervisor, model.RolePlanner} {
			assert.True(t, policy.CanAssign(actor, target, false), "%s -> %s", actor, target)
		}

		assert.False(t, policy.CanAssign(model.RoleTechnician, target, false), "technician -> %s", target)
		assert.True(t, policy.CanAssign(model.RoleTechnician, target, true), "technician self")

		want := target == model.RolePlanner || target == model.RoleSupervisor
		assert.Equal(t, want, policy.CanAssign(model.RoleEHS, target, false), "ehs -> %s", target)
		assert.Equal(t, want, policy.CanAssign(model.RoleSecurity, target, false), "security -> %s", target)
	}
}

func TestCanCreateUnassigned(t *testing.T) {
	assert.False(t, policy.CanCreateUnassigned(model.RoleTechnician))
	assert.True(t, policy.CanCreateUnassigned(model.RolePlanner))
	assert.True(t, policy.CanCreateUnassigned(model.RoleEHS))
}

func TestAuthorizeAssignment(t *testing.T) {
	tech := &model.User{ID: uuid.New(), Role: model.RoleTechnician}
	otherTech := &model.User{ID: uuid.New(), Role: model.RoleTechnician}
	ehs := &model.User{ID: uuid.New(), Role: model.RoleEHS}
	planner := &model.User{ID: uuid.New(), Role: model.RolePlanner}

	assert.NoError(t, policy.AuthorizeAssignment(tech, tech))
	assert.NoError(t, policy.AuthorizeAssignment(ehs, planner))
	assert.NoError(t, policy.AuthorizeAssignment(nil, otherTech))

	err := policy.AuthorizeAssignment(tech, otherTech)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	err = policy.AuthorizeAssignment(ehs, tech)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Contains(t, err.Error(), "planners or supervisors")
}

func TestManagerGates(t *testing.T) {
	for _, role := range policy.ManagerRoles() {
		assert.True(t, policy.CanArchive(role))
	}
	assert.False(t, policy.CanArchive(model.RoleTechnician))
	assert.False(t, policy.CanArchive(model.RoleSecurity))
}
