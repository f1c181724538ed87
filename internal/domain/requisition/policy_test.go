package requisition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/requisition"
)

func actorWith(roles ...string) entity.Actor {
	return entity.Actor{UserID: "u-1", Roles: roles}
}

func TestCheckWrite_PorRol(t *testing.T) {
	cases := []struct {
		name  string
		role  string
		ok    entity.State
		block entity.State
	}{
		{"staff", requisition.RoleStaff, entity.StateDraft, entity.StateSubmitted},
		{"reviewer", requisition.RoleReviewer, entity.StateSubmitted, entity.StateDraft},
		{"approver", requisition.RoleApprover, entity.StateReviewed, entity.StateSubmitted},
		{"authorizer", requisition.RoleAuthorizer, entity.StateApproved, entity.StateReviewed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := actorWith(c.role)
			assert.NoError(t, requisition.CheckWrite(a, c.ok))
			assert.ErrorIs(t, requisition.CheckWrite(a, c.block), domain.ErrPermission)
		})
	}
}

func TestCheckWrite_SinRolesSinRestriccion(t *testing.T) {
	a := actorWith()
	for _, s := range []entity.State{entity.StateDraft, entity.StateSubmitted, entity.StateApproved, entity.StateRejected} {
		assert.NoError(t, requisition.CheckWrite(a, s))
	}
}

// Con varios roles se deben cumplir todas las reglas: staff + reviewer no puede escribir nunca.
func TestCheckWrite_MultiRol(t *testing.T) {
	a := actorWith(requisition.RoleStaff, requisition.RoleReviewer)
	assert.ErrorIs(t, requisition.CheckWrite(a, entity.StateDraft), domain.ErrPermission)
	assert.ErrorIs(t, requisition.CheckWrite(a, entity.StateSubmitted), domain.ErrPermission)
}

func TestCheckWrite_Mensaje(t *testing.T) {
	err := requisition.CheckWrite(actorWith(requisition.RoleReviewer), entity.StateDraft)
	assert.Equal(t, "los revisores solo pueden modificar requisiciones enviadas", domain.Message(err))
}

func TestHiddenStates(t *testing.T) {
	assert.Empty(t, requisition.HiddenStates(actorWith(requisition.RoleStaff)))
	assert.ElementsMatch(t,
		[]entity.State{entity.StateDraft, entity.StateSubmitted},
		requisition.HiddenStates(actorWith(requisition.RoleApprover)))
	assert.ElementsMatch(t,
		[]entity.State{entity.StateDraft, entity.StateSubmitted, entity.StateReviewed},
		requisition.HiddenStates(actorWith(requisition.RoleAuthorizer)))
	assert.ElementsMatch(t,
		[]entity.State{entity.StateDraft, entity.StateSubmitted, entity.StateReviewed},
		requisition.HiddenStates(actorWith(requisition.RoleApprover, requisition.RoleAuthorizer)))
}
