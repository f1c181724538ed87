// Package requisition contiene las reglas del flujo de requisiciones de compra:
// transiciones, control de escritura por rol y visibilidad en búsquedas.
package requisition

import (
	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// Roles (grupos) que participan en el flujo.
const (
	RoleStaff      = "requisition_staff"
	RoleReviewer   = "requisition_reviewer"
	RoleApprover   = "requisition_approver"
	RoleAuthorizer = "requisition_authorizer"
)

type writeRule struct {
	role    string
	state   entity.State // único estado que el rol puede modificar
	message string
}

// writeRules se evalúan en orden; un actor con varios roles debe cumplir todas
// las reglas de los roles que tiene.
var writeRules = []writeRule{
	{RoleStaff, entity.StateDraft, "el personal no puede modificar una requisición ya enviada"},
	{RoleReviewer, entity.StateSubmitted, "los revisores solo pueden modificar requisiciones enviadas"},
	{RoleApprover, entity.StateReviewed, "los aprobadores solo pueden modificar requisiciones revisadas"},
	{RoleAuthorizer, entity.StateApproved, "los autorizadores solo pueden modificar requisiciones aprobadas"},
}

// CheckWrite control de escritura: se consulta en toda modificación de una requisición
// (cabecera, líneas y transiciones). Un actor sin ninguno de los roles no tiene restricción.
func CheckWrite(actor entity.Actor, state entity.State) error {
	for _, r := range writeRules {
		if actor.HasRole(r.role) && state != r.state {
			return domain.Permission(r.message)
		}
	}
	return nil
}

// HiddenStates estados que el actor no ve en los listados. No aplica a la consulta por ID.
func HiddenStates(actor entity.Actor) []entity.State {
	var hidden []entity.State
	add := func(states ...entity.State) {
		for _, s := range states {
			dup := false
			for _, h := range hidden {
				if h == s {
					dup = true
					break
				}
			}
			if !dup {
				hidden = append(hidden, s)
			}
		}
	}
	if actor.HasRole(RoleApprover) {
		add(entity.StateDraft, entity.StateSubmitted)
	}
	if actor.HasRole(RoleAuthorizer) {
		add(entity.StateDraft, entity.StateSubmitted, entity.StateReviewed)
	}
	return hidden
}
