package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
)

// Action botón del flujo de un documento de inventario.
type Action string

// Acciones disponibles. No todas aplican a todos los tipos de documento.
const (
	ActionSubmit            Action = "submit"
	ActionApprove           Action = "approve"
	ActionReject            Action = "reject"
	ActionReset             Action = "reset"
	ActionRequest           Action = "request"
	ActionLineManager       Action = "line-manager"
	ActionCheck             Action = "check"
	ActionIssue             Action = "issue"
	ActionReview            Action = "review"
	ActionBackToLineManager Action = "back-to-line-manager"
	ActionVerify            Action = "verify"
)

// Machine máquina de estados de un tipo de documento de inventario.
// Cada acción sobrescribe el estado sin importar el estado de origen; las
// validaciones de líneas se aplican aparte (ValidateStockOut, ValidateAdjustment).
type Machine struct {
	Kind         string
	Contributing entity.State // único estado cuyas líneas suman al saldo
	targets      map[Action]entity.State
	states       []entity.State
}

// StockInMachine entrada: draft → submitted → approved | rejected.
var StockInMachine = Machine{
	Kind:         entity.LedgerKindStockIn,
	Contributing: entity.StateApproved,
	targets: map[Action]entity.State{
		ActionSubmit:  entity.StateSubmitted,
		ActionApprove: entity.StateApproved,
		ActionReject:  entity.StateRejected,
		ActionReset:   entity.StateDraft,
	},
	states: []entity.State{entity.StateDraft, entity.StateSubmitted, entity.StateApproved, entity.StateRejected},
}

// StockOutMachine salida: draft → requested → line_manager → checked → issued | rejected.
var StockOutMachine = Machine{
	Kind:         entity.LedgerKindStockOut,
	Contributing: entity.StateIssued,
	targets: map[Action]entity.State{
		ActionRequest:           entity.StateRequested,
		ActionLineManager:       entity.StateLineManager,
		ActionCheck:             entity.StateChecked,
		ActionIssue:             entity.StateIssued,
		ActionReject:            entity.StateRejected,
		ActionReset:             entity.StateDraft,
		ActionReview:            entity.StateDraft,
		ActionBackToLineManager: entity.StateLineManager,
	},
	states: []entity.State{
		entity.StateDraft, entity.StateRequested, entity.StateLineManager,
		entity.StateChecked, entity.StateIssued, entity.StateRejected,
	},
}

// AdjustmentMachine ajuste: draft → submitted → line_manager → verify → approved | rejected.
var AdjustmentMachine = Machine{
	Kind:         entity.LedgerKindAdjustment,
	Contributing: entity.StateApproved,
	targets: map[Action]entity.State{
		ActionSubmit:      entity.StateSubmitted,
		ActionLineManager: entity.StateLineManager,
		ActionVerify:      entity.StateVerify,
		ActionApprove:     entity.StateApproved,
		ActionReject:      entity.StateRejected,
		ActionReview:      entity.StateDraft,
	},
	states: []entity.State{
		entity.StateDraft, entity.StateSubmitted, entity.StateLineManager,
		entity.StateVerify, entity.StateApproved, entity.StateRejected,
	},
}

// Target estado destino de la acción. ErrInvalidInput si la acción no existe para el tipo.
func (m Machine) Target(a Action) (entity.State, error) {
	to, ok := m.targets[a]
	if !ok {
		return "", fmt.Errorf("%w: acción %q no válida para %s", domain.ErrInvalidInput, a, m.Kind)
	}
	return to, nil
}

// ValidState indica si el estado pertenece a la enumeración del tipo.
func (m Machine) ValidState(s entity.State) bool {
	for _, st := range m.states {
		if st == s {
			return true
		}
	}
	return false
}

// Contributes indica si las líneas de un documento en ese estado suman al saldo.
func (m Machine) Contributes(s entity.State) bool {
	return s == m.Contributing
}

// CanDelete rechaza la eliminación de documentos en el estado que aporta al saldo.
func (m Machine) CanDelete(s entity.State) error {
	if m.Contributes(s) {
		return domain.DeleteGuard(fmt.Sprintf("no se puede eliminar un documento en estado %s", s))
	}
	return nil
}

// MachineFor devuelve la máquina de un tipo de documento.
func MachineFor(kind string) (Machine, bool) {
	switch kind {
	case entity.LedgerKindStockIn:
		return StockInMachine, true
	case entity.LedgerKindStockOut:
		return StockOutMachine, true
	case entity.LedgerKindAdjustment:
		return AdjustmentMachine, true
	}
	return Machine{}, false
}

// ValidateStockOut valida las líneas antes de las acciones check e issue.
// balances: saldo actual (BalanceStock) por producto. Valida todas las líneas antes de
// permitir cualquier cambio; la primera línea inválida aborta la transición.
func ValidateStockOut(a Action, lines []entity.StockOutLine, balances map[string]decimal.Decimal) error {
	switch a {
	case ActionCheck:
		for _, l := range lines {
			if !l.IssuedQuantity.IsPositive() {
				return domain.Validation("no se puede despachar una cantidad menor o igual a 0")
			}
			if balances[l.ProductID].Sub(l.IssuedQuantity).IsNegative() {
				return domain.Validation("no hay existencias suficientes para despachar, revise el saldo del producto")
			}
		}
	case ActionIssue:
		for _, l := range lines {
			if l.IssuedQuantity.IsNegative() {
				return domain.Validation("una de las líneas tiene una cantidad despachada inválida")
			}
		}
	}
	return nil
}

// ValidateAdjustment exige ajuste > 0 en cada línea para submit y verify.
func ValidateAdjustment(a Action, lines []entity.StockAdjustmentLine) error {
	if a != ActionSubmit && a != ActionVerify {
		return nil
	}
	for _, l := range lines {
		if !l.Adjustment.IsPositive() {
			return domain.Validation("debe especificar el valor del ajuste")
		}
	}
	return nil
}
