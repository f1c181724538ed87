package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow/internal/domain"
	"github.com/jhoicas/stockflow/internal/domain/entity"
	"github.com/jhoicas/stockflow/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquinas de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestMachine_Target(t *testing.T) {
	cases := []struct {
		machine inventory.Machine
		action  inventory.Action
		want    entity.State
	}{
		{inventory.StockInMachine, inventory.ActionSubmit, entity.StateSubmitted},
		{inventory.StockInMachine, inventory.ActionApprove, entity.StateApproved},
		{inventory.StockInMachine, inventory.ActionReset, entity.StateDraft},
		{inventory.StockOutMachine, inventory.ActionLineManager, entity.StateLineManager},
		{inventory.StockOutMachine, inventory.ActionIssue, entity.StateIssued},
		{inventory.StockOutMachine, inventory.ActionReview, entity.StateDraft},
		{inventory.StockOutMachine, inventory.ActionBackToLineManager, entity.StateLineManager},
		{inventory.AdjustmentMachine, inventory.ActionVerify, entity.StateVerify},
		{inventory.AdjustmentMachine, inventory.ActionReview, entity.StateDraft},
	}
	for _, c := range cases {
		got, err := c.machine.Target(c.action)
		require.NoError(t, err, "%s/%s", c.machine.Kind, c.action)
		assert.Equal(t, c.want, got, "%s/%s", c.machine.Kind, c.action)
	}
}

func TestMachine_TargetAccionInvalida(t *testing.T) {
	_, err := inventory.StockInMachine.Target(inventory.ActionIssue)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.AdjustmentMachine.Target(inventory.ActionReset)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMachine_CanDelete(t *testing.T) {
	assert.ErrorIs(t, inventory.StockInMachine.CanDelete(entity.StateApproved), domain.ErrDeleteGuard)
	assert.NoError(t, inventory.StockInMachine.CanDelete(entity.StateDraft))
	assert.NoError(t, inventory.StockInMachine.CanDelete(entity.StateSubmitted))

	assert.ErrorIs(t, inventory.StockOutMachine.CanDelete(entity.StateIssued), domain.ErrDeleteGuard)
	assert.NoError(t, inventory.StockOutMachine.CanDelete(entity.StateChecked))

	assert.ErrorIs(t, inventory.AdjustmentMachine.CanDelete(entity.StateApproved), domain.ErrDeleteGuard)
	assert.NoError(t, inventory.AdjustmentMachine.CanDelete(entity.StateRejected))
}

func TestMachine_ValidState(t *testing.T) {
	assert.True(t, inventory.StockOutMachine.ValidState(entity.StateChecked))
	assert.False(t, inventory.StockInMachine.ValidState(entity.StateIssued))
	assert.True(t, inventory.AdjustmentMachine.ValidState(entity.StateVerify))
}

func TestMachineFor(t *testing.T) {
	m, ok := inventory.MachineFor(entity.LedgerKindStockOut)
	require.True(t, ok)
	assert.Equal(t, entity.StateIssued, m.Contributing)

	_, ok = inventory.MachineFor("transfer")
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones de líneas
// ──────────────────────────────────────────────────────────────────────────────

func outLine(product string, qty int64) entity.StockOutLine {
	return entity.StockOutLine{ProductID: product, IssuedQuantity: decimal.NewFromInt(qty)}
}

func TestValidateStockOut_CheckExigeCantidadPositiva(t *testing.T) {
	balances := map[string]decimal.Decimal{"p-1": decimal.NewFromInt(10)}
	err := inventory.ValidateStockOut(inventory.ActionCheck, []entity.StockOutLine{outLine("p-1", 0)}, balances)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateStockOut_CheckSaldoInsuficiente(t *testing.T) {
	balances := map[string]decimal.Decimal{"p-1": decimal.NewFromInt(5)}
	err := inventory.ValidateStockOut(inventory.ActionCheck, []entity.StockOutLine{outLine("p-1", 6)}, balances)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, domain.Message(err), "existencias")
}

func TestValidateStockOut_CheckSaldoExacto(t *testing.T) {
	balances := map[string]decimal.Decimal{"p-1": decimal.NewFromInt(5)}
	err := inventory.ValidateStockOut(inventory.ActionCheck, []entity.StockOutLine{outLine("p-1", 5)}, balances)
	assert.NoError(t, err)
}

// Cada línea se compara contra el saldo completo del producto; no se acumulan.
func TestValidateStockOut_CheckLineasNoSeAcumulan(t *testing.T) {
	balances := map[string]decimal.Decimal{"p-1": decimal.NewFromInt(5)}
	lines := []entity.StockOutLine{outLine("p-1", 4), outLine("p-1", 4)}
	assert.NoError(t, inventory.ValidateStockOut(inventory.ActionCheck, lines, balances))
}

func TestValidateStockOut_Issue(t *testing.T) {
	assert.NoError(t, inventory.ValidateStockOut(inventory.ActionIssue, []entity.StockOutLine{outLine("p-1", 0)}, nil))
	err := inventory.ValidateStockOut(inventory.ActionIssue, []entity.StockOutLine{outLine("p-1", -1)}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateStockOut_OtrasAccionesNoValidan(t *testing.T) {
	assert.NoError(t, inventory.ValidateStockOut(inventory.ActionRequest, []entity.StockOutLine{outLine("p-1", -3)}, nil))
}

func TestValidateAdjustment(t *testing.T) {
	zero := []entity.StockAdjustmentLine{{ProductID: "p-1", Adjustment: decimal.Zero}}
	pos := []entity.StockAdjustmentLine{{ProductID: "p-1", Adjustment: decimal.NewFromInt(2)}}

	assert.ErrorIs(t, inventory.ValidateAdjustment(inventory.ActionSubmit, zero), domain.ErrValidation)
	assert.ErrorIs(t, inventory.ValidateAdjustment(inventory.ActionVerify, zero), domain.ErrValidation)
	assert.NoError(t, inventory.ValidateAdjustment(inventory.ActionApprove, zero))
	assert.NoError(t, inventory.ValidateAdjustment(inventory.ActionSubmit, pos))
}
