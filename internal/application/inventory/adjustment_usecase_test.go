package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

func dtoAdjustment(f *fixture, old, target int64) dto.ApplyAdjustmentRequest {
	return dto.ApplyAdjustmentRequest{
		ProductID: f.productID, StoreID: f.storeID,
		OldQuantity: &old, NewQuantity: &target, Reason: "conteo físico",
	}
}

func TestApplyAdjustment_AprobacionAutomatica(t *testing.T) {
	f := newFixture(t)
	f.setStock(10)

	adj, err := f.adjustments(nil).ApplyAdjustment(f.ctx, cashier, dtoAdjustment(f, 10, 7))
	require.NoError(t, err)

	assert.Equal(t, "APPROVED", adj.Status)
	assert.Equal(t, "DECREASE", adj.AdjustmentType)
	assert.Equal(t, cashier, adj.ApprovedBy)
	require.NotNil(t, adj.ApprovedAt)
	require.Len(t, adj.Items, 1)
	assert.Equal(t, int64(-3), adj.Items[0].QuantityDifference)
	assert.True(t, adj.Items[0].ValueImpact.Equal(decimal.NewFromInt(-3000)))
	assert.Equal(t, int64(7), f.quantity())

	out := f.movements()[0]
	assert.Equal(t, entity.MovementTypeOUT, out.Type)
	assert.Equal(t, int64(3), out.Quantity)
	assert.Equal(t, entity.ReferenceAdjustment, out.ReferenceType)
	assert.Contains(t, out.Notes, "conteo físico")
	f.requireConsistent()
}

func TestApplyAdjustment_Reconteo_SinMovimiento(t *testing.T) {
	f := newFixture(t)
	f.setStock(4)

	adj, err := f.adjustments(nil).ApplyAdjustment(f.ctx, cashier, dtoAdjustment(f, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, "RECOUNT", adj.AdjustmentType)
	assert.Len(t, f.movements(), 1)
}

func TestApplyAdjustment_StockDesactualizado_Conflict(t *testing.T) {
	f := newFixture(t)
	f.setStock(10)

	_, err := f.adjustments(nil).ApplyAdjustment(f.ctx, cashier, dtoAdjustment(f, 8, 12))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(10), f.quantity())
	assert.Len(t, f.movements(), 1)
}

func TestApplyAdjustment_Validaciones(t *testing.T) {
	f := newFixture(t)
	uc := f.adjustments(nil)

	in := dtoAdjustment(f, 0, 1)
	in.Reason = ""
	_, err := uc.ApplyAdjustment(f.ctx, cashier, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ApplyAdjustment(f.ctx, cashier, dtoAdjustment(f, 0, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = dtoAdjustment(f, 0, 1)
	in.OldQuantity = nil
	_, err = uc.ApplyAdjustment(f.ctx, cashier, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ApplyAdjustment(f.ctx, "", dtoAdjustment(f, 0, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = dtoAdjustment(f, 0, 1)
	in.ProductID = "no-existe"
	_, err = uc.ApplyAdjustment(f.ctx, cashier, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustment_AprobadorSeparado(t *testing.T) {
	f := newFixture(t)
	uc := f.adjustments(inventory.SeparateApproverPolicy{})

	adj, err := uc.ApplyAdjustment(f.ctx, cashier, dtoAdjustment(f, 0, 20))
	require.NoError(t, err)
	assert.Equal(t, "PENDING", adj.Status)
	assert.Nil(t, adj.ApprovedAt)
	assert.Equal(t, int64(0), f.quantity())
	assert.Empty(t, f.movements())

	_, err = uc.ApproveAdjustment(f.ctx, cashier, adj.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "el creador no aprueba su propio ajuste")

	approved, err := uc.ApproveAdjustment(f.ctx, supervisor, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	assert.Equal(t, supervisor, approved.ApprovedBy)
	assert.Equal(t, int64(20), f.quantity())
	f.requireConsistent()

	_, err = uc.ApproveAdjustment(f.ctx, supervisor, adj.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "ya aprobado")
}

func TestAdjustment_AprobacionConStockCambiado_SiguePendiente(t *testing.T) {
	f := newFixture(t)
	f.setStock(10)
	uc := f.adjustments(inventory.SeparateApproverPolicy{})

	adj, err := uc.ApplyAdjustment(f.ctx, cashier, dtoAdjustment(f, 10, 15))
	require.NoError(t, err)

	_, err = f.sales().CommitSale(f.ctx, cashier, f.saleOf(1, "100"))
	require.NoError(t, err)

	_, err = uc.ApproveAdjustment(f.ctx, supervisor, adj.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := uc.GetAdjustment(f.ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, int64(9), f.quantity())
}

func TestAdjustment_Rechazo(t *testing.T) {
	f := newFixture(t)
	uc := f.adjustments(inventory.SeparateApproverPolicy{})

	adj, err := uc.ApplyAdjustment(f.ctx, cashier, dtoAdjustment(f, 0, 5))
	require.NoError(t, err)

	rejected, err := uc.RejectAdjustment(f.ctx, supervisor, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", rejected.Status)
	assert.Equal(t, int64(0), f.quantity())

	_, err = uc.ApproveAdjustment(f.ctx, supervisor, adj.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.RejectAdjustment(f.ctx, supervisor, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprovalPolicyFromString(t *testing.T) {
	assert.IsType(t, inventory.SeparateApproverPolicy{}, inventory.ApprovalPolicyFromString(" Manual "))
	assert.IsType(t, inventory.AutoApprovePolicy{}, inventory.ApprovalPolicyFromString("auto"))
	assert.IsType(t, inventory.AutoApprovePolicy{}, inventory.ApprovalPolicyFromString(""))
}
