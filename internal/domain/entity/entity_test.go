package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

func TestDeriveAdjustmentType(t *testing.T) {
	assert.Equal(t, entity.AdjustmentIncrease, entity.DeriveAdjustmentType(3, 10))
	assert.Equal(t, entity.AdjustmentDecrease, entity.DeriveAdjustmentType(10, 3))
	assert.Equal(t, entity.AdjustmentRecount, entity.DeriveAdjustmentType(7, 7))
}

func TestNewAdjustmentItem_ImpactoEnValor(t *testing.T) {
	cost := decimal.RequireFromString("1250.50")

	up := entity.NewAdjustmentItem("p1", 10, 14, cost)
	assert.Equal(t, int64(4), up.QuantityDifference)
	assert.True(t, up.ValueImpact.Equal(decimal.RequireFromString("5002")))

	down := entity.NewAdjustmentItem("p1", 10, 7, cost)
	assert.Equal(t, int64(-3), down.QuantityDifference)
	assert.True(t, down.ValueImpact.Equal(decimal.RequireFromString("-3751.5")))

	same := entity.NewAdjustmentItem("p1", 5, 5, cost)
	assert.True(t, same.ValueImpact.IsZero())
}

func TestNewMovement(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	out := entity.NewMovement(entity.MovementTypeOUT, "p1", "s1", 4, entity.ReferenceSale, "sale-1", "u1", now)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, entity.DirectionDecrease, out.Direction)
	assert.True(t, out.AffectsStock)
	assert.True(t, out.Validate())

	in := entity.NewMovement(entity.MovementTypeIN, "p1", "s1", 4, entity.ReferenceReturn, "ret-1", "u1", now)
	assert.Equal(t, entity.DirectionIncrease, in.Direction)
	assert.NotEqual(t, out.ID, in.ID)
}

func TestStockMovement_Validate(t *testing.T) {
	now := time.Now()
	base := func() *entity.StockMovement {
		return entity.NewMovement(entity.MovementTypeIN, "p1", "s1", 1, entity.ReferenceAdjustment, "a1", "u1", now)
	}

	m := base()
	m.Direction = entity.DirectionDecrease
	assert.False(t, m.Validate(), "IN con dirección DECREASE")

	m = base()
	m.Quantity = -1
	assert.False(t, m.Validate())

	m = base()
	m.ReferenceType = "INVOICE"
	assert.False(t, m.Validate())

	m = base()
	m.StoreID = ""
	assert.False(t, m.Validate())

	m = base()
	m.Type = entity.MovementTypeADJUSTMENT
	m.Direction = entity.DirectionDecrease
	assert.True(t, m.Validate(), "ADJUSTMENT admite ambas direcciones")
}

func TestReturnStatus(t *testing.T) {
	assert.True(t, entity.ReturnApproved.MutatesStock())
	assert.True(t, entity.ReturnCompleted.MutatesStock())
	assert.False(t, entity.ReturnPending.MutatesStock())
	assert.False(t, entity.ReturnRejected.MutatesStock())

	assert.True(t, entity.ReturnPending.Deletable())
	assert.True(t, entity.ReturnRejected.Deletable())
	assert.False(t, entity.ReturnApproved.Deletable())
	assert.False(t, entity.ReturnCompleted.Deletable())

	assert.False(t, entity.ReturnStatus("CANCELLED").Valid())
}

func TestReturnItemCondition(t *testing.T) {
	assert.True(t, entity.ConditionGood.Sellable())
	assert.False(t, entity.ConditionDamaged.Sellable())
	assert.False(t, entity.ConditionDefective.Sellable())
	assert.False(t, entity.ReturnItemCondition("USED").Valid())
}

func TestSaleItem_Gross(t *testing.T) {
	it := &entity.SaleItem{Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")}
	assert.True(t, it.Gross().Equal(decimal.RequireFromString("59.97")))
}
