package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentType se deriva del signo de new − old; nunca lo elige el usuario.
type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "INCREASE"
	AdjustmentDecrease AdjustmentType = "DECREASE"
	AdjustmentRecount  AdjustmentType = "RECOUNT"
)

// DeriveAdjustmentType devuelve INCREASE, DECREASE o RECOUNT según la diferencia.
func DeriveAdjustmentType(oldQty, newQty int64) AdjustmentType {
	switch diff := newQty - oldQty; {
	case diff > 0:
		return AdjustmentIncrease
	case diff < 0:
		return AdjustmentDecrease
	default:
		return AdjustmentRecount
	}
}

// AdjustmentStatus estado de aprobación del ajuste.
type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "PENDING"
	AdjustmentApproved AdjustmentStatus = "APPROVED"
	AdjustmentRejected AdjustmentStatus = "REJECTED"
)

// StockAdjustment cabecera de un ajuste manual de inventario.
type StockAdjustment struct {
	ID               string
	AdjustmentNumber string
	StoreID          string
	Type             AdjustmentType
	Status           AdjustmentStatus
	Reason           string
	Notes            string
	CreatedBy        string
	ApprovedBy       string
	ApprovedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Items            []*StockAdjustmentItem
}

// StockAdjustmentItem detalle del ajuste: valor anterior afirmado por el usuario y valor objetivo.
type StockAdjustmentItem struct {
	ID                 string
	AdjustmentID       string
	ProductID          string
	OldQuantity        int64
	NewQuantity        int64
	QuantityDifference int64
	UnitCost           decimal.Decimal
	ValueImpact        decimal.Decimal
}

// NewAdjustmentItem calcula la diferencia y el impacto en valor (puede ser negativo).
func NewAdjustmentItem(productID string, oldQty, newQty int64, unitCost decimal.Decimal) *StockAdjustmentItem {
	diff := newQty - oldQty
	return &StockAdjustmentItem{
		ProductID:          productID,
		OldQuantity:        oldQty,
		NewQuantity:        newQty,
		QuantityDifference: diff,
		UnitCost:           unitCost,
		ValueImpact:        decimal.NewFromInt(diff).Mul(unitCost),
	}
}
