package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnStatus estado de una devolución.
type ReturnStatus string

const (
	ReturnPending   ReturnStatus = "PENDING"
	ReturnApproved  ReturnStatus = "APPROVED"
	ReturnRejected  ReturnStatus = "REJECTED"
	ReturnCompleted ReturnStatus = "COMPLETED"
)

// Valid indica si el estado es conocido.
func (s ReturnStatus) Valid() bool {
	switch s {
	case ReturnPending, ReturnApproved, ReturnRejected, ReturnCompleted:
		return true
	}
	return false
}

// MutatesStock indica si el estado implica que la devolución ya movió inventario.
func (s ReturnStatus) MutatesStock() bool {
	return s == ReturnApproved || s == ReturnCompleted
}

// Deletable: solo PENDING y REJECTED, porque nunca tocaron el stock.
func (s ReturnStatus) Deletable() bool {
	return s == ReturnPending || s == ReturnRejected
}

// ReturnItemCondition estado físico del artículo devuelto.
type ReturnItemCondition string

const (
	ConditionGood      ReturnItemCondition = "GOOD"
	ConditionDamaged   ReturnItemCondition = "DAMAGED"
	ConditionDefective ReturnItemCondition = "DEFECTIVE"
)

// Valid indica si la condición es conocida.
func (c ReturnItemCondition) Valid() bool {
	switch c {
	case ConditionGood, ConditionDamaged, ConditionDefective:
		return true
	}
	return false
}

// Sellable: solo la mercancía en buen estado vuelve al stock vendible.
func (c ReturnItemCondition) Sellable() bool { return c == ConditionGood }

// Return cabecera de devolución.
type Return struct {
	ID           string
	ReturnNumber string
	StoreID      string
	SaleID       string // opcional
	Status       ReturnStatus
	Reason       string
	TotalAmount  decimal.Decimal
	RefundAmount decimal.Decimal
	CreatedBy    string
	ApprovedBy   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Items        []*ReturnItem
}

// ReturnItem línea de devolución.
type ReturnItem struct {
	ID        string
	ReturnID  string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Condition ReturnItemCondition
}
