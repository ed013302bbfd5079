package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta. Crearla descuenta stock; eliminarla lo revierte.
type Sale struct {
	ID             string
	InvoiceNumber  string
	StoreID        string
	CustomerName   string
	PaymentMethod  string
	Notes          string
	Subtotal       decimal.Decimal // Σ cantidad × precio
	DiscountTotal  decimal.Decimal
	Total          decimal.Decimal // Subtotal − DiscountTotal
	IdempotencyKey string
	CreatedBy      string
	CreatedAt      time.Time
	Items          []*SaleItem
}

// SaleItem línea de venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // monto absoluto de descuento de la línea
	LineTotal decimal.Decimal
}

// Gross devuelve cantidad × precio unitario.
func (i *SaleItem) Gross() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
