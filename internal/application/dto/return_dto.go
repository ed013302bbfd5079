package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnItemRequest línea de devolución.
type ReturnItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Condition string           `json:"condition"` // GOOD | DAMAGED | DEFECTIVE
}

// CreateReturnRequest body para POST /api/returns.
type CreateReturnRequest struct {
	StoreID      string              `json:"store_id"`
	SaleID       string              `json:"sale_id,omitempty"`
	Items        []ReturnItemRequest `json:"items"`
	Status       string              `json:"status,omitempty"` // por defecto PENDING
	Reason       string              `json:"reason,omitempty"`
	RefundAmount *decimal.Decimal    `json:"refund_amount,omitempty"` // por defecto total_amount
}

// SettleReturnRequest body para POST /api/returns/:id/settle.
type SettleReturnRequest struct {
	Status string `json:"status"` // APPROVED | REJECTED | COMPLETED
}

// ReturnItemResponse línea de devolución en la respuesta.
type ReturnItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Condition string          `json:"condition"`
}

// ReturnResponse salida de una devolución.
type ReturnResponse struct {
	ID           string               `json:"id"`
	ReturnNumber string               `json:"return_number"`
	StoreID      string               `json:"store_id"`
	SaleID       string               `json:"sale_id,omitempty"`
	Status       string               `json:"status"`
	Reason       string               `json:"reason,omitempty"`
	TotalAmount  decimal.Decimal      `json:"total_amount"`
	RefundAmount decimal.Decimal      `json:"refund_amount"`
	CreatedBy    string               `json:"created_by"`
	ApprovedBy   string               `json:"approved_by,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Items        []ReturnItemResponse `json:"items"`
}
