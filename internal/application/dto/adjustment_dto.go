package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyAdjustmentRequest body para POST /api/adjustments.
// OldQuantity es el valor que el usuario afirma como actual; se verifica con compare-and-swap.
type ApplyAdjustmentRequest struct {
	ProductID   string `json:"product_id"`
	StoreID     string `json:"store_id"`
	OldQuantity *int64 `json:"old_quantity"`
	NewQuantity *int64 `json:"new_quantity"`
	Reason      string `json:"reason"`
	Notes       string `json:"notes,omitempty"`
}

// AdjustmentItemResponse detalle del ajuste.
type AdjustmentItemResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	OldQuantity        int64           `json:"old_quantity"`
	NewQuantity        int64           `json:"new_quantity"`
	QuantityDifference int64           `json:"quantity_difference"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	ValueImpact        decimal.Decimal `json:"value_impact"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID               string                   `json:"id"`
	AdjustmentNumber string                   `json:"adjustment_number"`
	StoreID          string                   `json:"store_id"`
	AdjustmentType   string                   `json:"adjustment_type"`
	Status           string                   `json:"status"`
	Reason           string                   `json:"reason"`
	Notes            string                   `json:"notes,omitempty"`
	CreatedBy        string                   `json:"created_by"`
	ApprovedBy       string                   `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time               `json:"approved_at,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	Items            []AdjustmentItemResponse `json:"items"`
}
