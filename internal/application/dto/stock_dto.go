package dto

import "time"

// StockResponse cantidad actual de un par producto+tienda.
type StockResponse struct {
	ProductID        string     `json:"product_id"`
	StoreID          string     `json:"store_id"`
	Quantity         int64      `json:"quantity"`
	ReservedQuantity int64      `json:"reserved_quantity"`
	LastUpdated      *time.Time `json:"last_updated,omitempty"`
	UpdatedBy        string     `json:"updated_by,omitempty"`
}

// MovementResponse fila del libro de movimientos.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	StoreID       string    `json:"store_id"`
	MovementType  string    `json:"movement_type"`
	Direction     string    `json:"direction"`
	Quantity      int64     `json:"quantity"`
	AffectsStock  bool      `json:"affects_stock"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   string    `json:"reference_id"`
	Notes         string    `json:"notes,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LedgerCheckResponse resultado de verificar el invariante stock == Σ libro.
type LedgerCheckResponse struct {
	ProductID   string `json:"product_id"`
	StoreID     string `json:"store_id"`
	Quantity    int64  `json:"quantity"`
	LedgerTotal int64  `json:"ledger_total"`
	Consistent  bool   `json:"consistent"`
}
