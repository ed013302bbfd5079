package entity

import (
	"time"

	"github.com/google/uuid"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeIN         MovementType = "IN"         // entrada
	MovementTypeOUT        MovementType = "OUT"        // salida
	MovementTypeADJUSTMENT MovementType = "ADJUSTMENT" // ajuste
	MovementTypeTRANSFER   MovementType = "TRANSFER"   // traslado entre tiendas (sin lógica propia)
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT, MovementTypeTRANSFER:
		return true
	}
	return false
}

// MovementDirection sentido del movimiento sobre el stock.
type MovementDirection string

const (
	DirectionIncrease MovementDirection = "INCREASE"
	DirectionDecrease MovementDirection = "DECREASE"
)

// Valid indica si la dirección es conocida.
func (d MovementDirection) Valid() bool {
	return d == DirectionIncrease || d == DirectionDecrease
}

// ReferenceType evento de negocio que origina el movimiento.
type ReferenceType string

const (
	ReferenceSale       ReferenceType = "SALE"
	ReferenceReturn     ReferenceType = "RETURN"
	ReferenceAdjustment ReferenceType = "ADJUSTMENT"
	ReferenceTransfer   ReferenceType = "TRANSFER"
	ReferencePurchase   ReferenceType = "PURCHASE"
)

// Valid indica si el tipo de referencia pertenece al conjunto cerrado.
func (r ReferenceType) Valid() bool {
	switch r {
	case ReferenceSale, ReferenceReturn, ReferenceAdjustment, ReferenceTransfer, ReferencePurchase:
		return true
	}
	return false
}

// StockMovement es una fila inmutable del libro de movimientos.
// Quantity es la magnitud (sin signo); el signo lo da Direction.
// AffectsStock=false marca movimientos que se registran pero no tocan el stock vendible
// (devoluciones en mal estado).
type StockMovement struct {
	ID            string
	ProductID     string
	StoreID       string
	Type          MovementType
	Direction     MovementDirection
	Quantity      int64
	AffectsStock  bool
	ReferenceType ReferenceType
	ReferenceID   string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}

// NewMovement construye un movimiento IN u OUT con ID nuevo, la dirección implícita y AffectsStock=true.
func NewMovement(t MovementType, productID, storeID string, qty int64, ref ReferenceType, refID, actor string, now time.Time) *StockMovement {
	dir := DirectionIncrease
	if t == MovementTypeOUT {
		dir = DirectionDecrease
	}
	return &StockMovement{
		ID:            uuid.New().String(),
		ProductID:     productID,
		StoreID:       storeID,
		Type:          t,
		Direction:     dir,
		Quantity:      qty,
		AffectsStock:  true,
		ReferenceType: ref,
		ReferenceID:   refID,
		CreatedBy:     actor,
		CreatedAt:     now,
	}
}

// Validate comprueba la coherencia tipo/dirección y los campos obligatorios.
func (m *StockMovement) Validate() bool {
	if m.ProductID == "" || m.StoreID == "" || m.Quantity < 0 {
		return false
	}
	if !m.Type.Valid() || !m.Direction.Valid() || !m.ReferenceType.Valid() {
		return false
	}
	switch m.Type {
	case MovementTypeIN:
		return m.Direction == DirectionIncrease
	case MovementTypeOUT:
		return m.Direction == DirectionDecrease
	}
	return true
}
