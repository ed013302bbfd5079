package entity

import "time"

// Stock representa el stock actual de un producto en una tienda (una fila por par).
// Quantity nunca es negativo: los decrementos se recortan en 0.
type Stock struct {
	ProductID        string
	StoreID          string
	Quantity         int64
	ReservedQuantity int64
	LastUpdated      time.Time
	UpdatedBy        string
}
