package entity

import "time"

// Store representa una tienda donde se almacena y vende inventario.
type Store struct {
	ID        string
	Name      string
	Address   string
	ManagerID string // opcional
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
