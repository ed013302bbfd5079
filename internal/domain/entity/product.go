package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. La identidad es inmutable; costo y precio
// los mantiene el catálogo. El stock se maneja por tienda en Stock.
type Product struct {
	ID            string
	SKU           string
	Name          string
	CostPrice     decimal.Decimal // costo unitario, base del value_impact de los ajustes
	SellingPrice  decimal.Decimal // precio de venta sugerido
	MinStockLevel int64
	ReorderPoint  int64
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
