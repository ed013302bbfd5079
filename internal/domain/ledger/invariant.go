// Package ledger define el invariante de consistencia entre la tabla de stock y el libro
// de movimientos: para cada par (producto, tienda), Stock.quantity == Σ Signed(movimiento).
package ledger

import (
	"errors"
	"fmt"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// ErrInvariantViolation se devuelve cuando el stock no coincide con el libro.
var ErrInvariantViolation = errors.New("stock inconsistente con el libro de movimientos")

// Signed devuelve la contribución con signo de un movimiento al stock vendible.
// Los movimientos con AffectsStock=false contribuyen 0.
func Signed(m *entity.StockMovement) int64 {
	if m == nil || !m.AffectsStock {
		return 0
	}
	if m.Direction == entity.DirectionDecrease {
		return -m.Quantity
	}
	return m.Quantity
}

// Sum suma las contribuciones con signo de los movimientos.
func Sum(movements []*entity.StockMovement) int64 {
	var total int64
	for _, m := range movements {
		total += Signed(m)
	}
	return total
}

// Mismatch detalle de una violación del invariante.
type Mismatch struct {
	ProductID   string
	StoreID     string
	Quantity    int64
	LedgerTotal int64
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("%s: producto %s tienda %s: stock=%d libro=%d",
		ErrInvariantViolation.Error(), m.ProductID, m.StoreID, m.Quantity, m.LedgerTotal)
}

func (m *Mismatch) Is(target error) bool { return target == ErrInvariantViolation }

// CheckTotals compara una cantidad con el total del libro ya agregado (ej. SumForPair).
func CheckTotals(productID, storeID string, quantity, ledgerTotal int64) error {
	if quantity == ledgerTotal {
		return nil
	}
	return &Mismatch{ProductID: productID, StoreID: storeID, Quantity: quantity, LedgerTotal: ledgerTotal}
}

// Check verifica el invariante para un par usando los movimientos completos.
// Solo se consideran los movimientos del par indicado.
func Check(productID, storeID string, quantity int64, movements []*entity.StockMovement) error {
	var total int64
	for _, m := range movements {
		if m.ProductID != productID || m.StoreID != storeID {
			continue
		}
		total += Signed(m)
	}
	return CheckTotals(productID, storeID, quantity, total)
}
