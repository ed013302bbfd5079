package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// stockChange describe un cambio de stock originado por un evento de negocio.
type stockChange struct {
	ProductID string
	StoreID   string
	Delta     int64 // positivo = entrada, negativo = salida
	RefType   entity.ReferenceType
	RefID     string
	Actor     string
	Notes     string
	Now       time.Time
}

// moveStock aplica el delta en el Stock Store (atómico, recorta en 0) y registra en el libro
// la magnitud efectivamente aplicada, de modo que stock == Σ libro se mantiene aun con sobreventa.
// Debe llamarse con repos atados a la transacción del caso de uso.
func moveStock(ctx context.Context, repos Repos, ch stockChange) (*entity.StockMovement, error) {
	if ch.Delta == 0 {
		return nil, nil
	}
	previous, current, err := repos.Stock.ApplyDelta(ctx, ch.ProductID, ch.StoreID, ch.Delta, ch.Actor)
	if err != nil {
		return nil, err
	}

	movType := entity.MovementTypeIN
	if ch.Delta < 0 {
		movType = entity.MovementTypeOUT
	}
	applied := abs(current - previous)
	mov := entity.NewMovement(movType, ch.ProductID, ch.StoreID, applied, ch.RefType, ch.RefID, ch.Actor, ch.Now)
	mov.Notes = ch.Notes
	if applied != abs(ch.Delta) {
		// Salida mayor que el stock disponible: se recortó en 0.
		mov.Notes = joinNotes(ch.Notes, fmt.Sprintf("solicitado %d, aplicado %d (stock recortado en 0)", abs(ch.Delta), applied))
	}
	if err := repos.Movements.Append(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// recordUntracked registra una salida en el libro sin tocar el Stock Store
// (AffectsStock=false). Se usa para devoluciones en mal estado.
func recordUntracked(ctx context.Context, repos Repos, ch stockChange) (*entity.StockMovement, error) {
	mov := entity.NewMovement(entity.MovementTypeOUT, ch.ProductID, ch.StoreID, abs(ch.Delta), ch.RefType, ch.RefID, ch.Actor, ch.Now)
	mov.AffectsStock = false
	mov.Notes = ch.Notes
	if err := repos.Movements.Append(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func joinNotes(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
