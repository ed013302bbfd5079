package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// StockRepository define el puerto del Stock Store (cantidad por producto+tienda).
// Usado dentro de transacciones para garantizar consistencia con el libro.
type StockRepository interface {
	// Get devuelve la fila; si no existe, una fila en cero (nunca error por ausencia).
	Get(ctx context.Context, productID, storeID string) (*entity.Stock, error)
	// GetQuantity devuelve la cantidad actual o 0 si no hay fila.
	GetQuantity(ctx context.Context, productID, storeID string) (int64, error)
	// ApplyDelta suma delta de forma atómica, recortando en 0. Devuelve el valor anterior y el nuevo.
	ApplyDelta(ctx context.Context, productID, storeID string, delta int64, actor string) (previous, current int64, err error)
	// SetExact fija la cantidad. Si expected no es nil actúa como compare-and-swap y devuelve
	// domain.ErrConflict cuando el valor actual difiere (fila ausente cuenta como 0).
	SetExact(ctx context.Context, productID, storeID string, quantity int64, expected *int64, actor string) error
	HasRowsForProduct(ctx context.Context, productID string) (bool, error)
	HasRowsForStore(ctx context.Context, storeID string) (bool, error)
}
