package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos (solo inserción).
type StockMovementRepository interface {
	Append(ctx context.Context, movement *entity.StockMovement) error
	// SumForPair suma las contribuciones con signo (ver ledger.Signed) del par.
	SumForPair(ctx context.Context, productID, storeID string) (int64, error)
	ListByPair(ctx context.Context, productID, storeID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(ctx context.Context, refType entity.ReferenceType, refID string) ([]*entity.StockMovement, error)
}
