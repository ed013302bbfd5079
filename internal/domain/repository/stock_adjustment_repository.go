package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// StockAdjustmentRepository define el puerto de persistencia para ajustes de inventario.
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) error
	CreateItem(ctx context.Context, item *entity.StockAdjustmentItem) error
	// GetByID devuelve (nil, nil) si no existe; carga Items.
	GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error)
	// GetByIDForUpdate bloquea el ajuste hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error)
	UpdateStatus(ctx context.Context, adj *entity.StockAdjustment) error
}
