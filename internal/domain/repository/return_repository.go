package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// ReturnRepository define el puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.Return) error
	CreateItems(ctx context.Context, items []*entity.ReturnItem) error
	// GetByID devuelve (nil, nil) si no existe; carga Items.
	GetByID(ctx context.Context, id string) (*entity.Return, error)
	// GetByIDForUpdate bloquea la devolución hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Return, error)
	UpdateStatus(ctx context.Context, ret *entity.Return) error
	Delete(ctx context.Context, id string) error
	ExistsForSale(ctx context.Context, saleID string) (bool, error)
}
