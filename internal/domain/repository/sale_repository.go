package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// GetByID y GetByIdempotencyKey devuelven (nil, nil) si no existe; ambos cargan Items.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItems(ctx context.Context, items []*entity.SaleItem) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetByIDForUpdate como GetByID, pero bloquea la venta hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error)
	// Delete elimina la venta; las líneas caen en cascada. ErrNotFound si no existía.
	Delete(ctx context.Context, id string) error
}
