package repository

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store (DIP).
// GetByID devuelve (nil, nil) si no existe.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Store, error)
	Delete(ctx context.Context, id string) error
}
