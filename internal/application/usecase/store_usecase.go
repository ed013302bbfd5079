package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// StoreUseCase casos de uso CRUD para tiendas.
type StoreUseCase struct {
	txRunner inventory.TxRunner
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(txRunner inventory.TxRunner) *StoreUseCase {
	return &StoreUseCase{txRunner: txRunner}
}

// Create crea una nueva tienda.
func (uc *StoreUseCase) Create(ctx context.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.Invalid("name requerido")
	}
	now := time.Now()
	store := &entity.Store{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		ManagerID: in.ManagerID,
		Active:    in.Active == nil || *in.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		return repos.Stores.Create(ctx, store)
	})
	if err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// GetByID obtiene una tienda por ID.
func (uc *StoreUseCase) GetByID(ctx context.Context, id string) (*dto.StoreResponse, error) {
	var store *entity.Store
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		var err error
		store, err = repos.Stores.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.NotFound("tienda %s", id)
	}
	return toStoreResponse(store), nil
}

// List lista tiendas con paginación.
func (uc *StoreUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.StoreListResponse, error) {
	page.DefaultPage()
	var list []*entity.Store
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		var err error
		list, err = repos.Stores.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toStoreResponse(s))
	}
	return &dto.StoreListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina una tienda sin filas de stock.
func (uc *StoreUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		store, err := repos.Stores.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.NotFound("tienda %s", id)
		}
		inUse, err := repos.Stock.HasRowsForStore(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return domain.Conflict("la tienda %s tiene stock registrado", store.Name)
		}
		return repos.Stores.Delete(ctx, id)
	})
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		ManagerID: s.ManagerID,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
