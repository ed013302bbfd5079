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

// ProductUseCase casos de uso del catálogo de productos. El stock no se toca aquí:
// se maneja por tienda mediante ventas, devoluciones y ajustes.
type ProductUseCase struct {
	txRunner inventory.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner}
}

// Create crea un nuevo producto. SKU duplicado ⇒ domain.ErrConflict (índice único).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, domain.Invalid("sku y name son requeridos")
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, domain.Invalid("los precios no pueden ser negativos")
	}
	if in.MinStockLevel < 0 || in.ReorderPoint < 0 {
		return nil, domain.Invalid("min_stock_level y reorder_point no pueden ser negativos")
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		CostPrice:     in.CostPrice,
		SellingPrice:  in.SellingPrice,
		MinStockLevel: in.MinStockLevel,
		ReorderPoint:  in.ReorderPoint,
		Active:        in.Active == nil || *in.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		var err error
		product, err = repos.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto %s", id)
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	var list []*entity.Product
	err := uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		var err error
		list, err = repos.Products.List(ctx, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto sin filas de stock en ninguna tienda.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(repos inventory.Repos) error {
		product, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto %s", id)
		}
		inUse, err := repos.Stock.HasRowsForProduct(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return domain.Conflict("el producto %s tiene stock registrado", product.SKU)
		}
		return repos.Products.Delete(ctx, id)
	})
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		MinStockLevel: p.MinStockLevel,
		ReorderPoint:  p.ReorderPoint,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
