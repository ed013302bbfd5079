package inventory

import (
	"context"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products    repository.ProductRepository
	Stores      repository.StoreRepository
	Stock       repository.StockRepository
	Movements   repository.StockMovementRepository
	Sales       repository.SaleRepository
	Returns     repository.ReturnRepository
	Adjustments repository.StockAdjustmentRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo: registro, líneas, stock y libro.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// ReceiptGenerator genera el comprobante PDF de una venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale, store *entity.Store, products map[string]*entity.Product) ([]byte, error)
}
