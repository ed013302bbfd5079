package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
)

const (
	cashier    = "user-cajera"
	supervisor = "user-supervisor"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// seqNumbers numeración determinista para los tests.
type seqNumbers struct{ n int }

func (s *seqNumbers) Next(prefix string, _ time.Time) string {
	s.n++
	return fmt.Sprintf("%s-%04d", prefix, s.n)
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	tx        inventory.TxRunner
	opts      inventory.Options
	productID string
	storeID   string
}

// newFixture crea una tienda y un producto (costo 1000) sobre la base en memoria.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:   t,
		ctx: context.Background(),
		tx:  memory.NewTxRunner(memory.NewStore()),
		opts: inventory.Options{
			Numbers: &seqNumbers{},
			Now:     func() time.Time { return testNow },
		},
		productID: "prod-cafe",
		storeID:   "store-centro",
	}
	f.addStore(f.storeID, true)
	f.addProduct(f.productID, "CAF-500", true)
	return f
}

func (f *fixture) addStore(id string, active bool) {
	f.t.Helper()
	require.NoError(f.t, f.tx.Run(f.ctx, func(r inventory.Repos) error {
		return r.Stores.Create(f.ctx, &entity.Store{ID: id, Name: "Tienda " + id, Active: active, CreatedAt: testNow, UpdatedAt: testNow})
	}))
}

func (f *fixture) addProduct(id, sku string, active bool) {
	f.t.Helper()
	require.NoError(f.t, f.tx.Run(f.ctx, func(r inventory.Repos) error {
		return r.Products.Create(f.ctx, &entity.Product{
			ID: id, SKU: sku, Name: "Producto " + sku,
			CostPrice: decimal.NewFromInt(1000), SellingPrice: decimal.NewFromInt(2500),
			Active: active, CreatedAt: testNow, UpdatedAt: testNow,
		})
	}))
}

func (f *fixture) sales() *inventory.SaleUseCase {
	return inventory.NewSaleUseCase(f.tx, nil, f.opts)
}

func (f *fixture) returns() *inventory.ReturnUseCase {
	return inventory.NewReturnUseCase(f.tx, f.opts)
}

func (f *fixture) adjustments(policy inventory.ApprovalPolicy) *inventory.AdjustmentUseCase {
	return inventory.NewAdjustmentUseCase(f.tx, policy, f.opts)
}

func (f *fixture) stockUC() *inventory.StockUseCase {
	return inventory.NewStockUseCase(f.tx)
}

// setStock fija el stock con un ajuste aprobado, dejando el libro consistente.
func (f *fixture) setStock(qty int64) {
	f.t.Helper()
	current := f.quantity()
	_, err := f.adjustments(nil).ApplyAdjustment(f.ctx, cashier, dto.ApplyAdjustmentRequest{
		ProductID: f.productID, StoreID: f.storeID,
		OldQuantity: &current, NewQuantity: &qty, Reason: "inventario inicial",
	})
	require.NoError(f.t, err)
}

func (f *fixture) quantity() int64 {
	f.t.Helper()
	st, err := f.stockUC().GetQuantity(f.ctx, f.productID, f.storeID)
	require.NoError(f.t, err)
	return st.Quantity
}

func (f *fixture) movements() []*entity.StockMovement {
	f.t.Helper()
	var movs []*entity.StockMovement
	require.NoError(f.t, f.tx.Run(f.ctx, func(r inventory.Repos) error {
		var err error
		movs, err = r.Movements.ListByPair(f.ctx, f.productID, f.storeID, 1000, 0)
		return err
	}))
	return movs
}

func (f *fixture) requireConsistent() {
	f.t.Helper()
	check, err := f.stockUC().VerifyPair(f.ctx, f.productID, f.storeID)
	require.NoError(f.t, err)
	require.True(f.t, check.Consistent, "stock=%d libro=%d", check.Quantity, check.LedgerTotal)
}

func (f *fixture) saleOf(qty int64, price string) dto.CommitSaleRequest {
	p := decimal.RequireFromString(price)
	return dto.CommitSaleRequest{
		StoreID: f.storeID,
		Items:   []dto.SaleItemRequest{{ProductID: f.productID, Quantity: qty, UnitPrice: &p}},
	}
}

func (f *fixture) returnOf(status string, items ...dto.ReturnItemRequest) dto.CreateReturnRequest {
	return dto.CreateReturnRequest{StoreID: f.storeID, Status: status, Items: items}
}

func (f *fixture) returnItem(qty int64, condition string) dto.ReturnItemRequest {
	p := decimal.NewFromInt(2500)
	return dto.ReturnItemRequest{ProductID: f.productID, Quantity: qty, UnitPrice: &p, Condition: condition}
}

func ptr[T any](v T) *T { return &v }

// ── Fallos inyectados ─────────────────────────────────────────────────────────

var errLedgerDown = errors.New("libro no disponible")

// failingTx envuelve un TxRunner y hace fallar el libro a partir del append número failAt.
type failingTx struct {
	inner  inventory.TxRunner
	failAt int
}

func (f *failingTx) Run(ctx context.Context, fn func(inventory.Repos) error) error {
	return f.inner.Run(ctx, func(r inventory.Repos) error {
		r.Movements = &failingMovements{StockMovementRepository: r.Movements, failAt: f.failAt}
		return fn(r)
	})
}

type failingMovements struct {
	repository.StockMovementRepository
	failAt int
	calls  int
}

func (m *failingMovements) Append(ctx context.Context, mov *entity.StockMovement) error {
	m.calls++
	if m.calls >= m.failAt {
		return errLedgerDown
	}
	return m.StockMovementRepository.Append(ctx, mov)
}

// missedKeyTx simula la carrera entre dos reintentos: la primera búsqueda por clave de
// idempotencia no encuentra la venta que otra transacción ya confirmó.
type missedKeyTx struct {
	inner   inventory.TxRunner
	lookups int
}

func (m *missedKeyTx) Run(ctx context.Context, fn func(inventory.Repos) error) error {
	return m.inner.Run(ctx, func(r inventory.Repos) error {
		r.Sales = &missedKeySales{SaleRepository: r.Sales, tx: m}
		return fn(r)
	})
}

type missedKeySales struct {
	repository.SaleRepository
	tx *missedKeyTx
}

func (s *missedKeySales) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error) {
	s.tx.lookups++
	if s.tx.lookups == 1 {
		return nil, nil
	}
	return s.SaleRepository.GetByIdempotencyKey(ctx, key)
}

// lockTrackingTx cuenta las lecturas con bloqueo de fila de ventas, devoluciones y ajustes.
type lockTrackingTx struct {
	inner inventory.TxRunner
	locks []string
}

func (l *lockTrackingTx) Run(ctx context.Context, fn func(inventory.Repos) error) error {
	return l.inner.Run(ctx, func(r inventory.Repos) error {
		r.Sales = &lockedSales{SaleRepository: r.Sales, tx: l}
		r.Returns = &lockedReturns{ReturnRepository: r.Returns, tx: l}
		r.Adjustments = &lockedAdjustments{StockAdjustmentRepository: r.Adjustments, tx: l}
		return fn(r)
	})
}

type lockedSales struct {
	repository.SaleRepository
	tx *lockTrackingTx
}

func (s *lockedSales) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	s.tx.locks = append(s.tx.locks, "sale:"+id)
	return s.SaleRepository.GetByIDForUpdate(ctx, id)
}

type lockedReturns struct {
	repository.ReturnRepository
	tx *lockTrackingTx
}

func (s *lockedReturns) GetByIDForUpdate(ctx context.Context, id string) (*entity.Return, error) {
	s.tx.locks = append(s.tx.locks, "return:"+id)
	return s.ReturnRepository.GetByIDForUpdate(ctx, id)
}

type lockedAdjustments struct {
	repository.StockAdjustmentRepository
	tx *lockTrackingTx
}

func (s *lockedAdjustments) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	s.tx.locks = append(s.tx.locks, "adjustment:"+id)
	return s.StockAdjustmentRepository.GetByIDForUpdate(ctx, id)
}
