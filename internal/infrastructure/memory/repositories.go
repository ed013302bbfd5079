package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/ledger"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository         = (*ProductRepository)(nil)
	_ repository.StoreRepository           = (*StoreRepository)(nil)
	_ repository.StockRepository           = (*StockRepository)(nil)
	_ repository.StockMovementRepository   = (*StockMovementRepository)(nil)
	_ repository.SaleRepository            = (*SaleRepository)(nil)
	_ repository.ReturnRepository          = (*ReturnRepository)(nil)
	_ repository.StockAdjustmentRepository = (*StockAdjustmentRepository)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

// ── Productos ─────────────────────────────────────────────────────────────────

// ProductRepository catálogo de productos en memoria.
type ProductRepository struct{ s *state }

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; ok {
		return domain.Conflict("producto %s ya existe", p.ID)
	}
	for _, existing := range r.s.products {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return domain.Conflict("sku %s ya existe", p.SKU)
		}
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *ProductRepository) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		c := *p
		list = append(list, &c)
	}
	slices.SortFunc(list, func(a, b *entity.Product) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return page(list, limit, offset), nil
}

// Delete falla con ErrConflict si algún registro referencia el producto, igual que la FK en PostgreSQL.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	if r.s.productInUse(id) {
		return domain.Conflict("producto %s referenciado por otros registros", id)
	}
	delete(r.s.products, id)
	return nil
}

// ── Tiendas ───────────────────────────────────────────────────────────────────

// StoreRepository tiendas en memoria.
type StoreRepository struct{ s *state }

func (r *StoreRepository) Create(_ context.Context, st *entity.Store) error {
	if _, ok := r.s.stores[st.ID]; ok {
		return domain.Conflict("tienda %s ya existe", st.ID)
	}
	c := *st
	r.s.stores[st.ID] = &c
	return nil
}

func (r *StoreRepository) GetByID(_ context.Context, id string) (*entity.Store, error) {
	st, ok := r.s.stores[id]
	if !ok {
		return nil, nil
	}
	c := *st
	return &c, nil
}

func (r *StoreRepository) List(_ context.Context, limit, offset int) ([]*entity.Store, error) {
	list := make([]*entity.Store, 0, len(r.s.stores))
	for _, st := range r.s.stores {
		c := *st
		list = append(list, &c)
	}
	slices.SortFunc(list, func(a, b *entity.Store) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return page(list, limit, offset), nil
}

// Delete falla con ErrConflict si algún registro referencia la tienda.
func (r *StoreRepository) Delete(_ context.Context, id string) error {
	if r.s.storeInUse(id) {
		return domain.Conflict("tienda %s referenciada por otros registros", id)
	}
	delete(r.s.stores, id)
	return nil
}

func (s *state) productInUse(id string) bool {
	for k := range s.stock {
		if k.productID == id {
			return true
		}
	}
	for _, m := range s.movements {
		if m.ProductID == id {
			return true
		}
	}
	for _, sale := range s.sales {
		for _, it := range sale.Items {
			if it.ProductID == id {
				return true
			}
		}
	}
	for _, ret := range s.returns {
		for _, it := range ret.Items {
			if it.ProductID == id {
				return true
			}
		}
	}
	for _, adj := range s.adjustments {
		for _, it := range adj.Items {
			if it.ProductID == id {
				return true
			}
		}
	}
	return false
}

func (s *state) storeInUse(id string) bool {
	for k := range s.stock {
		if k.storeID == id {
			return true
		}
	}
	for _, m := range s.movements {
		if m.StoreID == id {
			return true
		}
	}
	for _, sale := range s.sales {
		if sale.StoreID == id {
			return true
		}
	}
	for _, ret := range s.returns {
		if ret.StoreID == id {
			return true
		}
	}
	for _, adj := range s.adjustments {
		if adj.StoreID == id {
			return true
		}
	}
	return false
}

// ── Stock ─────────────────────────────────────────────────────────────────────

// StockRepository cantidades por par producto+tienda.
type StockRepository struct{ s *state }

func (r *StockRepository) Get(_ context.Context, productID, storeID string) (*entity.Stock, error) {
	st, ok := r.s.stock[pairKey{productID, storeID}]
	if !ok {
		return &entity.Stock{ProductID: productID, StoreID: storeID}, nil
	}
	c := *st
	return &c, nil
}

func (r *StockRepository) GetQuantity(_ context.Context, productID, storeID string) (int64, error) {
	if st, ok := r.s.stock[pairKey{productID, storeID}]; ok {
		return st.Quantity, nil
	}
	return 0, nil
}

func (r *StockRepository) ApplyDelta(_ context.Context, productID, storeID string, delta int64, actor string) (int64, int64, error) {
	st := r.row(productID, storeID)
	previous := st.Quantity
	st.Quantity = max(0, previous+delta)
	st.LastUpdated = time.Now()
	st.UpdatedBy = actor
	return previous, st.Quantity, nil
}

func (r *StockRepository) SetExact(_ context.Context, productID, storeID string, quantity int64, expected *int64, actor string) error {
	if quantity < 0 {
		return domain.Invalid("cantidad negativa")
	}
	var current int64
	if st, ok := r.s.stock[pairKey{productID, storeID}]; ok {
		current = st.Quantity
	}
	if expected != nil && *expected != current {
		return domain.Conflict("stock actual %d, se esperaba %d", current, *expected)
	}
	st := r.row(productID, storeID)
	st.Quantity = quantity
	st.LastUpdated = time.Now()
	st.UpdatedBy = actor
	return nil
}

func (r *StockRepository) HasRowsForProduct(_ context.Context, productID string) (bool, error) {
	for k := range r.s.stock {
		if k.productID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *StockRepository) HasRowsForStore(_ context.Context, storeID string) (bool, error) {
	for k := range r.s.stock {
		if k.storeID == storeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *StockRepository) row(productID, storeID string) *entity.Stock {
	k := pairKey{productID, storeID}
	st, ok := r.s.stock[k]
	if !ok {
		st = &entity.Stock{ProductID: productID, StoreID: storeID}
		r.s.stock[k] = st
	}
	return st
}

// ── Libro de movimientos ──────────────────────────────────────────────────────

// StockMovementRepository libro de solo inserción.
type StockMovementRepository struct{ s *state }

func (r *StockMovementRepository) Append(_ context.Context, m *entity.StockMovement) error {
	if !m.Validate() {
		return domain.Invalid("movimiento inválido: %s/%s", m.Type, m.Direction)
	}
	c := *m
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *StockMovementRepository) SumForPair(_ context.Context, productID, storeID string) (int64, error) {
	var total int64
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.StoreID == storeID {
			total += ledger.Signed(m)
		}
	}
	return total, nil
}

// ListByPair devuelve los movimientos del par, más recientes primero.
func (r *StockMovementRepository) ListByPair(_ context.Context, productID, storeID string, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ProductID == productID && m.StoreID == storeID {
			c := *m
			list = append(list, &c)
		}
	}
	return page(list, limit, offset), nil
}

// ListByReference devuelve los movimientos de un documento en orden de inserción.
func (r *StockMovementRepository) ListByReference(_ context.Context, refType entity.ReferenceType, refID string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ReferenceType == refType && m.ReferenceID == refID {
			c := *m
			list = append(list, &c)
		}
	}
	return list, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// SaleRepository ventas y líneas.
type SaleRepository struct{ s *state }

func (r *SaleRepository) Create(_ context.Context, sale *entity.Sale) error {
	for _, existing := range r.s.sales {
		if existing.InvoiceNumber == sale.InvoiceNumber {
			return domain.Conflict("factura %s ya existe", sale.InvoiceNumber)
		}
		if sale.IdempotencyKey != "" && existing.IdempotencyKey == sale.IdempotencyKey {
			return domain.Conflict("idempotency key %q ya usada", sale.IdempotencyKey)
		}
	}
	c := *sale
	c.Items = nil
	r.s.sales[sale.ID] = &c
	return nil
}

func (r *SaleRepository) CreateItems(_ context.Context, items []*entity.SaleItem) error {
	for _, it := range items {
		sale, ok := r.s.sales[it.SaleID]
		if !ok {
			return domain.NotFound("venta %s", it.SaleID)
		}
		c := *it
		sale.Items = append(sale.Items, &c)
	}
	return nil
}

func (r *SaleRepository) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return copySale(sale), nil
}

// GetByIDForUpdate: las transacciones en memoria ya están serializadas.
func (r *SaleRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepository) GetByIdempotencyKey(_ context.Context, key string) (*entity.Sale, error) {
	for _, sale := range r.s.sales {
		if sale.IdempotencyKey != "" && sale.IdempotencyKey == key {
			return copySale(sale), nil
		}
	}
	return nil, nil
}

func (r *SaleRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.s.sales[id]; !ok {
		return domain.NotFound("venta %s", id)
	}
	delete(r.s.sales, id)
	return nil
}

// ── Devoluciones ──────────────────────────────────────────────────────────────

// ReturnRepository devoluciones y líneas.
type ReturnRepository struct{ s *state }

func (r *ReturnRepository) Create(_ context.Context, ret *entity.Return) error {
	for _, existing := range r.s.returns {
		if existing.ReturnNumber == ret.ReturnNumber {
			return domain.Conflict("devolución %s ya existe", ret.ReturnNumber)
		}
	}
	c := *ret
	c.Items = nil
	r.s.returns[ret.ID] = &c
	return nil
}

func (r *ReturnRepository) CreateItems(_ context.Context, items []*entity.ReturnItem) error {
	for _, it := range items {
		ret, ok := r.s.returns[it.ReturnID]
		if !ok {
			return domain.NotFound("devolución %s", it.ReturnID)
		}
		c := *it
		ret.Items = append(ret.Items, &c)
	}
	return nil
}

func (r *ReturnRepository) GetByID(_ context.Context, id string) (*entity.Return, error) {
	ret, ok := r.s.returns[id]
	if !ok {
		return nil, nil
	}
	return copyReturn(ret), nil
}

func (r *ReturnRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Return, error) {
	return r.GetByID(ctx, id)
}

func (r *ReturnRepository) UpdateStatus(_ context.Context, ret *entity.Return) error {
	stored, ok := r.s.returns[ret.ID]
	if !ok {
		return domain.NotFound("devolución %s", ret.ID)
	}
	stored.Status = ret.Status
	stored.ApprovedBy = ret.ApprovedBy
	stored.UpdatedAt = ret.UpdatedAt
	return nil
}

func (r *ReturnRepository) Delete(_ context.Context, id string) error {
	delete(r.s.returns, id)
	return nil
}

func (r *ReturnRepository) ExistsForSale(_ context.Context, saleID string) (bool, error) {
	for _, ret := range r.s.returns {
		if ret.SaleID == saleID {
			return true, nil
		}
	}
	return false, nil
}

// ── Ajustes ───────────────────────────────────────────────────────────────────

// StockAdjustmentRepository ajustes y su detalle.
type StockAdjustmentRepository struct{ s *state }

func (r *StockAdjustmentRepository) Create(_ context.Context, adj *entity.StockAdjustment) error {
	for _, existing := range r.s.adjustments {
		if existing.AdjustmentNumber == adj.AdjustmentNumber {
			return domain.Conflict("ajuste %s ya existe", adj.AdjustmentNumber)
		}
	}
	c := copyAdjustment(adj)
	c.Items = nil
	r.s.adjustments[adj.ID] = c
	return nil
}

func (r *StockAdjustmentRepository) CreateItem(_ context.Context, item *entity.StockAdjustmentItem) error {
	adj, ok := r.s.adjustments[item.AdjustmentID]
	if !ok {
		return domain.NotFound("ajuste %s", item.AdjustmentID)
	}
	c := *item
	adj.Items = append(adj.Items, &c)
	return nil
}

func (r *StockAdjustmentRepository) GetByID(_ context.Context, id string) (*entity.StockAdjustment, error) {
	adj, ok := r.s.adjustments[id]
	if !ok {
		return nil, nil
	}
	return copyAdjustment(adj), nil
}

func (r *StockAdjustmentRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	return r.GetByID(ctx, id)
}

func (r *StockAdjustmentRepository) UpdateStatus(_ context.Context, adj *entity.StockAdjustment) error {
	stored, ok := r.s.adjustments[adj.ID]
	if !ok {
		return domain.NotFound("ajuste %s", adj.ID)
	}
	stored.Status = adj.Status
	stored.ApprovedBy = adj.ApprovedBy
	stored.ApprovedAt = adj.ApprovedAt
	stored.UpdatedAt = adj.UpdatedAt
	return nil
}
