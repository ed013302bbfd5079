package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// ApplyDelta y SetExact bloquean la fila del par (SELECT … FOR UPDATE) hasta el fin de la transacción.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una tienda; fila ausente ⇒ cantidad 0.
func (r *StockRepo) Get(ctx context.Context, productID, storeID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, store_id, quantity, reserved_quantity, last_updated, updated_by
		FROM stock WHERE product_id = $1 AND store_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, storeID).Scan(
		&s.ProductID, &s.StoreID, &s.Quantity, &s.ReservedQuantity, &s.LastUpdated, &s.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, StoreID: storeID}, nil
		}
		return nil, wrapErr("get stock", err)
	}
	return &s, nil
}

// GetQuantity devuelve la cantidad o 0 si no hay fila.
func (r *StockRepo) GetQuantity(ctx context.Context, productID, storeID string) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE((SELECT quantity FROM stock WHERE product_id = $1 AND store_id = $2), 0)`,
		productID, storeID,
	).Scan(&qty)
	if err != nil {
		return 0, wrapErr("get stock quantity", err)
	}
	return qty, nil
}

// ApplyDelta suma delta recortando en 0 y devuelve (anterior, nuevo).
func (r *StockRepo) ApplyDelta(ctx context.Context, productID, storeID string, delta int64, actor string) (int64, int64, error) {
	previous, err := r.lockRow(ctx, productID, storeID, actor)
	if err != nil {
		return 0, 0, err
	}
	var current int64
	err = r.q.QueryRow(ctx, `
		UPDATE stock
		SET quantity = GREATEST(0, quantity + $3::bigint), last_updated = now(), updated_by = $4
		WHERE product_id = $1 AND store_id = $2
		RETURNING quantity`,
		productID, storeID, delta, actor,
	).Scan(&current)
	if err != nil {
		return 0, 0, wrapErr("apply stock delta", err)
	}
	return previous, current, nil
}

// SetExact fija la cantidad; con expected actúa como compare-and-swap.
func (r *StockRepo) SetExact(ctx context.Context, productID, storeID string, quantity int64, expected *int64, actor string) error {
	if quantity < 0 {
		return domain.Invalid("cantidad negativa")
	}
	current, err := r.lockRow(ctx, productID, storeID, actor)
	if err != nil {
		return err
	}
	if expected != nil && *expected != current {
		return domain.Conflict("stock actual %d, se esperaba %d", current, *expected)
	}
	_, err = r.q.Exec(ctx, `
		UPDATE stock SET quantity = $3, last_updated = now(), updated_by = $4
		WHERE product_id = $1 AND store_id = $2`,
		productID, storeID, quantity, actor,
	)
	return wrapErr("set stock", err)
}

// HasRowsForProduct indica si el producto tiene stock registrado en alguna tienda.
func (r *StockRepo) HasRowsForProduct(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock WHERE product_id = $1)`, productID).Scan(&exists)
	return exists, wrapErr("stock exists for product", err)
}

// HasRowsForStore indica si la tienda tiene filas de stock.
func (r *StockRepo) HasRowsForStore(ctx context.Context, storeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock WHERE store_id = $1)`, storeID).Scan(&exists)
	return exists, wrapErr("stock exists for store", err)
}

// lockRow crea la fila en 0 si no existe y la bloquea; devuelve la cantidad actual.
func (r *StockRepo) lockRow(ctx context.Context, productID, storeID, actor string) (int64, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, store_id, quantity, last_updated, updated_by)
		VALUES ($1, $2, 0, now(), $3)
		ON CONFLICT (product_id, store_id) DO NOTHING`,
		productID, storeID, actor,
	)
	if err != nil {
		return 0, wrapErr("ensure stock row", err)
	}
	var qty int64
	err = r.q.QueryRow(ctx,
		`SELECT quantity FROM stock WHERE product_id = $1 AND store_id = $2 FOR UPDATE`,
		productID, storeID,
	).Scan(&qty)
	if err != nil {
		return 0, wrapErr("lock stock row", err)
	}
	return qty, nil
}
