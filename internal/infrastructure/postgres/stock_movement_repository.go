package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// No existe UPDATE ni DELETE: las filas son inmutables.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, store_id, movement_type, direction, quantity, affects_stock,
	reference_type, reference_id, notes, created_by, created_at`

// Append inserta un movimiento.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	if !m.Validate() {
		return domain.Invalid("movimiento inválido: %s/%s", m.Type, m.Direction)
	}
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.StoreID, string(m.Type), string(m.Direction), m.Quantity, m.AffectsStock,
		string(m.ReferenceType), m.ReferenceID, m.Notes, m.CreatedBy, m.CreatedAt,
	)
	return wrapErr("append stock movement", err)
}

// SumForPair suma con signo los movimientos que afectan stock.
func (r *StockMovementRepo) SumForPair(ctx context.Context, productID, storeID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE
			WHEN NOT affects_stock THEN 0
			WHEN direction = 'DECREASE' THEN -quantity
			ELSE quantity END), 0)::bigint
		FROM stock_movements WHERE product_id = $1 AND store_id = $2`,
		productID, storeID,
	).Scan(&total)
	if err != nil {
		return 0, wrapErr("sum stock movements", err)
	}
	return total, nil
}

// ListByPair movimientos del par, más recientes primero.
func (r *StockMovementRepo) ListByPair(ctx context.Context, productID, storeID string, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = $1 AND store_id = $2 ORDER BY seq DESC LIMIT $3 OFFSET $4`,
		productID, storeID, limit, offset)
	if err != nil {
		return nil, wrapErr("list movements by pair", err)
	}
	return collectMovements(rows)
}

// ListByReference movimientos de un documento en orden de inserción.
func (r *StockMovementRepo) ListByReference(ctx context.Context, refType entity.ReferenceType, refID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE reference_type = $1 AND reference_id = $2 ORDER BY seq`,
		string(refType), refID)
	if err != nil {
		return nil, wrapErr("list movements by reference", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		var movType, dir, refType string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.StoreID, &movType, &dir, &m.Quantity, &m.AffectsStock,
			&refType, &m.ReferenceID, &m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, wrapErr("scan stock movement", err)
		}
		m.Type = entity.MovementType(movType)
		m.Direction = entity.MovementDirection(dir)
		m.ReferenceType = entity.ReferenceType(refType)
		list = append(list, &m)
	}
	return list, wrapErr("list stock movements", rows.Err())
}
