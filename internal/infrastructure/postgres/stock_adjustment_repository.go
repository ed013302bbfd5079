package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo ajustes de inventario sobre PostgreSQL.
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

// Create inserta la cabecera del ajuste.
func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_adjustments (id, adjustment_number, store_id, adjustment_type, status, reason, notes,
			created_by, approved_by, approved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.AdjustmentNumber, a.StoreID, string(a.Type), string(a.Status), a.Reason, a.Notes,
		a.CreatedBy, nullable(a.ApprovedBy), a.ApprovedAt, a.CreatedAt, a.UpdatedAt,
	)
	return wrapErr("insert stock adjustment", err)
}

// CreateItem inserta el detalle del ajuste.
func (r *StockAdjustmentRepo) CreateItem(ctx context.Context, it *entity.StockAdjustmentItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_adjustment_items (id, adjustment_id, product_id, old_quantity, new_quantity,
			quantity_difference, unit_cost, value_impact)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		it.ID, it.AdjustmentID, it.ProductID, it.OldQuantity, it.NewQuantity,
		it.QuantityDifference, it.UnitCost, it.ValueImpact,
	)
	return wrapErr("insert stock adjustment item", err)
}

const adjustmentSelect = `SELECT id, adjustment_number, store_id, adjustment_type, status, reason, notes,
	created_by, approved_by, approved_at, created_at, updated_at
	FROM stock_adjustments WHERE id = $1`

// GetByID obtiene el ajuste con su detalle.
func (r *StockAdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	return r.getOne(ctx, adjustmentSelect, id)
}

// GetByIDForUpdate obtiene el ajuste bloqueando su fila hasta el fin de la transacción.
func (r *StockAdjustmentRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	return r.getOne(ctx, adjustmentSelect+` FOR UPDATE`, id)
}

func (r *StockAdjustmentRepo) getOne(ctx context.Context, query, id string) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	var adjType, status string
	var approvedBy *string
	var approvedAt *time.Time
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.AdjustmentNumber, &a.StoreID, &adjType, &status, &a.Reason, &a.Notes,
		&a.CreatedBy, &approvedBy, &approvedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock adjustment", err)
	}
	a.Type = entity.AdjustmentType(adjType)
	a.Status = entity.AdjustmentStatus(status)
	a.ApprovedBy = deref(approvedBy)
	a.ApprovedAt = approvedAt

	rows, err := r.q.Query(ctx, `
		SELECT id, adjustment_id, product_id, old_quantity, new_quantity, quantity_difference, unit_cost, value_impact
		FROM stock_adjustment_items WHERE adjustment_id = $1 ORDER BY id`, a.ID)
	if err != nil {
		return nil, wrapErr("list stock adjustment items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockAdjustmentItem
		if err := rows.Scan(&it.ID, &it.AdjustmentID, &it.ProductID, &it.OldQuantity, &it.NewQuantity,
			&it.QuantityDifference, &it.UnitCost, &it.ValueImpact); err != nil {
			return nil, wrapErr("scan stock adjustment item", err)
		}
		a.Items = append(a.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list stock adjustment items", err)
	}
	return &a, nil
}

// UpdateStatus persiste estado y datos de aprobación.
func (r *StockAdjustmentRepo) UpdateStatus(ctx context.Context, a *entity.StockAdjustment) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stock_adjustments SET status = $2, approved_by = $3, approved_at = $4, updated_at = $5
		WHERE id = $1`,
		a.ID, string(a.Status), nullable(a.ApprovedBy), a.ApprovedAt, a.UpdatedAt,
	)
	return wrapErr("update stock adjustment status", err)
}
