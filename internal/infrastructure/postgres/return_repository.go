package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo devoluciones sobre PostgreSQL.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create inserta la cabecera de la devolución.
func (r *ReturnRepo) Create(ctx context.Context, ret *entity.Return) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO returns (id, return_number, store_id, sale_id, status, reason, total_amount, refund_amount,
			created_by, approved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		ret.ID, ret.ReturnNumber, ret.StoreID, nullable(ret.SaleID), string(ret.Status), ret.Reason,
		ret.TotalAmount, ret.RefundAmount, ret.CreatedBy, nullable(ret.ApprovedBy), ret.CreatedAt, ret.UpdatedAt,
	)
	return wrapErr("insert return", err)
}

// CreateItems inserta las líneas en un batch.
func (r *ReturnRepo) CreateItems(ctx context.Context, items []*entity.ReturnItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO return_items (id, return_id, product_id, quantity, unit_price, condition)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.ReturnID, it.ProductID, it.Quantity, it.UnitPrice, string(it.Condition),
		)
	}
	return execBatch(ctx, r.q, batch, len(items), "insert return item")
}

const returnSelect = `SELECT id, return_number, store_id, sale_id, status, reason, total_amount,
	refund_amount, created_by, approved_by, created_at, updated_at
	FROM returns WHERE id = $1`

// GetByID obtiene la devolución con sus líneas.
func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*entity.Return, error) {
	return r.getOne(ctx, returnSelect, id)
}

// GetByIDForUpdate obtiene la devolución bloqueando su fila. Dos liquidaciones concurrentes
// se serializan y la segunda ve el estado ya confirmado.
func (r *ReturnRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Return, error) {
	return r.getOne(ctx, returnSelect+` FOR UPDATE`, id)
}

func (r *ReturnRepo) getOne(ctx context.Context, query, id string) (*entity.Return, error) {
	var ret entity.Return
	var saleID, approvedBy *string
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&ret.ID, &ret.ReturnNumber, &ret.StoreID, &saleID, &status, &ret.Reason,
		&ret.TotalAmount, &ret.RefundAmount, &ret.CreatedBy, &approvedBy, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get return", err)
	}
	ret.SaleID = deref(saleID)
	ret.ApprovedBy = deref(approvedBy)
	ret.Status = entity.ReturnStatus(status)

	rows, err := r.q.Query(ctx, `
		SELECT id, return_id, product_id, quantity, unit_price, condition
		FROM return_items WHERE return_id = $1 ORDER BY id`, ret.ID)
	if err != nil {
		return nil, wrapErr("list return items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.ReturnItem
		var cond string
		if err := rows.Scan(&it.ID, &it.ReturnID, &it.ProductID, &it.Quantity, &it.UnitPrice, &cond); err != nil {
			return nil, wrapErr("scan return item", err)
		}
		it.Condition = entity.ReturnItemCondition(cond)
		ret.Items = append(ret.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list return items", err)
	}
	return &ret, nil
}

// UpdateStatus persiste estado, aprobador y fecha de actualización.
func (r *ReturnRepo) UpdateStatus(ctx context.Context, ret *entity.Return) error {
	_, err := r.q.Exec(ctx, `
		UPDATE returns SET status = $2, approved_by = $3, updated_at = $4 WHERE id = $1`,
		ret.ID, string(ret.Status), nullable(ret.ApprovedBy), ret.UpdatedAt,
	)
	return wrapErr("update return status", err)
}

// Delete elimina la devolución; return_items cae en cascada.
func (r *ReturnRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM returns WHERE id = $1`, id)
	return wrapErr("delete return", err)
}

// ExistsForSale indica si alguna devolución referencia la venta.
func (r *ReturnRepo) ExistsForSale(ctx context.Context, saleID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM returns WHERE sale_id = $1)`, saleID).Scan(&exists)
	return exists, wrapErr("return exists for sale", err)
}
