package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y líneas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, invoice_number, store_id, customer_name, payment_method, notes,
	subtotal, discount_total, total, idempotency_key, created_by, created_at`

// Create inserta la cabecera. invoice_number e idempotency_key son únicos.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.InvoiceNumber, s.StoreID, s.CustomerName, s.PaymentMethod, s.Notes,
		s.Subtotal, s.DiscountTotal, s.Total, nullable(s.IdempotencyKey), s.CreatedBy, s.CreatedAt,
	)
	return wrapErr("insert sale", err)
}

// CreateItems inserta las líneas en un solo batch.
func (r *SaleRepo) CreateItems(ctx context.Context, items []*entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, discount, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.Discount, it.LineTotal,
		)
	}
	return execBatch(ctx, r.q, batch, len(items), "insert sale item")
}

// GetByID obtiene la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la venta con SELECT … FOR UPDATE. Un reverso concurrente
// espera aquí y, al continuar, ya no encuentra la venta.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

// GetByIdempotencyKey busca la venta registrada con esa clave.
func (r *SaleRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE idempotency_key = $1`, key)
}

// Delete elimina la venta; sale_items cae en cascada.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("venta %s", id)
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, query string, arg any) (*entity.Sale, error) {
	var s entity.Sale
	var key *string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.InvoiceNumber, &s.StoreID, &s.CustomerName, &s.PaymentMethod, &s.Notes,
		&s.Subtotal, &s.DiscountTotal, &s.Total, &key, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale", err)
	}
	s.IdempotencyKey = deref(key)

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, discount, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, s.ID)
	if err != nil {
		return nil, wrapErr("list sale items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Discount, &it.LineTotal); err != nil {
			return nil, wrapErr("scan sale item", err)
		}
		s.Items = append(s.Items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list sale items", err)
	}
	return &s, nil
}

// execBatch envía el batch y verifica cada sentencia.
func execBatch(ctx context.Context, q Querier, batch *pgx.Batch, n int, op string) error {
	br := q.SendBatch(ctx, batch)
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return wrapErr(op, err)
		}
	}
	return wrapErr(op, br.Close())
}
