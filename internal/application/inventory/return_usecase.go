package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// ReturnUseCase gestiona el ciclo PENDING → {APPROVED, REJECTED} de las devoluciones.
// Solo la aprobación toca inventario y lo hace en la misma transacción que el cambio de estado.
type ReturnUseCase struct {
	txRunner TxRunner
	opts     Options
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(txRunner TxRunner, opts Options) *ReturnUseCase {
	return &ReturnUseCase{txRunner: txRunner, opts: opts.withDefaults()}
}

// CreateReturn registra la devolución y sus líneas. Si el estado inicial ya es APPROVED o
// COMPLETED, el movimiento de stock se aplica de inmediato.
func (uc *ReturnUseCase) CreateReturn(ctx context.Context, actor string, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	status, err := validateReturn(actor, in)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, it := range in.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	refund := total
	if in.RefundAmount != nil {
		if in.RefundAmount.IsNegative() || in.RefundAmount.GreaterThan(total) {
			return nil, domain.Invalid("refund_amount debe estar entre 0 y %s", total.String())
		}
		refund = *in.RefundAmount
	}

	now := uc.opts.Now()
	var ret *entity.Return

	err = uc.txRunner.Run(ctx, func(repos Repos) error {
		store, err := repos.Stores.GetByID(ctx, in.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.NotFound("tienda %s", in.StoreID)
		}
		if in.SaleID != "" {
			sale, err := repos.Sales.GetByID(ctx, in.SaleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return domain.NotFound("venta %s", in.SaleID)
			}
			if sale.StoreID != in.StoreID {
				return domain.Invalid("la venta %s pertenece a otra tienda", sale.InvoiceNumber)
			}
		}
		for _, it := range in.Items {
			p, err := repos.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.NotFound("producto %s", it.ProductID)
			}
		}

		ret = &entity.Return{
			ID:           uuid.New().String(),
			ReturnNumber: uc.opts.Numbers.Next(uc.opts.ReturnPrefix, now),
			StoreID:      in.StoreID,
			SaleID:       in.SaleID,
			Status:       status,
			Reason:       in.Reason,
			TotalAmount:  total,
			RefundAmount: refund,
			CreatedBy:    actor,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if status.MutatesStock() {
			ret.ApprovedBy = actor
		}
		for _, it := range in.Items {
			ret.Items = append(ret.Items, &entity.ReturnItem{
				ID:        uuid.New().String(),
				ReturnID:  ret.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: *it.UnitPrice,
				Condition: entity.ReturnItemCondition(it.Condition),
			})
		}

		if err := repos.Returns.Create(ctx, ret); err != nil {
			return err
		}
		if err := repos.Returns.CreateItems(ctx, ret.Items); err != nil {
			return err
		}
		if status.MutatesStock() {
			return applyReturnStock(ctx, repos, ret, actor, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toReturnResponse(ret), nil
}

// SettleReturn cambia el estado de la devolución. Desde PENDING: APPROVED/COMPLETED aplican
// stock y REJECTED solo cambia el estado. APPROVED → COMPLETED no toca stock.
// Repetir el estado actual no hace nada; cualquier otra transición es ErrConflict.
func (uc *ReturnUseCase) SettleReturn(ctx context.Context, actor, returnID, status string) (*dto.ReturnResponse, error) {
	if actor == "" {
		return nil, domain.Invalid("actor requerido")
	}
	target := entity.ReturnStatus(status)
	switch target {
	case entity.ReturnApproved, entity.ReturnRejected, entity.ReturnCompleted:
	default:
		return nil, domain.Invalid("estado %q no permitido; use APPROVED, REJECTED o COMPLETED", status)
	}

	now := uc.opts.Now()
	var ret *entity.Return

	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		ret, err = repos.Returns.GetByIDForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if ret == nil {
			return domain.NotFound("devolución %s", returnID)
		}
		if ret.Status == target {
			return nil
		}

		switch {
		case ret.Status == entity.ReturnPending:
			if target.MutatesStock() {
				ret.ApprovedBy = actor
				if err := applyReturnStock(ctx, repos, ret, actor, now); err != nil {
					return err
				}
			}
		case ret.Status == entity.ReturnApproved && target == entity.ReturnCompleted:
		default:
			return domain.Conflict("transición %s → %s no permitida", ret.Status, target)
		}

		ret.Status = target
		ret.UpdatedAt = now
		return repos.Returns.UpdateStatus(ctx, ret)
	})
	if err != nil {
		return nil, err
	}
	return toReturnResponse(ret), nil
}

// DeleteReturn elimina una devolución PENDING o REJECTED (nunca movieron stock).
func (uc *ReturnUseCase) DeleteReturn(ctx context.Context, returnID string) error {
	return uc.txRunner.Run(ctx, func(repos Repos) error {
		ret, err := repos.Returns.GetByIDForUpdate(ctx, returnID)
		if err != nil {
			return err
		}
		if ret == nil {
			return domain.NotFound("devolución %s", returnID)
		}
		if !ret.Status.Deletable() {
			return domain.Conflict("no se puede eliminar una devolución en estado %s", ret.Status)
		}
		return repos.Returns.Delete(ctx, ret.ID)
	})
}

// GetReturn obtiene una devolución con sus líneas.
func (uc *ReturnUseCase) GetReturn(ctx context.Context, returnID string) (*dto.ReturnResponse, error) {
	var ret *entity.Return
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		ret, err = repos.Returns.GetByID(ctx, returnID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, domain.NotFound("devolución %s", returnID)
	}
	return toReturnResponse(ret), nil
}

// applyReturnStock: GOOD vuelve al stock (IN); DAMAGED/DEFECTIVE solo se registra como OUT
// sin tocar el stock vendible.
func applyReturnStock(ctx context.Context, repos Repos, ret *entity.Return, actor string, now time.Time) error {
	for _, item := range ret.Items {
		ch := stockChange{
			ProductID: item.ProductID,
			StoreID:   ret.StoreID,
			Delta:     item.Quantity,
			RefType:   entity.ReferenceReturn,
			RefID:     ret.ID,
			Actor:     actor,
			Notes:     "devolución " + ret.ReturnNumber,
			Now:       now,
		}
		if item.Condition.Sellable() {
			if _, err := moveStock(ctx, repos, ch); err != nil {
				return err
			}
			continue
		}
		ch.Notes = fmt.Sprintf("devolución %s: condición %s, no reingresa a stock", ret.ReturnNumber, item.Condition)
		if _, err := recordUntracked(ctx, repos, ch); err != nil {
			return err
		}
	}
	return nil
}

func validateReturn(actor string, in dto.CreateReturnRequest) (entity.ReturnStatus, error) {
	if actor == "" {
		return "", domain.Invalid("actor requerido")
	}
	if in.StoreID == "" {
		return "", domain.Invalid("store_id requerido")
	}
	if len(in.Items) == 0 {
		return "", domain.Invalid("la devolución requiere al menos un ítem")
	}
	status := entity.ReturnPending
	if in.Status != "" {
		status = entity.ReturnStatus(in.Status)
		if !status.Valid() {
			return "", domain.Invalid("estado %q desconocido", in.Status)
		}
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return "", domain.Invalid("ítem %d: product_id requerido", i)
		}
		if it.Quantity <= 0 {
			return "", domain.Invalid("ítem %d: quantity debe ser mayor que 0", i)
		}
		if it.UnitPrice == nil {
			return "", domain.Invalid("ítem %d: unit_price requerido", i)
		}
		if it.UnitPrice.IsNegative() {
			return "", domain.Invalid("ítem %d: unit_price negativo", i)
		}
		if !entity.ReturnItemCondition(it.Condition).Valid() {
			return "", domain.Invalid("ítem %d: condition %q desconocida", i, it.Condition)
		}
	}
	return status, nil
}

func toReturnResponse(r *entity.Return) *dto.ReturnResponse {
	resp := &dto.ReturnResponse{
		ID:           r.ID,
		ReturnNumber: r.ReturnNumber,
		StoreID:      r.StoreID,
		SaleID:       r.SaleID,
		Status:       string(r.Status),
		Reason:       r.Reason,
		TotalAmount:  r.TotalAmount,
		RefundAmount: r.RefundAmount,
		CreatedBy:    r.CreatedBy,
		ApprovedBy:   r.ApprovedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Items:        make([]dto.ReturnItemResponse, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		resp.Items = append(resp.Items, dto.ReturnItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Condition: string(it.Condition),
		})
	}
	return resp
}
