package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// AdjustmentUseCase fija el stock de un par producto+tienda a un valor contado.
type AdjustmentUseCase struct {
	txRunner TxRunner
	policy   ApprovalPolicy
	opts     Options
}

// NewAdjustmentUseCase construye el caso de uso. policy nil equivale a AutoApprovePolicy.
func NewAdjustmentUseCase(txRunner TxRunner, policy ApprovalPolicy, opts Options) *AdjustmentUseCase {
	if policy == nil {
		policy = AutoApprovePolicy{}
	}
	return &AdjustmentUseCase{txRunner: txRunner, policy: policy, opts: opts.withDefaults()}
}

// ApplyAdjustment registra el ajuste con su impacto en valor. Con aprobación automática
// aplica de inmediato el compare-and-swap old → new y el movimiento en el libro.
func (uc *AdjustmentUseCase) ApplyAdjustment(ctx context.Context, actor string, in dto.ApplyAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if err := validateAdjustment(actor, in); err != nil {
		return nil, err
	}
	oldQty, newQty := *in.OldQuantity, *in.NewQuantity
	now := uc.opts.Now()
	var adj *entity.StockAdjustment

	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto %s", in.ProductID)
		}
		store, err := repos.Stores.GetByID(ctx, in.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.NotFound("tienda %s", in.StoreID)
		}

		adj = &entity.StockAdjustment{
			ID:               uuid.New().String(),
			AdjustmentNumber: uc.opts.Numbers.Next(uc.opts.AdjustmentPrefix, now),
			StoreID:          in.StoreID,
			Type:             entity.DeriveAdjustmentType(oldQty, newQty),
			Status:           entity.AdjustmentPending,
			Reason:           in.Reason,
			Notes:            in.Notes,
			CreatedBy:        actor,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		approve := uc.policy.ApproveOnCreate(adj)
		if approve {
			approvedAt := now
			adj.Status = entity.AdjustmentApproved
			adj.ApprovedBy = actor
			adj.ApprovedAt = &approvedAt
		}

		item := entity.NewAdjustmentItem(in.ProductID, oldQty, newQty, product.CostPrice)
		item.ID = uuid.New().String()
		item.AdjustmentID = adj.ID
		adj.Items = []*entity.StockAdjustmentItem{item}

		if err := repos.Adjustments.Create(ctx, adj); err != nil {
			return err
		}
		if err := repos.Adjustments.CreateItem(ctx, item); err != nil {
			return err
		}
		if approve {
			return applyAdjustmentStock(ctx, repos, adj, actor, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAdjustmentResponse(adj), nil
}

// ApproveAdjustment aprueba un ajuste PENDING y aplica el compare-and-swap.
// Si el stock cambió desde que se contó, falla con ErrConflict y el ajuste sigue pendiente.
func (uc *AdjustmentUseCase) ApproveAdjustment(ctx context.Context, approver, adjustmentID string) (*dto.AdjustmentResponse, error) {
	if approver == "" {
		return nil, domain.Invalid("actor requerido")
	}
	now := uc.opts.Now()
	var adj *entity.StockAdjustment

	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		if adj, err = loadPendingAdjustment(ctx, repos, adjustmentID); err != nil {
			return err
		}
		if err := uc.policy.CanApprove(adj, approver); err != nil {
			return err
		}
		if err := applyAdjustmentStock(ctx, repos, adj, approver, now); err != nil {
			return err
		}
		approvedAt := now
		adj.Status = entity.AdjustmentApproved
		adj.ApprovedBy = approver
		adj.ApprovedAt = &approvedAt
		adj.UpdatedAt = now
		return repos.Adjustments.UpdateStatus(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	return toAdjustmentResponse(adj), nil
}

// RejectAdjustment marca REJECTED un ajuste PENDING; no toca stock.
func (uc *AdjustmentUseCase) RejectAdjustment(ctx context.Context, actor, adjustmentID string) (*dto.AdjustmentResponse, error) {
	if actor == "" {
		return nil, domain.Invalid("actor requerido")
	}
	now := uc.opts.Now()
	var adj *entity.StockAdjustment

	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		if adj, err = loadPendingAdjustment(ctx, repos, adjustmentID); err != nil {
			return err
		}
		adj.Status = entity.AdjustmentRejected
		adj.UpdatedAt = now
		return repos.Adjustments.UpdateStatus(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	return toAdjustmentResponse(adj), nil
}

// GetAdjustment obtiene un ajuste con su detalle.
func (uc *AdjustmentUseCase) GetAdjustment(ctx context.Context, adjustmentID string) (*dto.AdjustmentResponse, error) {
	var adj *entity.StockAdjustment
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		adj, err = repos.Adjustments.GetByID(ctx, adjustmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.NotFound("ajuste %s", adjustmentID)
	}
	return toAdjustmentResponse(adj), nil
}

func loadPendingAdjustment(ctx context.Context, repos Repos, id string) (*entity.StockAdjustment, error) {
	adj, err := repos.Adjustments.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.NotFound("ajuste %s", id)
	}
	if adj.Status != entity.AdjustmentPending {
		return nil, domain.Conflict("el ajuste %s ya está %s", adj.AdjustmentNumber, adj.Status)
	}
	return adj, nil
}

// applyAdjustmentStock: SetExact(new, expected=old) y, si hay diferencia, un IN/OUT por |diff|.
func applyAdjustmentStock(ctx context.Context, repos Repos, adj *entity.StockAdjustment, actor string, now time.Time) error {
	for _, item := range adj.Items {
		expected := item.OldQuantity
		if err := repos.Stock.SetExact(ctx, item.ProductID, adj.StoreID, item.NewQuantity, &expected, actor); err != nil {
			return err
		}
		if item.QuantityDifference == 0 {
			continue
		}
		movType := entity.MovementTypeIN
		if item.QuantityDifference < 0 {
			movType = entity.MovementTypeOUT
		}
		mov := entity.NewMovement(movType, item.ProductID, adj.StoreID, abs(item.QuantityDifference),
			entity.ReferenceAdjustment, adj.ID, actor, now)
		mov.Notes = joinNotes("ajuste "+adj.AdjustmentNumber, adj.Reason)
		if err := repos.Movements.Append(ctx, mov); err != nil {
			return err
		}
	}
	return nil
}

func validateAdjustment(actor string, in dto.ApplyAdjustmentRequest) error {
	if actor == "" {
		return domain.Invalid("actor requerido")
	}
	if in.ProductID == "" {
		return domain.Invalid("product_id requerido")
	}
	if in.StoreID == "" {
		return domain.Invalid("store_id requerido")
	}
	if in.OldQuantity == nil || in.NewQuantity == nil {
		return domain.Invalid("old_quantity y new_quantity son requeridos")
	}
	if *in.OldQuantity < 0 || *in.NewQuantity < 0 {
		return domain.Invalid("las cantidades no pueden ser negativas")
	}
	if in.Reason == "" {
		return domain.Invalid("reason requerido")
	}
	return nil
}

func toAdjustmentResponse(a *entity.StockAdjustment) *dto.AdjustmentResponse {
	resp := &dto.AdjustmentResponse{
		ID:               a.ID,
		AdjustmentNumber: a.AdjustmentNumber,
		StoreID:          a.StoreID,
		AdjustmentType:   string(a.Type),
		Status:           string(a.Status),
		Reason:           a.Reason,
		Notes:            a.Notes,
		CreatedBy:        a.CreatedBy,
		ApprovedBy:       a.ApprovedBy,
		ApprovedAt:       a.ApprovedAt,
		CreatedAt:        a.CreatedAt,
		Items:            make([]dto.AdjustmentItemResponse, 0, len(a.Items)),
	}
	for _, it := range a.Items {
		resp.Items = append(resp.Items, dto.AdjustmentItemResponse{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			OldQuantity:        it.OldQuantity,
			NewQuantity:        it.NewQuantity,
			QuantityDifference: it.QuantityDifference,
			UnitCost:           it.UnitCost,
			ValueImpact:        it.ValueImpact,
		})
	}
	return resp
}
