package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/ledger"
)

// StockUseCase consultas de solo lectura sobre el stock y el libro.
type StockUseCase struct {
	txRunner TxRunner
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner) *StockUseCase {
	return &StockUseCase{txRunner: txRunner}
}

// GetQuantity devuelve el stock del par; un par sin fila se informa en 0.
func (uc *StockUseCase) GetQuantity(ctx context.Context, productID, storeID string) (*dto.StockResponse, error) {
	if err := requirePair(productID, storeID); err != nil {
		return nil, err
	}
	var st *entity.Stock
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		st, err = repos.Stock.Get(ctx, productID, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := &dto.StockResponse{
		ProductID:        productID,
		StoreID:          storeID,
		Quantity:         st.Quantity,
		ReservedQuantity: st.ReservedQuantity,
		UpdatedBy:        st.UpdatedBy,
	}
	if !st.LastUpdated.IsZero() {
		t := st.LastUpdated
		resp.LastUpdated = &t
	}
	return resp, nil
}

// ListMovements lista el libro del par, más recientes primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, productID, storeID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if err := requirePair(productID, storeID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	var movs []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		movs, err = repos.Movements.ListByPair(ctx, productID, storeID, page.Limit, page.Offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(movs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range movs {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return out, nil
}

// VerifyPair compara el stock con la suma del libro dentro de una misma transacción.
func (uc *StockUseCase) VerifyPair(ctx context.Context, productID, storeID string) (*dto.LedgerCheckResponse, error) {
	if err := requirePair(productID, storeID); err != nil {
		return nil, err
	}
	var qty, total int64
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		if qty, err = repos.Stock.GetQuantity(ctx, productID, storeID); err != nil {
			return err
		}
		total, err = repos.Movements.SumForPair(ctx, productID, storeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	checkErr := ledger.CheckTotals(productID, storeID, qty, total)
	if checkErr != nil && !errors.Is(checkErr, ledger.ErrInvariantViolation) {
		return nil, checkErr
	}
	return &dto.LedgerCheckResponse{
		ProductID:   productID,
		StoreID:     storeID,
		Quantity:    qty,
		LedgerTotal: total,
		Consistent:  checkErr == nil,
	}, nil
}

func requirePair(productID, storeID string) error {
	if productID == "" || storeID == "" {
		return domain.Invalid("product_id y store_id son requeridos")
	}
	return nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		StoreID:       m.StoreID,
		MovementType:  string(m.Type),
		Direction:     string(m.Direction),
		Quantity:      m.Quantity,
		AffectsStock:  m.AffectsStock,
		ReferenceType: string(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
