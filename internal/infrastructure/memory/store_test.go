package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

func TestTxRunner_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	tx := NewTxRunner(NewStore())
	boom := errors.New("boom")

	err := tx.Run(ctx, func(r inventory.Repos) error {
		require.NoError(t, r.Stores.Create(ctx, &entity.Store{ID: "s1", Name: "Centro", Active: true}))
		_, _, err := r.Stock.ApplyDelta(ctx, "p1", "s1", 5, "u1")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, tx.Run(ctx, func(r inventory.Repos) error {
		st, err := r.Stores.GetByID(ctx, "s1")
		assert.Nil(t, st)
		qty, _ := r.Stock.GetQuantity(ctx, "p1", "s1")
		assert.Zero(t, qty)
		return err
	}))
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := NewTxRunner(NewStore()).Run(ctx, func(inventory.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTxRunner_AislaCopias(t *testing.T) {
	ctx := context.Background()
	tx := NewTxRunner(NewStore())
	sale := &entity.Sale{ID: "v1", InvoiceNumber: "FAC-1", StoreID: "s1", CreatedAt: time.Now()}

	require.NoError(t, tx.Run(ctx, func(r inventory.Repos) error {
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		return r.Sales.CreateItems(ctx, []*entity.SaleItem{{ID: "i1", SaleID: "v1", ProductID: "p1", Quantity: 2}})
	}))
	sale.InvoiceNumber = "mutado"

	require.NoError(t, tx.Run(ctx, func(r inventory.Repos) error {
		got, err := r.Sales.GetByID(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, "FAC-1", got.InvoiceNumber)
		require.Len(t, got.Items, 1)
		got.Items[0].Quantity = 99
		return nil
	}))
	require.NoError(t, tx.Run(ctx, func(r inventory.Repos) error {
		got, _ := r.Sales.GetByID(ctx, "v1")
		assert.Equal(t, int64(2), got.Items[0].Quantity)
		return nil
	}))
}

func TestStockRepository_ApplyDeltaYSetExact(t *testing.T) {
	s := newState()
	r := &StockRepository{s: s}
	ctx := context.Background()

	prev, cur, err := r.ApplyDelta(ctx, "p1", "s1", -3, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), prev)
	assert.Equal(t, int64(0), cur, "nunca baja de cero")

	_, cur, _ = r.ApplyDelta(ctx, "p1", "s1", 7, "u1")
	assert.Equal(t, int64(7), cur)

	expected := int64(6)
	assert.ErrorIs(t, r.SetExact(ctx, "p1", "s1", 10, &expected, "u2"), domain.ErrConflict)
	expected = 7
	require.NoError(t, r.SetExact(ctx, "p1", "s1", 10, &expected, "u2"))
	qty, _ := r.GetQuantity(ctx, "p1", "s1")
	assert.Equal(t, int64(10), qty)
	assert.ErrorIs(t, r.SetExact(ctx, "p1", "s1", -1, nil, "u2"), domain.ErrInvalidInput)
}

func TestMovementRepository_RechazaInvalidos(t *testing.T) {
	r := &StockMovementRepository{s: newState()}
	m := entity.NewMovement(entity.MovementTypeIN, "p1", "s1", 1, entity.ReferencePurchase, "oc-1", "u1", time.Now())
	m.Direction = entity.DirectionDecrease
	assert.ErrorIs(t, r.Append(context.Background(), m), domain.ErrInvalidInput)
}

func TestPage(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{2, 3}, page(list, 2, 1))
	assert.Equal(t, []int{4, 5}, page(list, 10, 3))
	assert.Empty(t, page(list, 2, 9))
}

func TestDelete_ReferenciasBloqueanComoFK(t *testing.T) {
	ctx := context.Background()
	tx := NewTxRunner(NewStore())
	now := time.Now()

	require.NoError(t, tx.Run(ctx, func(r inventory.Repos) error {
		require.NoError(t, r.Stores.Create(ctx, &entity.Store{ID: "s1", Name: "Centro", Active: true}))
		require.NoError(t, r.Stores.Create(ctx, &entity.Store{ID: "s2", Name: "Norte", Active: true}))
		require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A", Active: true}))
		require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "B", Name: "B", Active: true}))
		require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p3", SKU: "C", Name: "C", Active: true}))

		// p1 solo aparece en una devolución pendiente; p2 solo en un movimiento que no afecta stock.
		ret := &entity.Return{ID: "r1", ReturnNumber: "DEV-1", StoreID: "s1", Status: entity.ReturnPending, CreatedAt: now}
		require.NoError(t, r.Returns.Create(ctx, ret))
		require.NoError(t, r.Returns.CreateItems(ctx, []*entity.ReturnItem{
			{ID: "ri1", ReturnID: "r1", ProductID: "p1", Quantity: 1, Condition: entity.ConditionGood},
		}))
		mov := entity.NewMovement(entity.MovementTypeOUT, "p2", "s2", 1, entity.ReferenceReturn, "r0", "u1", now)
		mov.AffectsStock = false
		return r.Movements.Append(ctx, mov)
	}))

	err := tx.Run(ctx, func(r inventory.Repos) error {
		assert.ErrorIs(t, r.Products.Delete(ctx, "p1"), domain.ErrConflict)
		assert.ErrorIs(t, r.Products.Delete(ctx, "p2"), domain.ErrConflict)
		assert.ErrorIs(t, r.Stores.Delete(ctx, "s1"), domain.ErrConflict)
		assert.ErrorIs(t, r.Stores.Delete(ctx, "s2"), domain.ErrConflict)
		assert.NoError(t, r.Products.Delete(ctx, "p3"))
		return nil
	})
	require.NoError(t, err)
}

func TestSaleRepository_DeleteInexistente(t *testing.T) {
	ctx := context.Background()
	err := NewTxRunner(NewStore()).Run(ctx, func(r inventory.Repos) error {
		return r.Sales.Delete(ctx, "no-existe")
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
