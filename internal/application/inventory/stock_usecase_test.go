package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
)

func TestGetQuantity_ParSinFila(t *testing.T) {
	f := newFixture(t)

	st, err := f.stockUC().GetQuantity(f.ctx, f.productID, f.storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.Quantity)
	assert.Nil(t, st.LastUpdated)

	_, err = f.stockUC().GetQuantity(f.ctx, "", f.storeID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetQuantity_RegistraUltimoActor(t *testing.T) {
	f := newFixture(t)
	f.setStock(3)

	st, err := f.stockUC().GetQuantity(f.ctx, f.productID, f.storeID)
	require.NoError(t, err)
	assert.Equal(t, cashier, st.UpdatedBy)
	assert.NotNil(t, st.LastUpdated)
}

func TestListMovements_Paginado(t *testing.T) {
	f := newFixture(t)
	f.setStock(10)
	for i := 0; i < 3; i++ {
		_, err := f.sales().CommitSale(f.ctx, cashier, f.saleOf(1, "100"))
		require.NoError(t, err)
	}

	page, err := f.stockUC().ListMovements(f.ctx, f.productID, f.storeID, dto.PageRequest{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "OUT", page.Items[0].MovementType)
	assert.Equal(t, "OUT", page.Items[1].MovementType)

	all, err := f.stockUC().ListMovements(f.ctx, f.productID, f.storeID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 4)
	assert.Equal(t, 20, all.Page.Limit)
	assert.Equal(t, "IN", all.Items[3].MovementType, "el más antiguo va al final")
}

func TestVerifyPair_DetectaDescuadre(t *testing.T) {
	f := newFixture(t)
	f.setStock(5)

	// Escritura directa al stock sin pasar por el libro.
	require.NoError(t, f.tx.Run(f.ctx, func(r inventory.Repos) error {
		return r.Stock.SetExact(f.ctx, f.productID, f.storeID, 9, nil, "script")
	}))

	check, err := f.stockUC().VerifyPair(f.ctx, f.productID, f.storeID)
	require.NoError(t, err)
	assert.False(t, check.Consistent)
	assert.Equal(t, int64(9), check.Quantity)
	assert.Equal(t, int64(5), check.LedgerTotal)
}
