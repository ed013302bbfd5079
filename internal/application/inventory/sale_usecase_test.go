package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

func TestCommitSale_DescuentaStockYRegistraMovimiento(t *testing.T) {
	f := newFixture(t)
	f.setStock(50)

	in := f.saleOf(10, "2500")
	in.Items[0].Discount = decimal.NewFromInt(500)
	sale, err := f.sales().CommitSale(f.ctx, cashier, in)
	require.NoError(t, err)

	assert.Equal(t, "FAC-0002", sale.InvoiceNumber)
	assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(25000)))
	assert.True(t, sale.DiscountTotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(24500)))
	assert.True(t, sale.Items[0].LineTotal.Equal(decimal.NewFromInt(24500)))
	assert.False(t, sale.Replayed)
	assert.Equal(t, int64(40), f.quantity())

	movs := f.movements()
	require.Len(t, movs, 2)
	last := movs[0]
	assert.Equal(t, entity.MovementTypeOUT, last.Type)
	assert.Equal(t, int64(10), last.Quantity)
	assert.Equal(t, entity.ReferenceSale, last.ReferenceType)
	assert.Equal(t, sale.ID, last.ReferenceID)
	assert.Equal(t, cashier, last.CreatedBy)
	f.requireConsistent()
}

func TestCommitSale_Sobreventa_RecortaEnCero(t *testing.T) {
	f := newFixture(t)
	f.setStock(3)

	_, err := f.sales().CommitSale(f.ctx, cashier, f.saleOf(5, "100"))
	require.NoError(t, err)

	assert.Equal(t, int64(0), f.quantity())
	out := f.movements()[0]
	assert.Equal(t, int64(3), out.Quantity, "el libro registra lo efectivamente descontado")
	assert.Contains(t, out.Notes, "solicitado 5, aplicado 3")
	f.requireConsistent()
}

func TestCommitSale_SinStockPrevio(t *testing.T) {
	f := newFixture(t)

	_, err := f.sales().CommitSale(f.ctx, cashier, f.saleOf(2, "100"))
	require.NoError(t, err)

	assert.Equal(t, int64(0), f.quantity())
	f.requireConsistent()
}

func TestCommitSale_Idempotente(t *testing.T) {
	f := newFixture(t)
	f.setStock(10)
	in := f.saleOf(4, "100")
	in.IdempotencyKey = "pos-7-000042"

	first, err := f.sales().CommitSale(f.ctx, cashier, in)
	require.NoError(t, err)
	second, err := f.sales().CommitSale(f.ctx, cashier, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.True(t, second.Replayed)
	assert.Equal(t, int64(6), f.quantity(), "el reintento no descuenta de nuevo")
	assert.Len(t, f.movements(), 2)
}

func TestCommitSale_IdempotencyKeyDeOtraTienda(t *testing.T) {
	f := newFixture(t)
	f.addStore("store-norte", true)
	in := f.saleOf(1, "100")
	in.IdempotencyKey = "k-1"
	_, err := f.sales().CommitSale(f.ctx, cashier, in)
	require.NoError(t, err)

	in.StoreID = "store-norte"
	_, err = f.sales().CommitSale(f.ctx, cashier, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCommitSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	price := decimal.NewFromInt(100)
	item := func(mut func(*dto.SaleItemRequest)) dto.CommitSaleRequest {
		it := dto.SaleItemRequest{ProductID: f.productID, Quantity: 1, UnitPrice: &price}
		mut(&it)
		return dto.CommitSaleRequest{StoreID: f.storeID, Items: []dto.SaleItemRequest{it}}
	}

	cases := []struct {
		name  string
		actor string
		in    dto.CommitSaleRequest
	}{
		{"sin actor", "", f.saleOf(1, "1")},
		{"sin tienda", cashier, dto.CommitSaleRequest{Items: f.saleOf(1, "1").Items}},
		{"sin ítems", cashier, dto.CommitSaleRequest{StoreID: f.storeID}},
		{"cantidad cero", cashier, item(func(i *dto.SaleItemRequest) { i.Quantity = 0 })},
		{"sin precio", cashier, item(func(i *dto.SaleItemRequest) { i.UnitPrice = nil })},
		{"precio negativo", cashier, item(func(i *dto.SaleItemRequest) { i.UnitPrice = ptr(decimal.NewFromInt(-1)) })},
		{"descuento negativo", cashier, item(func(i *dto.SaleItemRequest) { i.Discount = decimal.NewFromInt(-1) })},
		{"descuento mayor", cashier, item(func(i *dto.SaleItemRequest) { i.Discount = decimal.NewFromInt(101) })},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sales().CommitSale(f.ctx, tc.actor, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCommitSale_ReferenciasInexistentesOInactivas(t *testing.T) {
	f := newFixture(t)
	f.addStore("store-cerrada", false)
	f.addProduct("prod-baja", "BAJA-1", false)

	in := f.saleOf(1, "100")
	in.StoreID = "no-existe"
	_, err := f.sales().CommitSale(f.ctx, cashier, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = f.saleOf(1, "100")
	in.StoreID = "store-cerrada"
	_, err = f.sales().CommitSale(f.ctx, cashier, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = f.saleOf(1, "100")
	in.Items[0].ProductID = "no-existe"
	_, err = f.sales().CommitSale(f.ctx, cashier, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = f.saleOf(1, "100")
	in.Items[0].ProductID = "prod-baja"
	_, err = f.sales().CommitSale(f.ctx, cashier, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommitSale_FalloEnLibro_RevierteTodo(t *testing.T) {
	f := newFixture(t)
	f.setStock(10)
	f.addProduct("prod-te", "TE-20", true)

	price := decimal.NewFromInt(100)
	in := dto.CommitSaleRequest{
		StoreID:        f.storeID,
		IdempotencyKey: "k-falla",
		Items: []dto.SaleItemRequest{
			{ProductID: f.productID, Quantity: 2, UnitPrice: &price},
			{ProductID: "prod-te", Quantity: 1, UnitPrice: &price},
		},
	}
	uc := inventory.NewSaleUseCase(&failingTx{inner: f.tx, failAt: 2}, nil, f.opts)
	_, err := uc.CommitSale(f.ctx, cashier, in)
	require.ErrorIs(t, err, errLedgerDown)

	assert.Equal(t, int64(10), f.quantity(), "el descuento de la primera línea se revierte")
	assert.Len(t, f.movements(), 1)
	require.NoError(t, f.tx.Run(f.ctx, func(r inventory.Repos) error {
		sale, err := r.Sales.GetByIdempotencyKey(f.ctx, "k-falla")
		assert.Nil(t, sale, "la cabecera no debe persistir")
		return err
	}))
	f.requireConsistent()
}

func TestReverseSale_ReponeLoDescontado(t *testing.T) {
	f := newFixture(t)
	f.setStock(3)

	sale, err := f.sales().CommitSale(f.ctx, cashier, f.saleOf(5, "100"))
	require.NoError(t, err)
	require.Equal(t, int64(0), f.quantity())

	require.NoError(t, f.sales().ReverseSale(f.ctx, supervisor, sale.ID))

	assert.Equal(t, int64(3), f.quantity(), "solo se repone lo que la venta descontó")
	_, err = f.sales().GetSale(f.ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in := f.movements()[0]
	assert.Equal(t, entity.MovementTypeIN, in.Type)
	assert.Equal(t, sale.ID, in.ReferenceID)
	assert.Equal(t, supervisor, in.CreatedBy)
	f.requireConsistent()
}

func TestReverseSale_ConDevolucion_Conflict(t *testing.T) {
	f := newFixture(t)
	f.setStock(5)
	sale, err := f.sales().CommitSale(f.ctx, cashier, f.saleOf(2, "2500"))
	require.NoError(t, err)

	ret := f.returnOf("", f.returnItem(1, "GOOD"))
	ret.SaleID = sale.ID
	_, err = f.returns().CreateReturn(f.ctx, cashier, ret)
	require.NoError(t, err)

	err = f.sales().ReverseSale(f.ctx, supervisor, sale.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(3), f.quantity())
}

func TestReverseSale_Inexistente(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.sales().ReverseSale(f.ctx, supervisor, "no-existe"), domain.ErrNotFound)
	assert.ErrorIs(t, f.sales().ReverseSale(f.ctx, "", "x"), domain.ErrInvalidInput)
}

func TestReceipt_SinGenerador(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.sales().Receipt(f.ctx, "x")
	assert.Error(t, err)
}

func TestCommitSale_ReintentoSimultaneo_DevuelveLaVentaConfirmada(t *testing.T) {
	f := newFixture(t)
	f.setStock(10)
	in := f.saleOf(4, "100")
	in.IdempotencyKey = "pos-7-000099"

	first, err := f.sales().CommitSale(f.ctx, cashier, in)
	require.NoError(t, err)

	// El segundo intento no ve la venta al consultar y choca con la clave única al insertar.
	racing := inventory.NewSaleUseCase(&missedKeyTx{inner: f.tx}, nil, f.opts)
	second, err := racing.CommitSale(f.ctx, cashier, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Replayed)
	assert.Equal(t, int64(6), f.quantity())
	assert.Len(t, f.movements(), 2)
	f.requireConsistent()
}

func TestMutaciones_LeenElDocumentoConBloqueo(t *testing.T) {
	f := newFixture(t)
	f.setStock(10)
	tracker := &lockTrackingTx{inner: f.tx}
	sales := inventory.NewSaleUseCase(tracker, nil, f.opts)
	returns := inventory.NewReturnUseCase(tracker, f.opts)
	adjustments := inventory.NewAdjustmentUseCase(tracker, inventory.SeparateApproverPolicy{}, f.opts)

	sale, err := sales.CommitSale(f.ctx, cashier, f.saleOf(2, "100"))
	require.NoError(t, err)
	require.NoError(t, sales.ReverseSale(f.ctx, supervisor, sale.ID))

	ret, err := returns.CreateReturn(f.ctx, cashier, f.returnOf("", f.returnItem(1, "GOOD")))
	require.NoError(t, err)
	_, err = returns.SettleReturn(f.ctx, supervisor, ret.ID, "REJECTED")
	require.NoError(t, err)
	require.NoError(t, returns.DeleteReturn(f.ctx, ret.ID))

	adj, err := adjustments.ApplyAdjustment(f.ctx, cashier, dtoAdjustment(f, 10, 12))
	require.NoError(t, err)
	_, err = adjustments.ApproveAdjustment(f.ctx, supervisor, adj.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"sale:" + sale.ID,
		"return:" + ret.ID,
		"return:" + ret.ID,
		"adjustment:" + adj.ID,
	}, tracker.locks)
	assert.Equal(t, int64(12), f.quantity())
	f.requireConsistent()
}

func TestReverseSale_DosVeces_NoReponeDeNuevo(t *testing.T) {
	f := newFixture(t)
	f.setStock(10)
	sale, err := f.sales().CommitSale(f.ctx, cashier, f.saleOf(4, "100"))
	require.NoError(t, err)

	require.NoError(t, f.sales().ReverseSale(f.ctx, supervisor, sale.ID))
	err = f.sales().ReverseSale(f.ctx, supervisor, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), f.quantity())
	f.requireConsistent()
}
