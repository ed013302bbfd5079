package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

func TestGenerateSaleReceipt_ProducesPDF(t *testing.T) {
	sale := &entity.Sale{
		ID:            "s1",
		InvoiceNumber: "FAC-20261015-0A1B2C3D",
		StoreID:       "st1",
		Subtotal:      decimal.NewFromInt(50),
		DiscountTotal: decimal.NewFromInt(5),
		Total:         decimal.NewFromInt(45),
		CreatedBy:     "u1",
		CreatedAt:     time.Date(2026, 10, 15, 10, 30, 0, 0, time.UTC),
		Items: []*entity.SaleItem{{
			ID: "i1", SaleID: "s1", ProductID: "p1", Quantity: 2,
			UnitPrice: decimal.NewFromInt(25), Discount: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(45),
		}},
	}
	store := &entity.Store{ID: "st1", Name: "Centro", Address: "Calle 1"}
	products := map[string]*entity.Product{"p1": {ID: "p1", SKU: "CAM-01", Name: "Camiseta"}}

	out, err := NewReceiptGenerator().GenerateSaleReceipt(context.Background(), sale, store, products)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0,00", money(decimal.Zero))
	assert.Equal(t, "$999,90", money(decimal.RequireFromString("999.9")))
	assert.Equal(t, "$25.000,50", money(decimal.RequireFromString("25000.5")))
	assert.Equal(t, "$1.000.000,00", money(decimal.NewFromInt(1000000)))
	assert.Equal(t, "-$1.500,00", money(decimal.NewFromInt(-1500)))
}
