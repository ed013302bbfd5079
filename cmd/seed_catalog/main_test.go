package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog(t *testing.T) {
	in := "sku;nombre;costo;precio;minimo;reorden\n" +
		"CAF-500;Café 500g;12.000,00;25.000,50;5;10\n" +
		"TE-20;Té O'Hara;3000;6500\n"

	rows, err := parseCatalog(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "CAF-500", rows[0].SKU)
	assert.Equal(t, "Café 500g", rows[0].Name)
	assert.Equal(t, "12000", rows[0].CostPrice.String())
	assert.Equal(t, "25000.5", rows[0].SellingPrice.String())
	assert.Equal(t, int64(5), rows[0].MinStockLevel)
	assert.Equal(t, int64(10), rows[0].ReorderPoint)
	assert.Equal(t, int64(0), rows[1].ReorderPoint)
}

func TestParseCatalog_IDEstablePorSKU(t *testing.T) {
	a, err := parseCatalog(strings.NewReader("caf-500;Café;1;2\n"))
	require.NoError(t, err)
	b, err := parseCatalog(strings.NewReader("CAF-500;Café molido;1;3\n"))
	require.NoError(t, err)
	assert.Equal(t, a[0].ID, b[0].ID)
}

func TestParseCatalog_Errores(t *testing.T) {
	cases := map[string]string{
		"columnas":   "CAF;Café;1\n",
		"sin nombre": "CAF;;1;2\n",
		"repetido":   "CAF;Café;1;2\ncaf;Otro;1;2\n",
		"negativo":   "CAF;Café;-1;2\n",
		"precio":     "CAF;Café;1;abc\n",
		"reorden":    "CAF;Café;1;2;3;x\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestDecodeLatin1(t *testing.T) {
	// "Café" en ISO-8859-1: é = 0xE9
	raw := []byte{'C', 'a', 'f', 0xE9}
	out, err := io.ReadAll(decodeLatin1(raw))
	require.NoError(t, err)
	assert.Equal(t, "Café", string(out))

	out, err = io.ReadAll(decodeLatin1([]byte("Café")))
	require.NoError(t, err)
	assert.Equal(t, "Café", string(out))
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader("TE-20;Té O'Hara;3000;6500\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	writeSQL(&buf, rows)
	assert.Contains(t, buf.String(), "'Té O''Hara'")
	assert.Contains(t, buf.String(), "ON CONFLICT (sku) DO UPDATE")
}
