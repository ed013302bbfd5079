// seed_catalog genera un script SQL para poblar el catálogo de productos a partir de un CSV
// exportado del punto de venta (separado por ';', codificación ISO-8859-1 o UTF-8).
//
// Columnas: sku;nombre;costo;precio[;stock_minimo;punto_reorden]
// La primera fila se descarta si es encabezado.
//
// Uso: go run ./cmd/seed_catalog catalogo.csv [salida.sql]
// Por defecto escribe internal/infrastructure/postgres/seeds/catalog.sql
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// catalogNamespace fija los IDs por SKU: regenerar el script no duplica productos.
var catalogNamespace = uuid.MustParse("6f1c2a4e-7d0b-4c55-9a3e-2b8f0e6d1c71")

type catalogRow struct {
	ID            string
	SKU           string
	Name          string
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	MinStockLevel int64
	ReorderPoint  int64
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog catalogo.csv [salida.sql]")
		os.Exit(2)
	}
	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	rows, err := parseCatalog(decodeLatin1(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "seeds", "catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	writeSQL(w, rows)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

// decodeLatin1 convierte a UTF-8 si el contenido no es UTF-8 válido.
func decodeLatin1(raw []byte) io.Reader {
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]int)
	var rows []catalogRow
	for i, rec := range records {
		line := i + 1
		if i == 0 && isHeader(rec) {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 4 columnas, hay %d", line, len(rec))
		}
		sku := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		if sku == "" || name == "" {
			return nil, fmt.Errorf("línea %d: sku y nombre son requeridos", line)
		}
		key := strings.ToUpper(sku)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("línea %d: sku %q repetido (línea %d)", line, sku, prev)
		}
		seen[key] = line

		cost, err := parseMoney(rec[2])
		if err != nil {
			return nil, fmt.Errorf("línea %d: costo: %w", line, err)
		}
		price, err := parseMoney(rec[3])
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio: %w", line, err)
		}
		row := catalogRow{
			ID:           uuid.NewSHA1(catalogNamespace, []byte(key)).String(),
			SKU:          sku,
			Name:         name,
			CostPrice:    cost,
			SellingPrice: price,
		}
		if len(rec) > 4 {
			if row.MinStockLevel, err = parseCount(rec[4]); err != nil {
				return nil, fmt.Errorf("línea %d: stock mínimo: %w", line, err)
			}
		}
		if len(rec) > 5 {
			if row.ReorderPoint, err = parseCount(rec[5]); err != nil {
				return nil, fmt.Errorf("línea %d: punto de reorden: %w", line, err)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "sku")
}

// parseMoney acepta "25000", "25000.50" y "25.000,50" (formato local).
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %s", d)
	}
	return d, nil
}

func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("valor negativo %d", n)
	}
	return n, nil
}

func writeSQL(w io.Writer, rows []catalogRow) {
	fmt.Fprintln(w, "-- Catálogo de productos")
	fmt.Fprintln(w, "-- Generado por cmd/seed_catalog")
	fmt.Fprintln(w)
	for _, r := range rows {
		fmt.Fprintln(w, "INSERT INTO products (id, sku, name, cost_price, selling_price, min_stock_level, reorder_point)")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', %s, %s, %d, %d)\n",
			r.ID, escapeSQL(r.SKU), escapeSQL(r.Name),
			r.CostPrice.String(), r.SellingPrice.String(), r.MinStockLevel, r.ReorderPoint)
		fmt.Fprintln(w, "ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, cost_price = EXCLUDED.cost_price,")
		fmt.Fprintln(w, "  selling_price = EXCLUDED.selling_price, min_stock_level = EXCLUDED.min_stock_level,")
		fmt.Fprintln(w, "  reorder_point = EXCLUDED.reorder_point, updated_at = now();")
	}
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
