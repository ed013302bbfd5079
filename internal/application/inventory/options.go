package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberGenerator genera números de documento legibles (factura, devolución, ajuste).
// La unicidad final la garantiza el índice único de la tabla.
type NumberGenerator interface {
	Next(prefix string, now time.Time) string
}

// RandomNumberGenerator produce <prefijo>-AAAAMMDD-<8 hex>.
type RandomNumberGenerator struct{}

// Next implementa NumberGenerator.
func (RandomNumberGenerator) Next(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}

// Options configuración común de los casos de uso del libro de stock.
type Options struct {
	InvoicePrefix    string
	ReturnPrefix     string
	AdjustmentPrefix string
	Numbers          NumberGenerator
	Now              func() time.Time
}

// DefaultOptions valores por defecto (prefijos FAC/DEV/AJU, reloj del sistema).
func DefaultOptions() Options {
	return Options{
		InvoicePrefix:    "FAC",
		ReturnPrefix:     "DEV",
		AdjustmentPrefix: "AJU",
		Numbers:          RandomNumberGenerator{},
		Now:              time.Now,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.InvoicePrefix == "" {
		o.InvoicePrefix = def.InvoicePrefix
	}
	if o.ReturnPrefix == "" {
		o.ReturnPrefix = def.ReturnPrefix
	}
	if o.AdjustmentPrefix == "" {
		o.AdjustmentPrefix = def.AdjustmentPrefix
	}
	if o.Numbers == nil {
		o.Numbers = def.Numbers
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	return o
}
