// Package memory implementa los puertos de persistencia en memoria. Se usa en pruebas y
// con STORAGE_DRIVER=memory. Cada Run trabaja sobre una copia del estado y solo la publica
// si fn no devuelve error, de modo que un fallo a mitad de operación no deja rastro.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

type pairKey struct {
	productID string
	storeID   string
}

type state struct {
	products    map[string]*entity.Product
	stores      map[string]*entity.Store
	stock       map[pairKey]*entity.Stock
	movements   []*entity.StockMovement
	sales       map[string]*entity.Sale
	returns     map[string]*entity.Return
	adjustments map[string]*entity.StockAdjustment
}

func newState() *state {
	return &state{
		products:    make(map[string]*entity.Product),
		stores:      make(map[string]*entity.Store),
		stock:       make(map[pairKey]*entity.Stock),
		sales:       make(map[string]*entity.Sale),
		returns:     make(map[string]*entity.Return),
		adjustments: make(map[string]*entity.StockAdjustment),
	}
}

// clone copia profunda; los movimientos son inmutables y se comparten.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.stores {
		st := *v
		c.stores[k] = &st
	}
	for k, v := range s.stock {
		st := *v
		c.stock[k] = &st
	}
	c.movements = append(make([]*entity.StockMovement, 0, len(s.movements)), s.movements...)
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range s.returns {
		c.returns[k] = copyReturn(v)
	}
	for k, v := range s.adjustments {
		c.adjustments[k] = copyAdjustment(v)
	}
	return c
}

// Store base de datos en memoria. Las transacciones se serializan con un mutex.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore crea una base vacía.
func NewStore() *Store {
	return &Store{state: newState()}
}

// TxRunner implementa inventory.TxRunner sobre la base en memoria.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// Run ejecuta fn sobre una copia del estado; si fn devuelve error la copia se descarta.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.state.clone()
	if err := fn(reposFor(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.state = work
	return nil
}

func reposFor(s *state) inventory.Repos {
	return inventory.Repos{
		Products:    &ProductRepository{s: s},
		Stores:      &StoreRepository{s: s},
		Stock:       &StockRepository{s: s},
		Movements:   &StockMovementRepository{s: s},
		Sales:       &SaleRepository{s: s},
		Returns:     &ReturnRepository{s: s},
		Adjustments: &StockAdjustmentRepository{s: s},
	}
}

func copySale(v *entity.Sale) *entity.Sale {
	c := *v
	c.Items = make([]*entity.SaleItem, 0, len(v.Items))
	for _, it := range v.Items {
		i := *it
		c.Items = append(c.Items, &i)
	}
	return &c
}

func copyReturn(v *entity.Return) *entity.Return {
	c := *v
	c.Items = make([]*entity.ReturnItem, 0, len(v.Items))
	for _, it := range v.Items {
		i := *it
		c.Items = append(c.Items, &i)
	}
	return &c
}

func copyAdjustment(v *entity.StockAdjustment) *entity.StockAdjustment {
	c := *v
	if v.ApprovedAt != nil {
		t := *v.ApprovedAt
		c.ApprovedAt = &t
	}
	c.Items = make([]*entity.StockAdjustmentItem, 0, len(v.Items))
	for _, it := range v.Items {
		i := *it
		c.Items = append(c.Items, &i)
	}
	return &c
}
