// Package memory implementa los puertos de persistencia en memoria. Cada transacción trabaja
// sobre una copia del estado que reemplaza al original solo si la función termina sin error,
// así un fallo a mitad de camino no deja escrituras parciales. Las transacciones se serializan.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

type state struct {
	seq        int64
	products   map[string]entity.Product
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
	locations  map[string]entity.StockLocation
	items      map[string]entity.StockItem
	itemSeq    map[string]int64
	tracking   []entity.StockItemTracking
	sales      map[string]entity.Sale
	saleItems  []entity.SaleItem
	prices     []entity.PriceHistory
}

func newState() *state {
	return &state{
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		suppliers:  map[string]entity.Supplier{},
		locations:  map[string]entity.StockLocation{},
		items:      map[string]entity.StockItem{},
		itemSeq:    map[string]int64{},
		sales:      map[string]entity.Sale{},
	}
}

func (s *state) clone() *state {
	return &state{
		seq:        s.seq,
		products:   maps.Clone(s.products),
		categories: maps.Clone(s.categories),
		suppliers:  maps.Clone(s.suppliers),
		locations:  maps.Clone(s.locations),
		items:      maps.Clone(s.items),
		itemSeq:    maps.Clone(s.itemSeq),
		tracking:   slices.Clone(s.tracking),
		sales:      maps.Clone(s.sales),
		saleItems:  slices.Clone(s.saleItems),
		prices:     slices.Clone(s.prices),
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// access ejecuta fn sobre el estado; write indica si fn modifica.
type access func(write bool, fn func(st *state) error) error

// direct acceso fuera de transacción: cada escritura es su propia transacción.
func (s *Store) direct() access {
	return func(write bool, fn func(st *state) error) error {
		if write {
			return s.update(fn)
		}
		return s.view(fn)
	}
}

func (s *Store) update(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.st.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.st = next
	return nil
}

func (s *Store) view(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// inTx acceso atado a la copia de una transacción en curso.
func inTx(st *state) access {
	return func(_ bool, fn func(st *state) error) error {
		return fn(st)
	}
}
