// Package cartstore guarda el carrito de cada sesión de caja entre peticiones:
// en memoria para un solo proceso, en Redis cuando hay varias instancias.
package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/pos-inventario/internal/application/cart"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

var _ cart.Store = (*MemoryStore)(nil)

// DefaultLockWait tiempo máximo de espera por el candado de una sesión.
const DefaultLockWait = time.Second

// MemoryStore carritos en un mapa del proceso. Guarda copias serializadas, así el llamador
// nunca comparte punteros con el store.
type MemoryStore struct {
	mu       sync.Mutex
	carts    map[string][]byte
	locks    map[string]chan struct{}
	lockWait time.Duration
	now      func() time.Time
}

// NewMemoryStore crea el store. lockWait <= 0 usa DefaultLockWait.
func NewMemoryStore(lockWait time.Duration) *MemoryStore {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &MemoryStore{
		carts:    map[string][]byte{},
		locks:    map[string]chan struct{}{},
		lockWait: lockWait,
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*entity.Cart, error) {
	s.mu.Lock()
	raw, ok := s.carts[sessionID]
	s.mu.Unlock()
	if !ok {
		return entity.NewCart(sessionID), nil
	}
	return decode(sessionID, raw)
}

func (s *MemoryStore) Save(_ context.Context, c *entity.Cart) error {
	c.UpdatedAt = s.now()
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("serializar carrito: %w", err)
	}
	s.mu.Lock()
	s.carts[c.SessionID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
	return nil
}

// Lock espera el candado de la sesión hasta lockWait o hasta que ctx se cancele.
func (s *MemoryStore) Lock(ctx context.Context, sessionID string) (cart.Unlock, error) {
	s.mu.Lock()
	ch, ok := s.locks[sessionID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[sessionID] = ch
	}
	s.mu.Unlock()

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
	case <-timer.C:
		return nil, fmt.Errorf("%w: carrito %s en uso", domain.ErrConflict, sessionID)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-ch })
		return nil
	}, nil
}

func decode(sessionID string, raw []byte) (*entity.Cart, error) {
	var c entity.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("leer carrito %s: %w", sessionID, err)
	}
	if c.Lines == nil {
		c.Lines = []*entity.CartLine{}
	}
	c.SessionID = sessionID
	return &c, nil
}
