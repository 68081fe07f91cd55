package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-inventario/internal/application/cart"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/pkg/config"
)

var _ cart.Store = (*RedisStore)(nil)

const (
	cartKeyPrefix = "pos:cart:"
	lockKeyPrefix = "lock:pos:cart:"
	lockTTL       = 30 * time.Second
)

// RedisStore carritos como JSON en Redis con TTL renovado en cada Save. El candado por
// sesión usa redislock, así dos instancias no confirman el mismo carrito a la vez.
type RedisStore struct {
	rdb    redis.UniversalClient
	locker *redislock.Client
	ttl    time.Duration
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisStore construye el store. ttl <= 0 deja los carritos sin expiración.
func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, locker: redislock.New(rdb), ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*entity.Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.NewCart(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get carrito: %w", err)
	}
	return decode(sessionID, raw)
}

func (s *RedisStore) Save(ctx context.Context, c *entity.Cart) error {
	c.UpdatedAt = time.Now()
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("serializar carrito: %w", err)
	}
	if err := s.rdb.Set(ctx, cartKeyPrefix+c.SessionID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set carrito: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del carrito: %w", err)
	}
	return nil
}

// Lock obtiene el candado de la sesión reintentando durante ~1s.
func (s *RedisStore) Lock(ctx context.Context, sessionID string) (cart.Unlock, error) {
	lock, err := s.locker.Obtain(ctx, lockKeyPrefix+sessionID, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: carrito %s en uso", domain.ErrConflict, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("redis lock carrito: %w", err)
	}
	return func(ctx context.Context) error {
		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			return nil
		}
		return err
	}, nil
}
