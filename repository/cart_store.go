package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookstore-web/models"

	"github.com/redis/go-redis/v9"
)

// CartChange maps the stored items to their new value. Returning an error
// leaves the cart untouched.
type CartChange func(items []models.CartItem) ([]models.CartItem, error)

// CartStore persists cart items per visitor. Update applies a change
// atomically, so two requests from the same visitor cannot overwrite each
// other's edits.
type CartStore interface {
	Load(ctx context.Context, visitorID string) ([]models.CartItem, error)
	Save(ctx context.Context, visitorID string, items []models.CartItem) error
	Update(ctx context.Context, visitorID string, change CartChange) error
	Delete(ctx context.Context, visitorID string) error
}

// ErrCartContention is returned when a cart kept changing under an Update.
var ErrCartContention = errors.New("cart is being modified concurrently")

const maxCartUpdateAttempts = 5

type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisCartStore) key(visitorID string) string {
	return fmt.Sprintf("cart:visitor:%s", visitorID)
}

func (r *RedisCartStore) Load(ctx context.Context, visitorID string) ([]models.CartItem, error) {
	return decodeCart(r.client.Get(ctx, r.key(visitorID)), visitorID)
}

func decodeCart(res *redis.StringCmd, visitorID string) ([]models.CartItem, error) {
	data, err := res.Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("corrupt cart for %s: %w", visitorID, err)
	}
	return cart.Items, nil
}

// Save refreshes the TTL on every write. An empty cart is deleted.
func (r *RedisCartStore) Save(ctx context.Context, visitorID string, items []models.CartItem) error {
	if len(items) == 0 {
		return r.Delete(ctx, visitorID)
	}
	data, err := json.Marshal(models.Cart{Items: items})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(visitorID), data, r.ttl).Err()
}

// Update runs change inside WATCH/MULTI on the cart key and retries when
// another request wrote the key in between.
func (r *RedisCartStore) Update(ctx context.Context, visitorID string, change CartChange) error {
	key := r.key(visitorID)
	txf := func(tx *redis.Tx) error {
		items, err := decodeCart(tx.Get(ctx, key), visitorID)
		if err != nil {
			return err
		}
		next, err := change(items)
		if err != nil {
			return err
		}

		var data []byte
		if len(next) > 0 {
			if data, err = json.Marshal(models.Cart{Items: next}); err != nil {
				return err
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if data == nil {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, data, r.ttl)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxCartUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrCartContention
}

func (r *RedisCartStore) Delete(ctx context.Context, visitorID string) error {
	return r.client.Del(ctx, r.key(visitorID)).Err()
}

type memoryCart struct {
	items     []models.CartItem
	expiresAt time.Time
}

// MemoryCartStore keeps carts in process memory. Carts are lost on restart
// and not shared between instances.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string]memoryCart
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryCartStore(ttl time.Duration) *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[string]memoryCart),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *MemoryCartStore) Load(_ context.Context, visitorID string) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(visitorID), nil
}

func (m *MemoryCartStore) Save(_ context.Context, visitorID string, items []models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.save(visitorID, items)
	return nil
}

// Update holds the store lock for the whole read-change-write.
func (m *MemoryCartStore) Update(_ context.Context, visitorID string, change CartChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := change(m.load(visitorID))
	if err != nil {
		return err
	}
	m.save(visitorID, next)
	return nil
}

// load and save expect mu to be held.
func (m *MemoryCartStore) load(visitorID string) []models.CartItem {
	c, ok := m.carts[visitorID]
	if !ok {
		return nil
	}
	if m.ttl > 0 && m.now().After(c.expiresAt) {
		delete(m.carts, visitorID)
		return nil
	}
	return append([]models.CartItem(nil), c.items...)
}

func (m *MemoryCartStore) save(visitorID string, items []models.CartItem) {
	if len(items) == 0 {
		delete(m.carts, visitorID)
		return
	}
	m.carts[visitorID] = memoryCart{
		items:     append([]models.CartItem(nil), items...),
		expiresAt: m.now().Add(m.ttl),
	}
	m.sweep()
}

func (m *MemoryCartStore) Delete(_ context.Context, visitorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, visitorID)
	return nil
}

// sweep drops expired carts. Callers hold mu.
func (m *MemoryCartStore) sweep() {
	if m.ttl <= 0 {
		return
	}
	now := m.now()
	for id, c := range m.carts {
		if now.After(c.expiresAt) {
			delete(m.carts, id)
		}
	}
}
