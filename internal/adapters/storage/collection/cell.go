package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"medication-manager/internal/ports/storage"
)

// Cell es un slot único persistido en una key (p.ej. la sesión actual).
// Estado inicial: vacío. Store sobrescribe, Clear vuelve a vacío.
type Cell[T any] struct {
	kv  storage.KV
	key string
	mu  sync.Mutex
}

func NewCell[T any](kv storage.KV, key string) *Cell[T] {
	return &Cell[T]{kv: kv, key: key}
}

func (c *Cell[T]) Load(ctx context.Context) (T, bool, error) {
	var v T
	raw, ok, err := c.kv.Get(ctx, c.key)
	if err != nil || !ok || len(raw) == 0 || string(raw) == "null" {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("%w: key=%s: %v", storage.ErrCorrupt, c.key, err)
	}
	return v, true, nil
}

func (c *Cell[T]) Store(ctx context.Context, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.key, err)
	}
	return c.kv.Set(ctx, c.key, b)
}

// Clear es idempotente.
func (c *Cell[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Remove(ctx, c.key)
}
