// Package collection implementa la colección persistida por key: una lista
// ordenada de registros serializada como un único documento JSON sobre el
// sustrato KV, con un contador persistido para asignar IDs enteros.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"medication-manager/internal/ports/storage"
)

var (
	ErrNoCounter = errors.New("collection has no counter key")
	ErrIDChange  = errors.New("record id cannot change")
)

// Collection guarda registros T identificados por K bajo dataKey.
// Todas las escrituras son read-modify-write de la colección completa y
// se serializan con mu (una escritura a la vez por colección).
type Collection[K comparable, T any] struct {
	kv         storage.KV
	dataKey    string
	counterKey string
	idOf       func(T) K

	mu sync.Mutex
}

// New crea una colección. counterKey puede ir vacío si los IDs los asigna
// el caller (uuid) y solo se usa Insert.
func New[K comparable, T any](kv storage.KV, dataKey, counterKey string, idOf func(T) K) *Collection[K, T] {
	return &Collection[K, T]{
		kv:         kv,
		dataKey:    strings.TrimSpace(dataKey),
		counterKey: strings.TrimSpace(counterKey),
		idOf:       idOf,
	}
}

// List devuelve los registros en orden de inserción. Nunca nil.
func (c *Collection[K, T]) List(ctx context.Context) ([]T, error) {
	return c.load(ctx)
}

func (c *Collection[K, T]) Get(ctx context.Context, id K) (T, error) {
	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	for _, it := range items {
		if c.idOf(it) == id {
			return it, nil
		}
	}
	return zero, fmt.Errorf("%w: %s id=%v", storage.ErrNotFound, c.dataKey, id)
}

// Find filtra linealmente preservando el orden de inserción.
func (c *Collection[K, T]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

// NextID reserva el siguiente ID del contador y lo persiste.
func (c *Collection[K, T]) NextID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allocate(ctx)
}

// Create reserva un ID y luego agrega el registro construido con él.
// Son dos escrituras separadas: si la segunda falla queda un hueco en
// los IDs, nunca una colisión.
func (c *Collection[K, T]) Create(ctx context.Context, build func(id int64) T) (T, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.allocate(ctx)
	if err != nil {
		return zero, err
	}
	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}

	rec := build(id)
	items = append(items, rec)
	if err := c.save(ctx, items); err != nil {
		return zero, err
	}
	return rec, nil
}

// Insert agrega un registro cuyo ID ya viene asignado.
func (c *Collection[K, T]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	id := c.idOf(rec)
	for _, it := range items {
		if c.idOf(it) == id {
			return zero, fmt.Errorf("%w: %s id=%v", storage.ErrConflict, c.dataKey, id)
		}
	}

	items = append(items, rec)
	if err := c.save(ctx, items); err != nil {
		return zero, err
	}
	return rec, nil
}

// Update aplica mutate sobre una copia del registro y lo persiste en su
// misma posición. Si mutate devuelve error no se escribe nada.
func (c *Collection[K, T]) Update(ctx context.Context, id K, mutate func(*T) error) (T, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}

	idx := -1
	for i, it := range items {
		if c.idOf(it) == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return zero, fmt.Errorf("%w: %s id=%v", storage.ErrNotFound, c.dataKey, id)
	}

	rec := items[idx]
	if err := mutate(&rec); err != nil {
		return zero, err
	}
	if c.idOf(rec) != id {
		return zero, ErrIDChange
	}

	items[idx] = rec
	if err := c.save(ctx, items); err != nil {
		return zero, err
	}
	return rec, nil
}

// Delete es idempotente: borrar un ID inexistente no es error.
func (c *Collection[K, T]) Delete(ctx context.Context, id K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	out := items[:0]
	for _, it := range items {
		if c.idOf(it) != id {
			out = append(out, it)
		}
	}
	if len(out) == len(items) {
		return nil
	}
	return c.save(ctx, out)
}

func (c *Collection[K, T]) allocate(ctx context.Context) (int64, error) {
	if c.counterKey == "" {
		return 0, ErrNoCounter
	}

	var current int64
	raw, ok, err := c.kv.Get(ctx, c.counterKey)
	if err != nil {
		return 0, err
	}
	if ok {
		if err := json.Unmarshal(raw, &current); err != nil {
			return 0, fmt.Errorf("%w: key=%s: %v", storage.ErrCorrupt, c.counterKey, err)
		}
	}

	next := current + 1
	b, _ := json.Marshal(next)
	if err := c.kv.Set(ctx, c.counterKey, b); err != nil {
		return 0, err
	}
	return next, nil
}

func (c *Collection[K, T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.kv.Get(ctx, c.dataKey)
	if err != nil {
		return nil, err
	}
	if !ok || len(raw) == 0 {
		return make([]T, 0), nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: key=%s: %v", storage.ErrCorrupt, c.dataKey, err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

func (c *Collection[K, T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = make([]T, 0)
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.dataKey, err)
	}
	return c.kv.Set(ctx, c.dataKey, b)
}
