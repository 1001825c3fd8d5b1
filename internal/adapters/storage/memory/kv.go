package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"medication-manager/internal/ports/storage"
)

// KV es el sustrato en memoria (modo dev y tests). Copia los bytes en
// ambas direcciones para que nadie comparta el slice guardado.
type KV struct {
	mu    sync.RWMutex
	byKey map[string][]byte
}

var _ storage.KV = (*KV)(nil)

func NewKV() *KV {
	return &KV{
		byKey: make(map[string][]byte),
	}
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byKey[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKey[key] = append([]byte(nil), value...)
	return nil
}

func (s *KV) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byKey, key)
	return nil
}

// Keys devuelve las keys presentes (útil en tests y diagnósticos).
func (s *KV) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		out = append(out, k)
	}
	return out
}
