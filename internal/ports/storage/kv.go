package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	// ErrCorrupt indica que el valor persistido en una key no es JSON válido.
	ErrCorrupt = errors.New("corrupt persisted data")
)

// KV es el sustrato clave-valor sobre el que viven todas las colecciones.
// Cada key guarda un documento JSON completo (lista, contador o singleton).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
