package collection

import (
	"context"
	"errors"
	"testing"

	"medication-manager/internal/adapters/storage/memory"
	"medication-manager/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func TestCell_LoadStoreClear(t *testing.T) {
	c := NewCell[account](memory.NewKV(), "current_user")
	ctx := context.Background()

	_, ok, err := c.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "starts empty")

	require.NoError(t, c.Store(ctx, account{ID: "1", Email: "a@x.com"}))
	got, ok, err := c.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@x.com", got.Email)

	require.NoError(t, c.Store(ctx, account{ID: "2", Email: "b@x.com"}))
	got, _, _ = c.Load(ctx)
	assert.Equal(t, "2", got.ID, "store overwrites")

	require.NoError(t, c.Clear(ctx))
	require.NoError(t, c.Clear(ctx))
	_, ok, _ = c.Load(ctx)
	assert.False(t, ok)
}

func TestCell_Corrupt(t *testing.T) {
	kv := memory.NewKV()
	require.NoError(t, kv.Set(context.Background(), "current_user", []byte("{")))

	_, _, err := NewCell[account](kv, "current_user").Load(context.Background())
	assert.True(t, errors.Is(err, storage.ErrCorrupt))
}
