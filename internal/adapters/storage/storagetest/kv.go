// Package storagetest tiene la batería común que corre contra cada
// implementación de storage.KV.
package storagetest

import (
	"context"
	"testing"

	"medication-manager/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func RunKV(t *testing.T, kv storage.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key is absent", func(t *testing.T) {
		v, ok, err := kv.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "medicines_data", []byte(`[{"id":1}]`)))

		v, ok, err := kv.Get(ctx, "medicines_data")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `[{"id":1}]`, string(v))
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "counter", []byte("1")))
		require.NoError(t, kv.Set(ctx, "counter", []byte("2")))

		v, _, err := kv.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, "2", string(v))
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "current_user", []byte(`{"id":"u"}`)))
		require.NoError(t, kv.Remove(ctx, "current_user"))
		require.NoError(t, kv.Remove(ctx, "current_user"))

		_, ok, err := kv.Get(ctx, "current_user")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "a", []byte("1")))
		require.NoError(t, kv.Set(ctx, "b", []byte("2")))
		require.NoError(t, kv.Remove(ctx, "a"))

		v, ok, err := kv.Get(ctx, "b")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2", string(v))
	})
}
