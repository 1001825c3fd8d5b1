package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"medication-manager/internal/ports/blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetHeadDelete(t *testing.T) {
	store := New()
	ctx := context.Background()

	info, err := store.Put(ctx, "reports/a.pdf", bytes.NewReader([]byte("pdf-bytes")), blob.PutOptions{
		ContentType: "application/pdf",
		Metadata:    map[string]string{"name": "a.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size)
	assert.NotEmpty(t, info.ETag)

	got, rc, err := store.Get(ctx, "reports/a.pdf")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "pdf-bytes", string(body))
	assert.Equal(t, "application/pdf", got.ContentType)

	head, err := store.Head(ctx, "reports/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", head.Metadata["name"])

	ok, err := store.Delete(ctx, "reports/a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete(ctx, "reports/a.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_MissingAndDuplicate(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Head(ctx, "missing")
	assert.True(t, errors.Is(err, blob.ErrNotFound))
	_, _, err = store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, blob.ErrNotFound))

	_, err = store.Put(ctx, "k", bytes.NewReader([]byte("v")), blob.PutOptions{})
	require.NoError(t, err)
	_, err = store.Put(ctx, "k", bytes.NewReader([]byte("v2")), blob.PutOptions{})
	assert.True(t, errors.Is(err, blob.ErrExists))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStore_PutReadErrorAndDriver(t *testing.T) {
	store := New()
	assert.Equal(t, blob.DriverMemory, store.Driver())

	_, err := store.Put(context.Background(), "bad", failingReader{}, blob.PutOptions{})
	assert.Error(t, err)

	_, err = store.Put(context.Background(), " ", bytes.NewReader(nil), blob.PutOptions{})
	assert.Error(t, err)
}
