package postgres

import (
	"context"
	"os"
	"testing"

	"medication-manager/internal/adapters/storage/storagetest"

	"github.com/stretchr/testify/require"
)

// Necesita una base real: MEDMGR_TEST_PG_DSN=postgres://...
func TestKV_Conformance(t *testing.T) {
	dsn := os.Getenv("MEDMGR_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("MEDMGR_TEST_PG_DSN not set")
	}

	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	kv := NewKV(db)
	require.NoError(t, kv.EnsureSchema(context.Background()))
	_, err = db.Exec(`DELETE FROM kv_entries`)
	require.NoError(t, err)

	storagetest.RunKV(t, kv)
}
