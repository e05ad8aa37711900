package cache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "acme", json.RawMessage(`{"a":1}`)))

	v, ok, err := s.Get(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(v))
}

func TestSQLiteStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	require.NoError(t, s.Put(ctx, "k", json.RawMessage(`1`)))
	require.NoError(t, s.Put(ctx, "k", json.RawMessage(`2`)))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", string(v))
}

func TestSQLiteStore_Flush(t *testing.T) {
	s := newTestSQLite(t)
	assert.NoError(t, s.Flush(context.Background()))
}
