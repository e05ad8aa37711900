package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "k", json.RawMessage(`{"a":1}`)))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(v))
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Put(ctx, "k", json.RawMessage(`1`)))
	require.NoError(t, s.Put(ctx, "k", json.RawMessage(`2`)))

	v, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "2", string(v))
	assert.Equal(t, 1, s.Len())
}

func TestFileStore_FlushAndReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.json")

	s := NewFile(path)
	require.NoError(t, s.Put(ctx, "acme", json.RawMessage(`{"organic":[]}`)))
	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Close())

	reopened := NewFile(path)
	v, ok, err := reopened.Get(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"organic":[]}`, string(v))
}

func TestFileStore_MissingFileStartsEmpty(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "nope.json"))
	_, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFile(path)
	_, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_FlushCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.json")
	s := NewFile(path)
	require.NoError(t, s.Put(context.Background(), "k", json.RawMessage(`1`)))
	require.NoError(t, s.Flush(context.Background()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
