package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salessavvy/storefront/pkg/config"
)

func openStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(context.Background(), config.LocalStoreConfig{
		Path: filepath.Join(t.TempDir(), "storefront.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMissingKeyIsNotAnError(t *testing.T) {
	store := openStore(t)

	_, found, err := store.Get(context.Background(), "shuffle_order")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetAllThenGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	record := map[string]string{
		"shuffle_order":     "3,1,2",
		"shuffle_timestamp": "1700000000000",
		"shuffle_user":      "alice",
	}
	require.NoError(t, store.SetAll(ctx, record))

	for key, want := range record {
		got, found, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, found, "key %s", key)
		assert.Equal(t, want, got, "key %s", key)
	}
}

func TestSetAllOverwritesExistingKeys(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetAll(ctx, map[string]string{"shuffle_user": "alice"}))
	require.NoError(t, store.SetAll(ctx, map[string]string{"shuffle_user": "bob"}))

	got, found, err := store.Get(ctx, "shuffle_user")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "bob", got)
}

func TestValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storefront.db")

	first, err := New(ctx, config.LocalStoreConfig{Path: path}, nil)
	require.NoError(t, err)
	require.NoError(t, first.SetAll(ctx, map[string]string{"shuffle_user": "alice"}))
	require.NoError(t, first.Close())

	second, err := New(ctx, config.LocalStoreConfig{Path: path}, nil)
	require.NoError(t, err)
	defer second.Close()

	got, found, err := second.Get(ctx, "shuffle_user")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "alice", got)
}

func TestDelRemovesKeys(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetAll(ctx, map[string]string{"shuffle_user": "alice"}))
	require.NoError(t, store.Del(ctx, "shuffle_user"))

	_, found, err := store.Get(ctx, "shuffle_user")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New(context.Background(), config.LocalStoreConfig{}, nil)
	require.Error(t, err)
}
