package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobStoreRoundTrip(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	stores := map[string]BlobStore{
		"local":  local,
		"memory": NewMemory(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			path := store.Allocate()
			other := store.Allocate()
			require.NotEqual(t, path, other)

			exists, err := store.Exists(ctx, path)
			require.NoError(t, err)
			require.False(t, exists)

			_, err = store.Read(ctx, path)
			require.ErrorIs(t, err, ErrNotFound)

			payload := []byte("Hello Webstack!")
			require.NoError(t, store.Write(ctx, path, payload))

			exists, err = store.Exists(ctx, path)
			require.NoError(t, err)
			require.True(t, exists)

			got, err := store.Read(ctx, path)
			require.NoError(t, err)
			require.Equal(t, payload, got)

			// Overwrites replace content, which keeps derivative
			// regeneration idempotent.
			require.NoError(t, store.Write(ctx, path, []byte("v2")))
			got, err = store.Read(ctx, path)
			require.NoError(t, err)
			require.Equal(t, []byte("v2"), got)
		})
	}
}

func TestDerivativeSiblingPaths(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	base := store.Allocate()
	require.NoError(t, store.Write(ctx, base, []byte("original")))
	require.NoError(t, store.Write(ctx, base+"_100", []byte("small")))

	got, err := store.Read(ctx, base)
	require.NoError(t, err)
	require.Equal(t, []byte("original"), got)

	got, err = store.Read(ctx, base+"_100")
	require.NoError(t, err)
	require.Equal(t, []byte("small"), got)
}
