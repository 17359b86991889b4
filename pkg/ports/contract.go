package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSchemaStoreContract runs a suite of tests to verify that a SchemaStore implementation
// adheres to the defined interface contract.
func RunSchemaStoreContract(t *testing.T, store SchemaStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")
	doc := []byte("type: object\nproperties:\n  id: { type: number }\n")

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, name, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, string(doc), string(loaded))
	})

	t.Run("Save Replaces", func(t *testing.T) {
		replacement := []byte("type: string\n")
		require.NoError(t, store.Save(ctx, name, replacement))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, string(replacement), string(loaded))
	})

	t.Run("Load Isolation", func(t *testing.T) {
		original := []byte("type: boolean\n")
		require.NoError(t, store.Save(ctx, name, original))
		original[6] = 'X'

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "type: boolean\n", string(loaded), "store must not alias caller memory")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, ErrSchemaNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, doc))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrSchemaNotFound, "Load after Delete should return ErrSchemaNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		b := name + "-b"
		a := name + "-a"
		require.NoError(t, store.Save(ctx, b, doc))
		require.NoError(t, store.Save(ctx, a, doc))

		defer func() {
			_ = store.Delete(ctx, a)
			_ = store.Delete(ctx, b)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, a)
		assert.Contains(t, names, b)
		assert.IsIncreasing(t, names, "List should be sorted")
	})

	t.Run("Names Colliding With Internal Keys", func(t *testing.T) {
		// Any name a registry accepts must round-trip, including ones that
		// resemble an adapter's bookkeeping (index keys, temp files).
		for _, n := range []string{"index", "tmp-orders"} {
			require.NoError(t, store.Save(ctx, n, doc), n)
		}
		defer func() {
			_ = store.Delete(ctx, "index")
			_ = store.Delete(ctx, "tmp-orders")
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "index")
		assert.Contains(t, names, "tmp-orders")

		require.NoError(t, store.Save(ctx, name, doc), "store must stay usable")
		loaded, err := store.Load(ctx, "tmp-orders")
		require.NoError(t, err)
		assert.Equal(t, string(doc), string(loaded))
	})
}
