package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/conform/pkg/adapters/memory"
	"github.com/aretw0/conform/pkg/ports"
	"github.com/aretw0/conform/pkg/registry"
	"github.com/aretw0/conform/pkg/schema"
	"github.com/aretw0/conform/pkg/schemadoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userDoc = `
type: object
properties:
  name: { type: string }
  age: { type: number, optional: true }
`

func TestRegistry_PutGetValidate(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(memory.NewStore())

	_, err := reg.Put(ctx, "user", []byte(userDoc))
	require.NoError(t, err)

	s, err := reg.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, "object", schema.Describe(s))

	res, err := reg.Validate(ctx, "user", map[string]any{"name": "Ada"})
	require.NoError(t, err)
	assert.True(t, res.Success())

	res, err = reg.Validate(ctx, "user", map[string]any{"age": "old"})
	require.NoError(t, err)
	assert.Equal(t, "property [name]: should be provided, property [age]: should be number", res.Description())
}

func TestRegistry_PutRejectsInvalidDocument(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := registry.New(store)

	_, err := reg.Put(ctx, "broken", []byte("type: enum\nvalues: []\n"))
	var docErr *schemadoc.DocumentError
	require.True(t, errors.As(err, &docErr), "got %v", err)

	_, err = store.Load(ctx, "broken")
	assert.ErrorIs(t, err, ports.ErrSchemaNotFound, "invalid documents must not be stored")
}

func TestRegistry_InvalidNames(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(memory.NewStore())

	for _, name := range []string{"", "-lead", "a/b", "has space", "../up"} {
		_, err := reg.Put(ctx, name, []byte(userDoc))
		assert.ErrorIs(t, err, registry.ErrInvalidName, "name %q", name)
	}
	assert.True(t, registry.ValidName("order.v2_final-1"))
}

func TestRegistry_NotFound(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(memory.NewStore())

	_, err := reg.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ports.ErrSchemaNotFound)

	_, err = reg.Validate(ctx, "ghost", 1)
	assert.ErrorIs(t, err, ports.ErrSchemaNotFound)

	assert.ErrorIs(t, reg.Delete(ctx, "ghost"), ports.ErrSchemaNotFound)
}

func TestRegistry_DeleteAndNames(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(memory.NewStore())

	require.NoError(t, reg.PutSchema(ctx, "b", schema.String()))
	require.NoError(t, reg.PutSchema(ctx, "a", schema.Number()))

	names, err := reg.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, reg.Delete(ctx, "a"))
	names, err = reg.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)
}

func TestRegistry_SeesExternalWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	reg := registry.New(store)

	require.NoError(t, reg.PutSchema(ctx, "id", schema.Number()))
	res, err := reg.Validate(ctx, "id", "abc")
	require.NoError(t, err)
	assert.False(t, res.Success())

	// Another process replaces the document behind the registry's back.
	require.NoError(t, store.Save(ctx, "id", []byte("type: string\n")))
	res, err = reg.Validate(ctx, "id", "abc")
	require.NoError(t, err)
	assert.True(t, res.Success())
}

func TestRegistry_Document(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(memory.NewStore())

	_, err := reg.Put(ctx, "user", []byte(userDoc))
	require.NoError(t, err)

	doc, err := reg.Document(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, userDoc, string(doc))
}

func TestRegistry_Concurrent(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(memory.NewStore())
	require.NoError(t, reg.PutSchema(ctx, "n", schema.Number()))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := reg.Validate(ctx, "n", i)
			assert.NoError(t, err)
			assert.True(t, res.Success())
		}(i)
	}
	wg.Wait()
}
