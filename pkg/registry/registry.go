package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/aretw0/conform/pkg/ports"
	"github.com/aretw0/conform/pkg/schema"
	"github.com/aretw0/conform/pkg/schemadoc"
)

// ErrInvalidName is returned for schema names that cannot be stored.
var ErrInvalidName = errors.New("invalid schema name")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidName reports whether name can be used to store a schema.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

type entry struct {
	doc    []byte
	schema schema.Schema
}

// Registry resolves schema names to compiled schemas.
// Documents live in the store; compiled schemas are cached per document
// so that writes from other processes sharing the store are picked up.
type Registry struct {
	store ports.SchemaStore

	mu    sync.RWMutex
	cache map[string]entry
}

// New creates a registry backed by store.
func New(store ports.SchemaStore) *Registry {
	return &Registry{
		store: store,
		cache: make(map[string]entry),
	}
}

func checkName(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Put parses doc and stores it under name.
// Invalid documents are rejected with a *schemadoc.DocumentError and never stored.
func (r *Registry) Put(ctx context.Context, name string, doc []byte) (schema.Schema, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	s, err := schemadoc.Parse(doc)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx, name, doc); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = entry{doc: bytes.Clone(doc), schema: s}
	r.mu.Unlock()
	return s, nil
}

// PutSchema stores an already built schema under name.
func (r *Registry) PutSchema(ctx context.Context, name string, s schema.Schema) error {
	doc, err := schemadoc.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.Put(ctx, name, doc)
	return err
}

// Get returns the compiled schema stored under name.
func (r *Registry) Get(ctx context.Context, name string) (schema.Schema, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	doc, err := r.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok && bytes.Equal(cached.doc, doc) {
		return cached.schema, nil
	}

	s, err := schemadoc.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("stored schema %q: %w", name, err)
	}
	r.mu.Lock()
	r.cache[name] = entry{doc: doc, schema: s}
	r.mu.Unlock()
	return s, nil
}

// Document returns the raw document stored under name.
func (r *Registry) Document(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return r.store.Load(ctx, name)
}

// Delete removes the schema stored under name.
// Returns ports.ErrSchemaNotFound if there is none.
func (r *Registry) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, err := r.store.Load(ctx, name); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, name); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.cache, name)
	r.mu.Unlock()
	return nil
}

// Names returns the stored schema names in ascending order.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}

// Validate checks value against the schema stored under name.
// The error is only set when the schema cannot be resolved.
func (r *Registry) Validate(ctx context.Context, name string, value any) (schema.Result, error) {
	s, err := r.Get(ctx, name)
	if err != nil {
		return schema.Result{}, err
	}
	return schema.Validate(s, value), nil
}
