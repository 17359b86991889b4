package ports

import (
	"context"
	"errors"
)

// ErrSchemaNotFound is returned when no document is stored under a name.
var ErrSchemaNotFound = errors.New("schema not found")

// SchemaStore persists schema documents by name.
// Documents are stored as given; parsing is the caller's concern.
type SchemaStore interface {
	// Save stores doc under name, replacing any previous document.
	Save(ctx context.Context, name string, doc []byte) error

	// Load retrieves the document stored under name.
	// Returns ErrSchemaNotFound if there is none.
	Load(ctx context.Context, name string) ([]byte, error)

	// Delete removes the document stored under name.
	// Deleting an unknown name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)
}
