package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/conform/pkg/ports"
)

// Extensions lists the document extensions read by the store, in lookup order.
// Saved documents always use the first one.
// Matching is case-sensitive, as are the names derived from file names.
var Extensions = []string{".yaml", ".yml", ".json"}

// tempPrefix marks in-flight writes. Valid schema names never start with a dot.
const tempPrefix = ".tmp-"

// Store implements ports.SchemaStore on a directory of schema documents.
// The document for a name lives in <name>.yaml (or .yml/.json when authored by hand).
type Store struct {
	BasePath string
}

var _ ports.SchemaStore = (*Store)(nil)

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".conform/schemas".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".conform", "schemas")
	}
	return &Store{BasePath: basePath}
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid schema name %q", name)
	}
	return nil
}

// Save writes doc atomically: a temp file in the same directory is synced and renamed over the destination.
func (s *Store) Save(ctx context.Context, name string, doc []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure schema directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, name+Extensions[0])

	tmpFile, err := os.CreateTemp(s.BasePath, tempPrefix+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(doc); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows refuses to rename over an existing file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing schema file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to schema file: %w", err)
	}

	// Older copies under the other extensions would shadow nothing but still show up in List.
	for _, ext := range Extensions[1:] {
		if err := os.Remove(filepath.Join(s.BasePath, name+ext)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale schema file: %w", err)
		}
	}
	return nil
}

// Load reads the document stored under name.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	for _, ext := range Extensions {
		data, err := os.ReadFile(filepath.Join(s.BasePath, name+ext))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: %s", ports.ErrSchemaNotFound, name)
}

// Delete removes every file stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	for _, ext := range Extensions {
		err := os.Remove(filepath.Join(s.BasePath, name+ext))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete schema file: %w", err)
		}
	}
	return nil
}

// List returns the names of the stored documents in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isDocument(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isDocument(ext string) bool {
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
