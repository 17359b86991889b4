package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// documentExtensions lists the file types LoadDir picks up. Matching is
// case-sensitive, like the file store, so both see the same schemas.
var documentExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// LoadDir creates a store seeded from the schema documents in dir.
// Each *.yaml, *.yml or *.json file is stored under its file name without
// extension. Subdirectories are not scanned.
func LoadDir(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	docs := make(map[string][]byte)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !documentExtensions[ext] {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if _, dup := docs[name]; dup {
			return nil, fmt.Errorf("schema %s defined by more than one file in %s", name, dir)
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		docs[name] = data
	}
	return &Store{docs: docs}, nil
}
