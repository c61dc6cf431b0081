package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the catalog to path as an indented JSON document, creating
// parent directories as needed.
func Save(c *Catalog, path string) error {
	if c == nil {
		return fmt.Errorf("catalog is nil")
	}

	data, err := json.MarshalIndent(Document{Catalog: c}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing catalog %s: %w", path, err)
	}
	return nil
}

// Load reads a catalog JSON document from path. A missing file is fatal
// to the run: downstream crosswalk validation cannot proceed without the
// catalog's identifier set.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if doc.Catalog == nil {
		return nil, fmt.Errorf("catalog %s: missing top-level catalog object", path)
	}
	return doc.Catalog, nil
}
