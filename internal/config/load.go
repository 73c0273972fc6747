package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loaded captures the resolved override path, the populated store, and
// non-fatal warnings.
type Loaded struct {
	Path     string
	Store    *Store
	Warnings []Warning
	Exists   bool
}

// Load resolves the override file location and builds the layered
// store. A missing file is not an error: the store starts from
// defaults and the caller gets a warning. An unreadable or unparseable
// file is fatal; callers must not fall back to defaults silently.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	st := NewStore()
	content, err := os.ReadFile(resolvedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Loaded{
				Path:  resolvedPath,
				Store: st,
				Warnings: []Warning{{
					Message: fmt.Sprintf("override file %q not found; using defaults", resolvedPath),
				}},
				Exists: false,
			}, nil
		}
		return Loaded{}, fmt.Errorf("read override %q: %w", resolvedPath, err)
	}

	var layer map[string]map[string]any
	if err := yaml.Unmarshal(content, &layer); err != nil {
		return Loaded{}, fmt.Errorf("parse override %q: %w", resolvedPath, err)
	}
	if layer != nil {
		st.override = layer
	}

	return Loaded{
		Path:     resolvedPath,
		Store:    st,
		Warnings: validateOverride(st.defaults, st.override),
		Exists:   true,
	}, nil
}
