package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveOverride serializes the override layer (never the defaults) to
// path, creating parent directories as needed.
func (s *Store) SaveOverride(path string) error {
	data, err := yaml.Marshal(s.override)
	if err != nil {
		return fmt.Errorf("encode override: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create override dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write override %q: %w", path, err)
	}
	return nil
}
