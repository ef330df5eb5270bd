package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the config back to the file it was loaded from, or to the
// user's config directory when it came from defaults alone. Path is set
// to the file written.
func (c *Config) Save() error {
	path := c.Path
	if path == "" {
		path = filepath.Join(ConfigDir(), "config.yaml")
	}
	if err := c.SaveTo(path); err != nil {
		return err
	}
	c.Path = path
	return nil
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
