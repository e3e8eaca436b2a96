package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/morler/scaff/apperrors"
)

// Config is the persisted default-snapshot setting of a store.
type Config struct {
	DefaultSnapshot *string `json:"defaultSnapshot"`

	store *Store
}

// NewConfig returns an empty config bound to s, without reading config.json.
func (s *Store) NewConfig() *Config {
	return &Config{store: s}
}

// LoadConfig reads the store's config.json. A missing file is an empty config.
func (s *Store) LoadConfig() (*Config, error) {
	cfg := s.NewConfig()
	path := s.configPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return nil, apperrors.IOFailure("read config", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.MalformedConfig(path, err)
	}
	return cfg, nil
}

func (s *Store) configPath() string {
	return filepath.Join(s.dir, ConfigFileName)
}

// Default returns the default snapshot name, if one is set.
func (c *Config) Default() (string, bool) {
	if c.DefaultSnapshot == nil {
		return "", false
	}
	return *c.DefaultSnapshot, true
}

// SetDefault makes the snapshot found by name the default and persists it. The
// stored name of the snapshot is recorded, not the argument. When no snapshot
// matches, nothing changes on disk or in c.
func (c *Config) SetDefault(name string) error {
	snap, err := c.store.FindByName(name)
	if err != nil {
		return err
	}

	previous := c.DefaultSnapshot
	stored := snap.Name
	c.DefaultSnapshot = &stored
	if err := c.Save(); err != nil {
		c.DefaultSnapshot = previous
		return err
	}
	return nil
}

// ClearDefault removes the default and persists the change.
func (c *Config) ClearDefault() error {
	c.DefaultSnapshot = nil
	return c.Save()
}

// Save writes config.json, creating the store directory if needed.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeFileAtomic(c.store.dir, c.store.configPath(), append(data, '\n'))
}
