package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TreesConfig holds dynamic tree definitions (read/write).
type TreesConfig struct {
	Trees map[string]TreeEntry `yaml:"trees,omitempty"`
}

// TreeEntry holds configuration for a specific tree.
type TreeEntry struct {
	Database    string `yaml:"database"`
	Description string `yaml:"description,omitempty"`
}

// LoadTrees loads tree configuration from the .kin directory.
func LoadTrees(basePath string) (*TreesConfig, error) {
	treesFile := filepath.Join(basePath, DefaultConfigDir, DefaultTreesFile)

	data, err := os.ReadFile(treesFile)
	if os.IsNotExist(err) {
		// Return empty config if file doesn't exist
		return &TreesConfig{
			Trees: make(map[string]TreeEntry),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading trees file: %w", err)
	}

	var cfg TreesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing trees file: %w", err)
	}

	if cfg.Trees == nil {
		cfg.Trees = make(map[string]TreeEntry)
	}

	return &cfg, nil
}

// Save writes the trees configuration to the trees file.
func (t *TreesConfig) Save(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	treesFile := filepath.Join(configDir, DefaultTreesFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling trees config: %w", err)
	}

	if err := os.WriteFile(treesFile, data, 0600); err != nil {
		return fmt.Errorf("writing trees file: %w", err)
	}

	return nil
}

// Add adds a tree to the configuration.
func (t *TreesConfig) Add(name string, entry TreeEntry) {
	if t.Trees == nil {
		t.Trees = make(map[string]TreeEntry)
	}
	t.Trees[name] = entry
}

// Remove removes a tree from the configuration.
func (t *TreesConfig) Remove(name string) {
	if t.Trees != nil {
		delete(t.Trees, name)
	}
}

// Get returns the configuration for a specific tree.
func (t *TreesConfig) Get(name string) (*TreeEntry, error) {
	if len(t.Trees) == 0 {
		return nil, errors.New("no trees configured")
	}

	entry, ok := t.Trees[name]
	if !ok {
		var b strings.Builder
		count := 0
		for k := range t.Trees {
			if count > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			count++
			if count >= 5 {
				b.WriteString(", ...")
				break
			}
		}
		return nil, fmt.Errorf("tree %q not found (available: %s)", name, b.String())
	}

	return &entry, nil
}

// GetDatabase returns the database path for a tree.
func (t *TreesConfig) GetDatabase(name string) (string, error) {
	entry, err := t.Get(name)
	if err != nil {
		return "", err
	}
	return entry.Database, nil
}

// Exists checks if a tree exists in the configuration.
func (t *TreesConfig) Exists(name string) bool {
	if t.Trees == nil {
		return false
	}
	_, ok := t.Trees[name]
	return ok
}

// TreesExists checks if a trees config file exists in the given path.
func TreesExists(basePath string) bool {
	treesFile := filepath.Join(basePath, DefaultConfigDir, DefaultTreesFile)
	_, err := os.Stat(treesFile)
	return err == nil
}
