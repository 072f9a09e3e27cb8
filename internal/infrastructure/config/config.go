// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for kin configuration.
	DefaultConfigDir = ".kin"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultTreesFile is the default trees file name.
	DefaultTreesFile = "trees.yaml"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	Layout LayoutConfig `yaml:"layout,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	// For per-tree databases, this is computed dynamically using SQLitePathForTree.
	Path string `yaml:"path,omitempty"`
}

// LayoutConfig holds parameters for the force-directed graph layout.
type LayoutConfig struct {
	Iterations int     `yaml:"iterations,omitempty"`
	Spring     float64 `yaml:"spring,omitempty"`
	Seed       int64   `yaml:"seed,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Iterations: 50,
			Spring:     3,
			Seed:       42,
		},
	}
}

// Load loads configuration from the .kin directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'kin trees create' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// ConfigDir returns the path to the .kin config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// TreesFilePath returns the path to the trees file.
func TreesFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultTreesFile)
}

// Exists checks if a kin config exists in the given path.
func Exists(basePath string) bool {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
	_, err := os.Stat(configFile)
	return err == nil
}

// SanitizeTreeName converts a tree name to a valid directory name.
func SanitizeTreeName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}

// SQLitePathForTree returns the SQLite database path for a given tree.
func SQLitePathForTree(basePath, treeName string) string {
	return filepath.Join(basePath, DefaultConfigDir, "trees", SanitizeTreeName(treeName), "kin.db")
}

// TreeDir returns the directory path for a given tree.
func TreeDir(basePath, treeName string) string {
	return filepath.Join(basePath, DefaultConfigDir, "trees", SanitizeTreeName(treeName))
}
