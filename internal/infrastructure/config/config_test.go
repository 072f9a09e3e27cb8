package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTreeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple lowercase",
			input:    "mytree",
			expected: "mytree",
		},
		{
			name:     "uppercase converted",
			input:    "MyTree",
			expected: "mytree",
		},
		{
			name:     "spaces to underscores",
			input:    "my tree",
			expected: "my_tree",
		},
		{
			name:     "hyphens to underscores",
			input:    "my-tree",
			expected: "my_tree",
		},
		{
			name:     "special characters removed",
			input:    "my@tree!",
			expected: "mytree",
		},
		{
			name:     "consecutive underscores collapsed",
			input:    "my--tree",
			expected: "my_tree",
		},
		{
			name:     "leading trailing underscores trimmed",
			input:    "-my-tree-",
			expected: "my_tree",
		},
		{
			name:     "empty string returns default",
			input:    "",
			expected: "default",
		},
		{
			name:     "only special chars returns default",
			input:    "!!!",
			expected: "default",
		},
		{
			name:     "numbers preserved",
			input:    "tree123",
			expected: "tree123",
		},
		{
			name:     "complex mixed input",
			input:    "Stark Family (Branch 1)",
			expected: "stark_family_branch_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeTreeName(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSQLitePathForTree(t *testing.T) {
	result := SQLitePathForTree("/home/user/project", "My Tree")
	assert.Equal(t, filepath.Join("/home/user/project", ".kin", "trees", "my_tree", "kin.db"), result)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 50, cfg.Layout.Iterations)
	assert.Equal(t, float64(3), cfg.Layout.Spring)
	assert.Equal(t, int64(42), cfg.Layout.Seed)
	assert.Empty(t, cfg.SQLite.Path)
}

func TestConfigDir(t *testing.T) {
	result := ConfigDir("/home/user/project")
	assert.Equal(t, filepath.Join("/home/user/project", ".kin"), result)
}

func TestConfigFilePath(t *testing.T) {
	result := ConfigFilePath("/home/user/project")
	assert.Equal(t, filepath.Join("/home/user/project", ".kin", "config.yaml"), result)
}

func TestWriteAndLoad(t *testing.T) {
	base := t.TempDir()

	require.NoError(t, WriteDefault(base))
	assert.True(t, Exists(base))

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Layout.Iterations)

	// A second WriteDefault must refuse to clobber the file
	assert.Error(t, WriteDefault(base))
}

func TestTreesConfig(t *testing.T) {
	base := t.TempDir()

	cfg, err := LoadTrees(base)
	require.NoError(t, err)
	assert.Empty(t, cfg.Trees)

	cfg.Add("ancestors", TreeEntry{
		Database:    SQLitePathForTree(base, "ancestors"),
		Description: "maternal side",
	})
	require.NoError(t, cfg.Save(base))

	loaded, err := LoadTrees(base)
	require.NoError(t, err)
	assert.True(t, loaded.Exists("ancestors"))

	entry, err := loaded.Get("ancestors")
	require.NoError(t, err)
	assert.Equal(t, "maternal side", entry.Description)

	_, err = loaded.Get("missing")
	assert.ErrorContains(t, err, "not found")

	loaded.Remove("ancestors")
	assert.False(t, loaded.Exists("ancestors"))
}
