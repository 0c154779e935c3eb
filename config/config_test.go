package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 10.0, cfg.Chart.Grid)
	assert.Equal(t, 80.0, cfg.Chart.NodeWidth)
	assert.Equal(t, 50.0, cfg.Chart.NodeHeight)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	assert.Equal(t, filepath.Join("/tmp/xdg", "storymap"), Dir())
	assert.Equal(t, filepath.Join("/tmp/xdg", "storymap", "config.toml"), Path())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[chart]
grid = 20

[log]
level = "debug"
file = "/tmp/storymap.log"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Chart.Grid)
	assert.Equal(t, 80.0, cfg.Chart.NodeWidth, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/storymap.log", cfg.Log.File)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"negative width", "[chart]\nnode_width = -1\n", true},
		{"zero scale", "[terminal]\nscale_y = 0\n", true},
		{"unknown level", "[log]\nlevel = \"loud\"\n", true},
		{"syntax error", "[chart\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Terminal.ScaleX = 4
	cfg.Log.File = "debug.log"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEnsureExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	created, err := EnsureExists(path)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureExists(path)
	require.NoError(t, err)
	assert.False(t, created)
}
