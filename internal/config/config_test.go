package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 0, cfg.MaxGroundRules)

	_, ok := cfg.Timeout()
	assert.False(t, ok)
}

func TestLoadReadsFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groundcli.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
debug = true
timeout_seconds = 30
max_ground_rules = 1000
no_color = true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, 1000, cfg.MaxGroundRules)

	d, ok := cfg.Timeout()
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, d)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groundcli.toml")
	require.NoError(t, os.WriteFile(path, []byte(`debug = [`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
