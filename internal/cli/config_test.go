package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadShellConfig_DefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := loadShellConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultShellConfig(), cfg)
}

func TestLoadShellConfig_MissingFileIsError(t *testing.T) {
	_, err := loadShellConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadShellConfig_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.railsim.yaml")
	content := "prompt: \"sim> \"\nlog_level: debug\nmetrics_addr: \":9100\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadShellConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sim> ", cfg.Prompt)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	// Unset fields still fall back to defaults.
	assert.Equal(t, defaultShellConfig().HistoryFile, cfg.HistoryFile)
}
