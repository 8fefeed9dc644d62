package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// shellConfig holds the shell's non-functional settings. None of it is
// required: the zero value plus defaults is a perfectly usable shell,
// matching the original program's zero-configuration startup.
type shellConfig struct {
	HistoryFile     string `yaml:"history_file"`
	Prompt          string `yaml:"prompt"`
	LogLevel        string `yaml:"log_level"`
	MetricsAddr     string `yaml:"metrics_addr"`
	DefaultSavePath string `yaml:"default_save_path"`
}

func defaultShellConfig() shellConfig {
	return shellConfig{
		HistoryFile:     ".railsim_history",
		Prompt:          "railsim> ",
		LogLevel:        "info",
		DefaultSavePath: "track.railsim",
	}
}

// loadShellConfig reads an optional YAML config file and layers it over
// the defaults. An empty path is not an error: the shell just runs with
// defaults. A non-empty path that cannot be opened is an error, since the
// caller asked for that specific file.
func loadShellConfig(path string) (shellConfig, error) {
	cfg := defaultShellConfig()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var overrides shellConfig
	if err := yaml.NewDecoder(file).Decode(&overrides); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	if overrides.HistoryFile != "" {
		cfg.HistoryFile = overrides.HistoryFile
	}
	if overrides.Prompt != "" {
		cfg.Prompt = overrides.Prompt
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.MetricsAddr != "" {
		cfg.MetricsAddr = overrides.MetricsAddr
	}
	if overrides.DefaultSavePath != "" {
		cfg.DefaultSavePath = overrides.DefaultSavePath
	}
	return cfg, nil
}
