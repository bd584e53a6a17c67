// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Calculator CalculatorConfig `toml:"calculator"`
	History    HistoryConfig    `toml:"history"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// CalculatorConfig maps calculator settings.
type CalculatorConfig struct {
	Variant *string `toml:"variant"`
}

// HistoryConfig maps history browser settings.
type HistoryConfig struct {
	Last *int `toml:"last"`
}

// ServerConfig maps HTTP server settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DefaultTemplate is written when the config file does not exist yet.
const DefaultTemplate = `# calcdeck configuration

[calculator]
# Starting tab: "basic" or "scientific".
# variant = "basic"

[history]
# Show only the last N tape entries in the history browser.
# last = 50

[server]
# Listen address for "calcdeck serve".
# addr = ":8080"

[log]
# debug, info, warn or error.
# level = "info"
# file = "~/.local/state/calcdeck/calcdeck.log"
`
