// Package config loads server settings from an optional YAML file. Flags
// override whatever the file sets.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings.
type Config struct {
	Addr           string `yaml:"addr"`
	DBPath         string `yaml:"db"`
	LogPath        string `yaml:"log"`
	AdminUser      string `yaml:"admin_user"`
	StrictHandover bool   `yaml:"strict_handover"`
}

// Default returns the built-in settings used when no file or flag says
// otherwise.
func Default() Config {
	return Config{
		Addr:      ":8080",
		DBPath:    "transferd.sqlite3",
		AdminUser: "Admin",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
