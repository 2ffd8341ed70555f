package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects the database the example runs against.
type Config struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

// LoadConfig reads a YAML config file. A missing path falls back to an
// in-memory SQLite database so the example runs with no setup.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Driver: "sqlite3",
		DSN:    "file:example?mode=memory&cache=shared",
		Debug:  true,
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Driver == "" || cfg.DSN == "" {
		return Config{}, fmt.Errorf("config %s: driver and dsn are required", path)
	}
	return cfg, nil
}
