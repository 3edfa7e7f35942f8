package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Load reads the configuration from a YAML file and environment variables.
// Environment variables take priority over the file. When path is empty or the
// file does not exist, only the environment and env-default tags are used.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
			if err := cfg.Validate(); err != nil {
				return Config{}, fmt.Errorf("config: %w", err)
			}
			return cfg, nil
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
