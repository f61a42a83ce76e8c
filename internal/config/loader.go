package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// SearchPaths are tried in order when no config file is named. Finding none
// is not an error: settings then come from the environment and defaults.
var SearchPaths = []string{"config.yaml", "config/vocabctl.yaml"}

// Load reads the file named by CONFIG_PATH, falling back to SearchPaths.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_PATH"))
}

// LoadFrom reads path, or the first of SearchPaths that exists when path is
// empty. Environment variables override YAML values, which override the
// env-default tags. A named path that does not exist is an error.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		path = firstExisting(SearchPaths)
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); !errors.Is(err, fs.ErrNotExist) {
			return p
		}
	}
	return ""
}
