package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config is the optional --config file's shape: which builtin directive
// sub-Specs are composed into the root Spec, and where the render cache
// persists.
type config struct {
	EnabledDirectives []string `yaml:"enabled-directives"`
	CacheDir          string   `yaml:"cache-dir"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var c config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &c, nil
}
