// Package presets holds named configurations for common network conditions.
package presets

import (
	"fmt"
	"sort"

	"github.com/tempomesh/go-tempomesh/config"
)

var presets = map[string]config.Config{}

func register(name string, cfg config.Config) {
	if _, exists := presets[name]; exists {
		panic(fmt.Sprintf("preset %s already registered", name))
	}
	presets[name] = cfg
}

// Options returns the names of all registered presets.
func Options() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the preset with the given name.
func Get(name string) (config.Config, error) {
	cfg, exists := presets[name]
	if !exists {
		return config.Config{}, fmt.Errorf("preset %s is not registered, options: %v", name, Options())
	}
	return cfg, nil
}
