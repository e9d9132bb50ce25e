// Package arkconfig loads the runtime configuration the VM's memory and
// recursion ceilings are seeded from: a YAML document decoded with
// gopkg.in/yaml.v3, overlaid onto built-in defaults.
package arkconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the process-wide memory/recursion/stats knobs.
type Config struct {
	MaxMemoryMB    int  `yaml:"max_memory_mb"`
	RecursionLimit int  `yaml:"recursion_limit"`
	StatsOnExit    bool `yaml:"stats_on_exit"`

	// MastStorePath is the sqlite file internal/mast.OpenStore uses for its
	// content-addressed object store; ":memory:" for an ephemeral store.
	MastStorePath string `yaml:"mast_store_path"`
}

// Default returns the configuration in effect before any YAML overlay is
// applied: a 256MB memory ceiling, a 512-frame recursion limit, and an
// ephemeral MAST store.
func Default() Config {
	return Config{
		MaxMemoryMB:    256,
		RecursionLimit: 512,
		StatsOnExit:    false,
		MastStorePath:  ":memory:",
	}
}

// Load reads a YAML document from path and overlays it onto Default(). A
// missing file is not an error — callers get the defaults back unchanged;
// config is an optional overlay, never a required input.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("arkconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("arkconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}
