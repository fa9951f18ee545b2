// Package config loads the optional groundcli.toml configuration file the
// CLI front end consults for defaults that would otherwise need repeating
// on every invocation.
package config

import (
	"os"
	"time"

	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config is the CLI's tunable surface. Every field has a zero-value
// default; the file may set any subset.
type Config struct {
	// Debug enables debug mode (extra invariant assertions and verbose
	// logging) for every run, equivalent to passing -debug each time.
	Debug bool `toml:"debug"`
	// TimeoutSeconds bounds one grounding run's wall-clock time. Zero
	// means no deadline.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// MaxGroundRules aborts a run whose ground program exceeds this many
	// statements. Zero means unlimited.
	MaxGroundRules int `toml:"max_ground_rules"`
	// NoColor disables colored diagnostics.
	NoColor bool `toml:"no_color"`
}

// DefaultPath is where Load looks when the caller passes an empty path.
const DefaultPath = "groundcli.toml"

// Load reads path (or DefaultPath when path is empty). A missing file is
// not an error — it yields the zero Config.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// Timeout returns the configured deadline, and whether one is set.
func (c Config) Timeout() (time.Duration, bool) {
	if c.TimeoutSeconds <= 0 {
		return 0, false
	}
	return time.Duration(c.TimeoutSeconds) * time.Second, true
}
