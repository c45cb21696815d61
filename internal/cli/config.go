package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/irwalk/pkg/errors"
)

// Config is the TOML configuration file.
//
//	passes = ["resolve", "constfold", "deadcode"]
//	fail_fast = false
//	max_errors = 20
//	revisit_shared = false
//	log_level = "debug"
//	detailed = true
type Config struct {
	Passes        []string `toml:"passes"`
	FailFast      bool     `toml:"fail_fast"`
	MaxErrors     int      `toml:"max_errors"`
	RevisitShared bool     `toml:"revisit_shared"`
	LogLevel      string   `toml:"log_level"`
	Detailed      bool     `toml:"detailed"`
}

// LoadConfig reads the TOML file at path. Unknown keys are an error, so
// typos do not go unnoticed.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if _, err := cfg.level(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	for _, p := range cfg.Passes {
		if err := errors.ValidatePassName(p); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// level returns the configured log level, or InfoLevel when unset.
func (c Config) level() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, errors.Wrap(errors.ErrCodeInvalidInput, err, "log_level")
	}
	return l, nil
}
