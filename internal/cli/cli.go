package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/irwalk/pkg/lang/passes"
	"github.com/matzehuels/irwalk/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and config lookup.
	appName = "irwalk"

	// configEnv names the environment variable holding a default config path.
	configEnv = "IRWALK_CONFIG"

	// configFile is read from the working directory when present.
	configFile = "irwalk.toml"
)

// defaultPasses is the pipeline run when neither flags nor config name one.
var defaultPasses = []string{"resolve", "constfold", "deadcode"}

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Timestamps are reported at
// debug level only.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportTimestamp(level <= log.DebugLevel)
}

// =============================================================================
// Runner Factory
// =============================================================================

// runFlags are the pipeline settings that can come from flags or config.
type runFlags struct {
	passes        string
	failFast      bool
	maxErrors     int
	revisitShared bool
}

// pipelineOptions merges the config with the flags the user set
// explicitly. Flags win.
func (c *CLI) pipelineOptions(f runFlags, changed func(string) bool) (pipeline.Options, []pipeline.Pass, error) {
	opts := pipeline.Options{
		FailFast:      c.Config.FailFast,
		MaxErrors:     c.Config.MaxErrors,
		RevisitShared: c.Config.RevisitShared,
	}
	if changed("fail-fast") {
		opts.FailFast = f.failFast
	}
	if changed("max-errors") {
		opts.MaxErrors = f.maxErrors
	}
	if changed("revisit-shared") {
		opts.RevisitShared = f.revisitShared
	}

	names := c.Config.Passes
	if changed("passes") {
		names = parsePassList(f.passes)
	}
	if len(names) == 0 {
		names = defaultPasses
	}
	ps, err := passes.ByNames(names)
	if err != nil {
		return opts, nil, err
	}
	return opts, ps, opts.ValidateAndSetDefaults()
}

// parsePassList parses a comma-separated pass list.
func parsePassList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// Paths
// =============================================================================

// defaultConfigPath returns the config file named by IRWALK_CONFIG, else
// ./irwalk.toml if it exists, else "".
func defaultConfigPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	if _, err := os.Stat(configFile); err == nil {
		return configFile
	}
	return ""
}
