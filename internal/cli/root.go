package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/irwalk/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "irwalk runs traversal passes over compiler IR",
		Long: `irwalk loads IR documents, runs analysis and rewriting passes over them
and draws them as node-link diagrams.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd); err != nil {
				return err
			}
			c.Logger.Debug(appName, buildinfo.KeyVals()...)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", defaultConfigPath(), "TOML config file")

	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.passesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// AddVerboseFlag registers --verbose (-v) on root. The flag sets the log
// level before the config is read, and it wins over the config's log_level.
func (c *CLI) AddVerboseFlag(root *cobra.Command) {
	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	next := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)

		if next != nil {
			return next(cmd, args)
		}
		return nil
	}
}

// loadConfig reads the config file, if any, and applies its log level
// unless --verbose was given.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	if c.configPath == "" {
		return nil
	}
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath)

	if f := cmd.Flag("verbose"); f != nil && f.Changed {
		return nil
	}
	if cfg.LogLevel != "" {
		level, _ := cfg.level()
		c.SetLogLevel(level)
	}
	return nil
}
