package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/irwalk/pkg/io"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/pipeline"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	runFlags
	output string // rewritten document path
	print  bool   // print the resulting tree
}

// runCommand creates the run command. It runs a pass pipeline over a
// document, prints the diagnostics and per-pass stats, and optionally
// writes the rewritten tree.
//
// Passes default to the config file, then to resolve,constfold,deadcode.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run passes over an IR document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeOpts, ps, err := c.pipelineOptions(opts.runFlags, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			root, err := loadTree(cmd, args[0])
			if err != nil {
				return err
			}
			return c.runPipeline(cmd, root, pipeOpts, ps, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.passes, "passes", "p", "", "comma-separated passes (see 'irwalk passes')")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "abort a pass at its first error")
	cmd.Flags().IntVar(&opts.maxErrors, "max-errors", pipeline.DefaultMaxErrors, "abort a pass after this many errors (-1 for no limit)")
	cmd.Flags().BoolVar(&opts.revisitShared, "revisit-shared", false, "visit shared nodes once per parent")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the rewritten document to this file (.json, .yaml)")
	cmd.Flags().BoolVar(&opts.print, "print", false, "print the rewritten tree")

	return cmd
}

func (c *CLI) runPipeline(cmd *cobra.Command, root ir.Node, pipeOpts pipeline.Options, ps []pipeline.Pass, opts *runOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	u := ui{w: cmd.OutOrStdout()}

	prog := newProgress(logger)
	res, runErr := pipeline.NewRunner(logger, pipeOpts).Run(ctx, root, ps...)
	if res == nil {
		return runErr
	}

	for _, d := range res.Diagnostics {
		u.diagnostic(d)
	}
	for _, st := range res.Passes {
		u.passStats(st.Name, st.Diagnostics, st.Changed)
	}
	if runErr != nil {
		return runErr
	}
	prog.done("pipeline finished", "run", res.RunID[:8], "passes", len(res.Passes), "diagnostics", len(res.Diagnostics))

	if opts.print {
		fmt.Fprint(cmd.OutOrStdout(), ir.Format(res.Root))
	}
	if opts.output != "" {
		if err := io.ExportFile(res.Root, opts.output); err != nil {
			return err
		}
		u.file(opts.output)
	}
	u.success("%d passes, %d diagnostics", len(res.Passes), len(res.Diagnostics))
	return nil
}
