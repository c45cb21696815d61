package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/irwalk/pkg/io"
	"github.com/matzehuels/irwalk/pkg/ir"
	"github.com/matzehuels/irwalk/pkg/lang"
)

// dumpOpts holds the command-line flags for the dump command.
type dumpOpts struct {
	output string // converted document path; empty prints the tree
}

// dumpCommand creates the dump command. Without --output it prints the
// document as an indented tree; with it, the document is written in the
// format named by the output extension.
func (c *CLI) dumpCommand() *cobra.Command {
	var opts dumpOpts

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Print an IR document as a tree or convert it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := loadTree(cmd, args[0])
			if err != nil {
				return err
			}
			if opts.output == "" {
				fmt.Fprint(cmd.OutOrStdout(), ir.Format(root))
				return nil
			}
			if err := io.ExportFile(root, opts.output); err != nil {
				return err
			}
			u := ui{w: cmd.OutOrStdout()}
			u.success("Converted %s", args[0])
			u.file(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the document to this file (.json, .yaml)")
	return cmd
}

// loadTree imports the document at path with the language factory.
func loadTree(cmd *cobra.Command, path string) (ir.Node, error) {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)
	root, err := io.ImportFile(path, lang.Factory{})
	if err != nil {
		return nil, err
	}
	logger.Debug("imported", "root", ir.Dbp(root))
	prog.done("loaded document", "path", path)
	return root, nil
}
