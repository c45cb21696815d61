package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/render/nodelink"
)

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	output   string // output file; empty writes DOT to stdout
	format   string // dot, svg or png; defaults to the output extension
	detailed bool   // include attributes and source locations in labels
}

// dotCommand creates the dot command, which draws a document as a
// node-link diagram.
func (c *CLI) dotCommand() *cobra.Command {
	var opts dotOpts

	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Render an IR document as a node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = c.Config.Detailed
			}
			format, err := diagramFormat(opts)
			if err != nil {
				return err
			}
			root, err := loadTree(cmd, args[0])
			if err != nil {
				return err
			}

			out, err := nodelink.Render(cmd.Context(), root, nodelink.Options{Detailed: opts.detailed}, format)
			if err != nil {
				return err
			}
			if opts.output == "" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if err := errors.ValidatePath(opts.output); err != nil {
				return err
			}
			if err := os.WriteFile(opts.output, out, 0o644); err != nil {
				return err
			}
			ui{w: cmd.OutOrStdout()}.file(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.dot, .svg, .png)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, png (default from --output, else dot)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show attributes and source locations")

	return cmd
}

// diagramFormat picks the format from --format, then from the output
// extension, then DOT.
func diagramFormat(opts dotOpts) (nodelink.Format, error) {
	switch {
	case opts.format != "":
		return nodelink.ParseFormat(opts.format)
	case opts.output != "":
		return nodelink.ParseFormat(filepath.Ext(opts.output))
	}
	return nodelink.FormatDOT, nil
}
