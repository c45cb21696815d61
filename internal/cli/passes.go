package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/irwalk/pkg/lang/passes"
)

// passesCommand lists the registered passes.
func (c *CLI) passesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List the available passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui{w: cmd.OutOrStdout()}
			fmt.Fprintln(u.w, StyleTitle.Render("Passes"))
			for _, p := range passes.All() {
				u.keyValue(p.Name, p.Description)
			}
			u.detail("default: %v", defaultPasses)
			return nil
		},
	}
}
