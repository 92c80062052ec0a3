package commands

import (
	"github.com/spf13/cobra"

	"github.com/modnet-labs/nodeops/cmd/nodeops/handlers"
)

// Stop returns the command for stopping a supervised node.
//
// Direct-child nodes stop together with the up command that launched
// them; this command removes a pm2-managed node entry.
func Stop() *cobra.Command {
	var role string
	var index int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop a supervised node",
		Long: `Stop a pm2-supervised node.

The node is addressed by its derived name "<role>-<index>", the same
name the up command registered with the supervisor. Stopping a node
that is not running is not an error.

Examples:
  # Stop the first validator
  nodeops stop --role validator --index 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Stop(cmd.Context(), role, index, verbose)
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Node role: validator, full or archive (required)")
	cmd.Flags().IntVar(&index, "index", 1, "Instance number on this host (1-99)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}
