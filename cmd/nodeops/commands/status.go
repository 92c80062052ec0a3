package commands

import (
	"github.com/spf13/cobra"

	"github.com/modnet-labs/nodeops/cmd/nodeops/handlers"
)

// Status returns the command for a single-shot node diagnostic.
//
// Optional flags:
//
//	--json: Output in JSON format
func Status() *cobra.Command {
	var role string
	var index int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show node liveness and RPC health",
		Long: `Show a single-shot diagnostic for one node.

The node is addressed by its derived name "<role>-<index>"; ports are
derived the same way the up command derives them, so no configuration
file is needed.

Examples:
  # Check the first validator
  nodeops status --role validator --index 1

  # Get status in JSON format
  nodeops status --role full --index 2 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), role, index, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Node role: validator, full or archive (required)")
	cmd.Flags().IntVar(&index, "index", 1, "Instance number on this host (1-99)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}
