package commands

import (
	"github.com/spf13/cobra"

	"github.com/modnet-labs/nodeops/cmd/nodeops/handlers"
)

// Doctor returns the command for diagnosing host readiness.
//
// Optional flags:
//
//	--node-binary: Node executable name to probe for
//	--insert-client: Insert client name to probe for
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var nodeBinary string
	var insertClient string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose host readiness for running nodes",
		Long: `Diagnose whether this host can run Modnet nodes.

Checks for the tools the bootstrap sequence depends on:
  - the node executable (required)
  - the session key insert client (required)
  - subkey, for key generation (optional)
  - pm2, for the supervisor backend (optional)

Examples:
  # Check the host
  nodeops doctor

  # Check with a custom node binary name
  nodeops doctor --node-binary ./target/release/modnet-node

  # Get the report in JSON format
  nodeops doctor --json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Doctor(nodeBinary, insertClient, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&nodeBinary, "node-binary", "", "Node executable (default modnet-node)")
	cmd.Flags().StringVar(&insertClient, "insert-client", "", "Session key insert client (default modnet-insert-keys)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
