package commands

import (
	"github.com/spf13/cobra"

	"github.com/modnet-labs/nodeops/cmd/nodeops/handlers"
)

// Up returns the command for bootstrapping a node to its hardened steady
// state.
//
// This command resolves the launch configuration, provisions the network
// identity key, starts the node process, waits for RPC health, installs
// session keys on validators, and restarts with the hardened flag set.
//
// Required flags:
//
//	--role: Node role (validator, full, archive)
//	--chain-spec: Path to the raw chain specification
//
// Environment variables:
//
//	NODEOPS_TIMEOUT_HEALTH: Health wait budget after first start (default 60s)
//	NODEOPS_TIMEOUT_RESTART_HEALTH: Health wait budget after restart (default 60s)
//	NODEOPS_HEALTH_INTERVAL: Delay between health probes (default 1s)
//	NODEOPS_TIMEOUT_STOP: Graceful stop budget (default 30s)
func Up() *cobra.Command {
	var opts handlers.UpOptions

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bootstrap a node to its hardened steady state",
		Long: `Bootstrap a Modnet node to its hardened steady state.

Validators run a two-phase bootstrap by default: the node first starts
with administrative RPC enabled so session keys can be installed, then
restarts with the hardened flag set. Full and archive nodes start
hardened immediately.

Ports are derived from the role and instance number, so multiple nodes
on one host never collide.

Examples:
  # First validator on this host
  nodeops up --role validator --index 1 --chain-spec specs/modnet-testnet-raw.json

  # Full node under pm2 supervision
  nodeops up --role full --index 1 --chain-spec specs/modnet-testnet-raw.json --supervisor pm2

  # Validator with an explicit network identity key
  nodeops up --role validator --index 2 --chain-spec specs/modnet-testnet-raw.json \
    --node-key ./keys/nodekey-validator-2.hex`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Role, "role", "", "Node role: validator, full or archive (required)")
	cmd.Flags().IntVar(&opts.Index, "index", 1, "Instance number on this host (1-99)")
	cmd.Flags().StringVar(&opts.ChainSpec, "chain-spec", "", "Path to the raw chain specification (required)")
	cmd.Flags().StringVar(&opts.BasePath, "base-path", "", "Node data directory (default ./data)")
	cmd.Flags().StringVar(&opts.KeyDir, "key-dir", "", "Key material directory (default <base-path>/keys)")

	cmd.Flags().StringVar(&opts.Bootstrap, "bootstrap", "", "Bootstrap mode: safe or unsafe-then-safe (validators default to unsafe-then-safe)")
	cmd.Flags().StringVar(&opts.Supervisor, "supervisor", "", "Process supervisor backend: none or pm2 (default none)")
	cmd.Flags().StringVar(&opts.Telemetry, "telemetry", "", "Telemetry mode: public or disabled (default disabled)")
	cmd.Flags().StringVar(&opts.TelemetryEndpoint, "telemetry-endpoint", "", "Telemetry submit URL, required with --telemetry public")

	cmd.Flags().StringVar(&opts.NodeBinary, "node-binary", "", "Node executable (default modnet-node)")
	cmd.Flags().StringVar(&opts.InsertClient, "insert-client", "", "Session key insert client (default modnet-insert-keys)")

	cmd.Flags().StringVar(&opts.NodeKey, "node-key", "", "Network identity key: file path or 64 hex characters")
	cmd.Flags().BoolVar(&opts.GenerateNodeKey, "generate-node-key", true, "Generate and persist a network identity key when none is supplied")
	cmd.Flags().BoolVar(&opts.RegenerateNodeKey, "regenerate-node-key", false, "Overwrite a previously persisted network identity key")

	cmd.Flags().StringVar(&opts.AuraKeyFile, "aura-file", "", "Explicit aura session key artifact")
	cmd.Flags().StringVar(&opts.GrandpaKeyFile, "grandpa-file", "", "Explicit grandpa session key artifact")

	cmd.Flags().StringVar(&opts.BootnodesFile, "bootnodes-file", "", "YAML file mapping node names to bootnode multiaddrs")
	cmd.Flags().StringVar(&opts.MetricsListen, "metrics-listen", "", "Expose bootstrap metrics on this address (e.g. :9100)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Also write orchestrator logs to this rotating file")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("chain-spec")

	return cmd
}
