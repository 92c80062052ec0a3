package commands

import (
	"github.com/spf13/cobra"

	"github.com/modnet-labs/nodeops/cmd/nodeops/handlers"
	"github.com/modnet-labs/nodeops/internal/chainspec"
)

// Chainspec returns the parent command for chain specification utilities.
func Chainspec() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chainspec",
		Short: "Build and patch chain specifications",
	}

	cmd.AddCommand(chainspecInit())

	return cmd
}

func chainspecInit() *cobra.Command {
	var opts chainspec.Options
	var verbose bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a patched chain specification",
		Long: `Generate a network chain specification.

Runs the node binary's build-spec, patches the genesis authorities,
the sudo account (explicit or derived as a multisig from --signer and
--threshold), bootnodes and telemetry, then writes both the plain and
the raw spec files.

Examples:
  # Explicit sudo account and one bootnode
  nodeops chainspec init \
    --chain-id modnet-testnet \
    --aura 5Fga63pn... --grandpa 5HF6Koc6... --sudo 5Hd73Uok... \
    --bootnode /ip4/24.83.27.62/tcp/30333/p2p/12D3KooWHuZn...

  # Sudo derived as a 2-of-3 multisig
  nodeops chainspec init \
    --chain-id modnet-testnet \
    --aura 5F... --grandpa 5H... \
    --signer 5G... --signer 5F... --signer 5F2... --threshold 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ChainspecInit(cmd.Context(), opts, verbose)
		},
	}

	cmd.Flags().StringVar(&opts.ChainID, "chain-id", "modnet-testnet", "Chain spec id passed to build-spec")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "specs", "Output directory for spec files")
	cmd.Flags().StringVar(&opts.OutPrefix, "out-prefix", "", "Output file prefix (default the chain id)")
	cmd.Flags().StringVar(&opts.NodeBinary, "node-binary", "", "Node executable providing build-spec (default modnet-node)")

	cmd.Flags().StringVar(&opts.Aura, "aura", "", "Aura authority, SS58 or 0x hex (required)")
	cmd.Flags().StringVar(&opts.Grandpa, "grandpa", "", "GRANDPA authority, SS58 or 0x hex (required)")

	cmd.Flags().StringVar(&opts.Sudo, "sudo", "", "Sudo SS58 account (mutually exclusive with --signer)")
	cmd.Flags().StringArrayVar(&opts.Signers, "signer", nil, "SS58 signer to derive the sudo multisig; pass multiple")
	cmd.Flags().Uint16Var(&opts.Threshold, "threshold", 0, "Multisig threshold, required with --signer")

	cmd.Flags().StringArrayVar(&opts.Bootnodes, "bootnode", nil, "Bootnode multiaddr; pass multiple")
	cmd.Flags().StringVar(&opts.Telemetry, "telemetry", "", "Telemetry submit URL (e.g. wss://telemetry.polkadot.io/submit/)")
	cmd.Flags().Uint8Var(&opts.SS58Prefix, "ss58-prefix", 42, "SS58 address format")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	_ = cmd.MarkFlagRequired("aura")
	_ = cmd.MarkFlagRequired("grandpa")

	return cmd
}
