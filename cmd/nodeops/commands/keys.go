package commands

import (
	"github.com/spf13/cobra"

	"github.com/modnet-labs/nodeops/cmd/nodeops/handlers"
)

// Keys returns the parent command for key utilities.
func Keys() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Generate, inspect and derive key material",
	}

	cmd.AddCommand(keysGenerate())
	cmd.AddCommand(keysInspect())
	cmd.AddCommand(keysMultisig())

	return cmd
}

func keysGenerate() *cobra.Command {
	var scheme string
	var network string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate fresh session keypairs via subkey",
		Long: `Generate fresh session keypairs via the subkey tool.

Without --scheme both keypairs are generated: sr25519 for block
production (aura) and ed25519 for finality voting (grandpa). The
secret phrases are printed once and never stored; save them securely.

Examples:
  # Generate both session keypairs
  nodeops keys generate

  # Generate the aura keypair only
  nodeops keys generate --scheme sr25519`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.KeysGenerate(cmd.Context(), scheme, network)
		},
	}

	cmd.Flags().StringVar(&scheme, "scheme", "", "Key scheme: sr25519 or ed25519 (default both)")
	cmd.Flags().StringVar(&network, "network", "", "SS58 network name passed to subkey (default substrate)")

	return cmd
}

func keysInspect() *cobra.Command {
	var public string
	var scheme string
	var network string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Convert a hex public key to its SS58 address",
		Long: `Convert a 0x-prefixed hex public key to its SS58 address.

Examples:
  nodeops keys inspect --public 0xd43593c7... --scheme sr25519`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.KeysInspect(cmd.Context(), public, scheme, network)
		},
	}

	cmd.Flags().StringVar(&public, "public", "", "0x-prefixed hex public key (required)")
	cmd.Flags().StringVar(&scheme, "scheme", "sr25519", "Key scheme: sr25519 or ed25519")
	cmd.Flags().StringVar(&network, "network", "", "SS58 network name passed to subkey (default substrate)")
	_ = cmd.MarkFlagRequired("public")

	return cmd
}

func keysMultisig() *cobra.Command {
	var signers []string
	var threshold uint16
	var prefix uint8

	cmd := &cobra.Command{
		Use:   "multisig",
		Short: "Derive a deterministic multisig account",
		Long: `Derive the deterministic multisig account for a signer set.

The derivation runs in-process and matches the on-chain multisig
pallet, so the printed address can be used directly as a sudo or
treasury account.

Examples:
  # 2-of-3 multisig
  nodeops keys multisig --threshold 2 \
    --signer 5F3sa2TJ... --signer 5DAAnrj7... --signer 5H3K8Z...`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.KeysMultisig(signers, threshold, prefix)
		},
	}

	cmd.Flags().StringArrayVar(&signers, "signer", nil, "SS58 signer address; pass multiple (required)")
	cmd.Flags().Uint16Var(&threshold, "threshold", 0, "Approvals required (required)")
	cmd.Flags().Uint8Var(&prefix, "ss58-prefix", 42, "SS58 address format")
	_ = cmd.MarkFlagRequired("signer")
	_ = cmd.MarkFlagRequired("threshold")

	return cmd
}
