package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/chainspec"
	"github.com/modnet-labs/nodeops/internal/logging"
	"github.com/modnet-labs/nodeops/internal/util/prerequisites"
)

// ChainspecInit handles chainspec init: build the base spec via the node
// binary, patch genesis authorities, sudo, bootnodes and telemetry, and
// write the plain and raw spec files.
func ChainspecInit(ctx context.Context, opts chainspec.Options, verbose bool) error {
	log := logging.New(logging.Options{Verbose: verbose})
	defer func() { _ = log.Sync() }()

	if opts.NodeBinary == "" {
		opts.NodeBinary = "modnet-node"
	}
	if !prerequisites.Have(opts.NodeBinary) {
		return fmt.Errorf("node binary %q is not available on this host; build it first", opts.NodeBinary)
	}

	result, err := chainspec.NewBuilder(log).Init(ctx, opts)
	if err != nil {
		return err
	}

	log.Info("chain specs written",
		zap.String("plain", result.PlainPath),
		zap.String("raw", result.RawPath),
		zap.String("sudo", result.Sudo))
	return nil
}
