package launch

import (
	"fmt"

	"github.com/modnet-labs/nodeops/internal/config"
	"github.com/modnet-labs/nodeops/internal/keys"
)

// unsafeOnlyFlags are the flags present in the unsafe launch set and
// stripped for hardened operation. The safe flag set is always derived by
// filtering these out, never maintained as a second list.
var unsafeOnlyFlags = map[string]bool{
	"--rpc-external":        true,
	"--unsafe-rpc-external": true,
	"--force-authoring":     true,
}

const (
	rpcMethodsFlag   = "--rpc-methods"
	rpcMethodsSafe   = "Safe"
	rpcMethodsUnsafe = "Unsafe"
)

// BuildUnsafeArgs assembles the node command line for the unsafe bootstrap
// phase: administrative RPC methods exposed externally so the insertion
// client can reach the keystore, plus force-authoring so a lone validator
// produces blocks immediately.
func BuildUnsafeArgs(cfg config.NodeLaunchConfig, key keys.NetworkKey, bootnodes []string) []string {
	args := []string{
		"--chain", cfg.ChainSpecPath,
		"--name", cfg.DerivedName,
		"--base-path", cfg.BasePath,
		"--listen-addr", fmt.Sprintf("/ip4/0.0.0.0/tcp/%d", cfg.Ports.P2P),
		"--rpc-port", fmt.Sprintf("%d", cfg.Ports.RPC),
		"--rpc-cors", "all",
		rpcMethodsFlag, rpcMethodsUnsafe,
		"--rpc-external",
		"--unsafe-rpc-external",
		"--prometheus-port", fmt.Sprintf("%d", cfg.Ports.Metrics),
		"--prometheus-external",
	}

	switch cfg.Role {
	case config.RoleValidator:
		args = append(args, "--validator", "--force-authoring")
	case config.RoleArchive:
		args = append(args, "--state-pruning", "archive", "--blocks-pruning", "archive")
	}

	switch {
	case key.FilePath != "":
		args = append(args, "--node-key-file", key.FilePath)
	case key.Hex != "":
		args = append(args, "--node-key", key.Hex)
	}

	for _, addr := range bootnodes {
		args = append(args, "--bootnodes", addr)
	}

	switch cfg.Telemetry {
	case config.TelemetryPublic:
		args = append(args, "--telemetry-url", fmt.Sprintf("%s 0", cfg.TelemetryEndpoint))
	case config.TelemetryDisabled:
		args = append(args, "--no-telemetry")
	}

	return args
}

// SafeArgs derives the hardened flag set from an unsafe one: the unsafe-only
// flags are removed and the RPC method exposure is rewritten to Safe.
// Nothing else changes, so the safe set is exactly the unsafe set minus
// {external RPC, Unsafe methods, force-authoring}.
func SafeArgs(unsafeArgs []string) []string {
	safe := make([]string, 0, len(unsafeArgs))
	for i := 0; i < len(unsafeArgs); i++ {
		arg := unsafeArgs[i]
		if unsafeOnlyFlags[arg] {
			continue
		}
		if arg == rpcMethodsFlag && i+1 < len(unsafeArgs) && unsafeArgs[i+1] == rpcMethodsUnsafe {
			safe = append(safe, rpcMethodsFlag, rpcMethodsSafe)
			i++
			continue
		}
		safe = append(safe, arg)
	}
	return safe
}
