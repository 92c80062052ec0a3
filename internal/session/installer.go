// Package session drives the external key-insertion client against a
// running node. The client owns the encrypted key artifacts and may read a
// passphrase from the controlling terminal; the orchestrator only invokes
// it and interprets the exit code.
package session

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/keys"
)

// InstallError reports a non-zero outcome from the insertion client. The
// bootstrap sequence treats it as fatal: restarting with unverified keys is
// never acceptable.
type InstallError struct {
	Client string
	Err    error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("session key installation via %s failed: %v", e.Client, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// Installer invokes the external insertion client.
type Installer struct {
	// Client is the insertion client executable.
	Client string
	// Interactive passes the prompt flag so the client reads its
	// passphrase from the terminal.
	Interactive bool

	log *zap.Logger
}

// NewInstaller builds an installer for the given client executable.
func NewInstaller(client string, interactive bool, log *zap.Logger) *Installer {
	return &Installer{Client: client, Interactive: interactive, log: log}
}

// Install submits the session key bundle to the node at rpcURL. The caller
// must only invoke this while the node is confirmed healthy with unsafe
// administrative RPC enabled.
func (i *Installer) Install(ctx context.Context, rpcURL string, bundle keys.Bundle) error {
	args := []string{
		"--rpc", rpcURL,
		"--aura-file", bundle.AuraPath,
		"--grandpa-file", bundle.GrandpaPath,
	}
	if i.Interactive {
		args = append(args, "--prompt")
	}

	i.log.Info("installing session keys",
		zap.String("rpc", rpcURL),
		zap.String("aura", bundle.AuraPath),
		zap.String("grandpa", bundle.GrandpaPath))

	cmd := exec.CommandContext(ctx, i.Client, args...)
	// The client is interactive; give it the terminal.
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return &InstallError{Client: i.Client, Err: err}
	}

	i.log.Info("session keys installed")
	return nil
}
