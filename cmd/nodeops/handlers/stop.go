package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/config"
	"github.com/modnet-labs/nodeops/internal/logging"
	"github.com/modnet-labs/nodeops/internal/process"
	"github.com/modnet-labs/nodeops/internal/util/naming"
	"github.com/modnet-labs/nodeops/internal/util/prerequisites"
)

// Stop handles the stop command for a supervised node.
//
// Direct-child nodes stop together with the up command that launched
// them, so stop only applies to supervisor-managed processes.
func Stop(ctx context.Context, role string, index int, verbose bool) error {
	log := logging.New(logging.Options{Verbose: verbose})
	defer func() { _ = log.Sync() }()

	parsed, err := config.ParseRole(role)
	if err != nil {
		return err
	}
	if index <= 0 || index > config.MaxInstances {
		return &config.Error{Field: "index", Reason: fmt.Sprintf("instance number %d out of range [1, %d]", index, config.MaxInstances)}
	}
	if !prerequisites.Have("pm2") {
		return fmt.Errorf("pm2 is not available on this host; direct-child nodes stop with the up command that launched them")
	}

	name := naming.Node(string(parsed), index)
	ctrl := process.NewPM2Controller(log)
	handle := &process.Handle{Name: name, Backend: process.BackendPM2}

	if !ctrl.IsAlive(handle) {
		log.Info("node is not running", zap.String("node", name))
		return nil
	}
	if err := ctrl.Stop(ctx, handle); err != nil {
		return err
	}
	log.Info("node stopped", zap.String("node", name))
	return nil
}
