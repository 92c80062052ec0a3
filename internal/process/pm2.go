package process

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// commandRunner executes a supervisor command and returns its combined
// output. Injected so tests can run without a pm2 daemon.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// PM2Controller proxies start/stop to a pm2 daemon, keyed by the derived
// node name. The daemon owns the process across operator sessions, so the
// orchestrator's signal cleanup deliberately leaves supervised processes
// alone.
type PM2Controller struct {
	log *zap.Logger
	run commandRunner
}

// NewPM2Controller builds a pm2-backed controller.
func NewPM2Controller(log *zap.Logger) *PM2Controller {
	return &PM2Controller{log: log, run: runCommand}
}

// Start implements Controller. Any pre-existing managed entry under the
// same name is deleted first; pm2 rejects duplicate names otherwise.
func (c *PM2Controller) Start(ctx context.Context, spec Spec) (*Handle, error) {
	c.deleteEntry(ctx, spec.Name)

	args := []string{
		"start", spec.Binary,
		"--name", spec.Name,
		"--interpreter", "none",
		"--output", spec.LogPath,
		"--error", spec.LogPath,
		"--",
	}
	args = append(args, spec.Args...)

	if out, err := c.run(ctx, "pm2", args...); err != nil {
		return nil, &Error{Op: "start", Node: spec.Name, Err: fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))}
	}

	c.log.Info("node process started under pm2",
		zap.String("node", spec.Name), zap.String("log", spec.LogPath))
	return &Handle{Name: spec.Name, Backend: BackendPM2, LogPath: spec.LogPath}, nil
}

// Stop implements Controller via pm2 delete, which is idempotent here: an
// absent entry is treated as already stopped.
func (c *PM2Controller) Stop(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	c.deleteEntry(ctx, h.Name)
	return nil
}

// IsAlive implements Controller by asking pm2 for the managed PID.
func (c *PM2Controller) IsAlive(h *Handle) bool {
	if h == nil {
		return false
	}
	out, err := c.run(context.Background(), "pm2", "pid", h.Name)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	return err == nil && pid > 0
}

func (c *PM2Controller) deleteEntry(ctx context.Context, name string) {
	if out, err := c.run(ctx, "pm2", "delete", name); err != nil {
		// Absent entries are fine; anything else is still best-effort but
		// worth surfacing in the log.
		c.log.Debug("pm2 delete", zap.String("node", name),
			zap.String("output", strings.TrimSpace(string(out))), zap.Error(err))
	}
}
