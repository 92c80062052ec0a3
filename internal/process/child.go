package process

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// childProcess tracks a running direct child.
type childProcess struct {
	cmd  *exec.Cmd
	sink *lumberjack.Logger
	done chan struct{} // closed when Wait returns
}

// ChildController runs the node as a direct child process, its output routed
// to a rotating log sink under the base data path.
type ChildController struct {
	log         *zap.Logger
	stopTimeout time.Duration

	mu   sync.Mutex
	live map[string]*Handle
}

// NewChildController builds a direct-child controller. stopTimeout bounds
// the graceful-termination wait before the process is killed.
func NewChildController(log *zap.Logger, stopTimeout time.Duration) *ChildController {
	return &ChildController{
		log:         log,
		stopTimeout: stopTimeout,
		live:        make(map[string]*Handle),
	}
}

// Start implements Controller.
func (c *ChildController) Start(ctx context.Context, spec Spec) (*Handle, error) {
	c.mu.Lock()
	prior := c.live[spec.Name]
	c.mu.Unlock()
	if prior != nil && c.IsAlive(prior) {
		// Stop-before-start: a second process under the same name would
		// collide on the derived ports.
		c.log.Warn("stopping already-running process before start", zap.String("node", spec.Name))
		if err := c.Stop(ctx, prior); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(spec.LogPath), 0o755); err != nil {
		return nil, &Error{Op: "start", Node: spec.Name, Err: err}
	}
	sink := &lumberjack.Logger{
		Filename:   spec.LogPath,
		MaxSize:    100, // megabytes
		MaxBackups: 5,
	}

	cmd := exec.Command(spec.Binary, spec.Args...)
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Start(); err != nil {
		_ = sink.Close()
		return nil, &Error{Op: "start", Node: spec.Name, Err: err}
	}

	child := &childProcess{cmd: cmd, sink: sink, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		_ = sink.Close()
		close(child.done)
	}()

	h := &Handle{
		Name:    spec.Name,
		Backend: BackendChild,
		PID:     cmd.Process.Pid,
		LogPath: spec.LogPath,
		child:   child,
	}

	c.mu.Lock()
	c.live[spec.Name] = h
	c.mu.Unlock()

	c.log.Info("node process started",
		zap.String("node", spec.Name), zap.Int("pid", h.PID), zap.String("log", spec.LogPath))
	return h, nil
}

// Stop implements Controller: interrupt, await exit, kill on budget
// exhaustion. A process that is already gone is not an error.
func (c *ChildController) Stop(ctx context.Context, h *Handle) error {
	if h == nil || h.child == nil {
		return nil
	}

	select {
	case <-h.child.done:
		c.forget(h)
		return nil
	default:
	}

	if err := h.child.cmd.Process.Signal(os.Interrupt); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			c.forget(h)
			return nil
		}
		return &Error{Op: "stop", Node: h.Name, Err: err}
	}

	select {
	case <-h.child.done:
	case <-time.After(c.stopTimeout):
		c.log.Warn("graceful stop timed out, killing process",
			zap.String("node", h.Name), zap.Int("pid", h.PID))
		_ = h.child.cmd.Process.Kill()
		<-h.child.done
	case <-ctx.Done():
		_ = h.child.cmd.Process.Kill()
		<-h.child.done
	}

	c.forget(h)
	c.log.Info("node process stopped", zap.String("node", h.Name))
	return nil
}

// IsAlive implements Controller.
func (c *ChildController) IsAlive(h *Handle) bool {
	if h == nil || h.child == nil {
		return false
	}
	select {
	case <-h.child.done:
		return false
	default:
		return true
	}
}

func (c *ChildController) forget(h *Handle) {
	c.mu.Lock()
	if c.live[h.Name] == h {
		delete(c.live, h.Name)
	}
	c.mu.Unlock()
}
