// Package process starts, health-checks, and stops the node process.
//
// Two backends exist: a direct child process owned by the orchestrator, and
// a pm2-supervised process that outlives the operator session. Both enforce
// stop-before-start for a given derived node name so two processes never
// contend for the same ports.
package process

import (
	"context"
	"fmt"
)

// Backend identifies which controller owns a handle.
type Backend string

const (
	// BackendChild is a direct child process of the orchestrator.
	BackendChild Backend = "child"
	// BackendPM2 is a pm2-managed process.
	BackendPM2 Backend = "pm2"
)

// Spec describes a node process to launch.
type Spec struct {
	// Name is the derived node name; it keys the supervisor entry and the
	// log sink.
	Name string
	// Binary is the node executable.
	Binary string
	// Args is the assembled node command line.
	Args []string
	// LogPath is where the process output is written.
	LogPath string
}

// Handle identifies a launched node process. Exactly one handle may be live
// per derived name at a time.
type Handle struct {
	Name    string
	Backend Backend
	PID     int
	LogPath string

	child *childProcess // nil for supervised backends
}

// Controller abstracts over the process backends.
type Controller interface {
	// Start launches the node described by spec. If a live handle exists
	// for the same name it is stopped first; concurrent-start is never
	// allowed.
	Start(ctx context.Context, spec Spec) (*Handle, error)

	// Stop terminates the process behind the handle, tolerating a process
	// that is already gone.
	Stop(ctx context.Context, h *Handle) error

	// IsAlive reports whether the process behind the handle is running.
	IsAlive(h *Handle) bool
}

// Error wraps a failure to launch or stop the node process.
type Error struct {
	Op   string
	Node string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("process %s %s: %v", e.Op, e.Node, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
