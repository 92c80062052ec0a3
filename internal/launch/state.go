package launch

import "fmt"

// State is the bootstrap lifecycle state. Exactly one exists per
// orchestrator run.
type State int

const (
	// StateUnconfigured is the zero state before configuration resolves.
	StateUnconfigured State = iota
	// StateConfigured means a NodeLaunchConfig has been resolved.
	StateConfigured
	// StateStartingUnsafe means the node is being launched with unsafe
	// administrative RPC exposed.
	StateStartingUnsafe
	// StateStartingSafe means the node is being launched hardened.
	StateStartingSafe
	// StateAwaitingHealthUnsafe gates the unsafe phase on RPC liveness.
	StateAwaitingHealthUnsafe
	// StateAwaitingHealthSafe gates the hardened phase on RPC liveness.
	StateAwaitingHealthSafe
	// StateRunningUnsafe means the node answers RPC with unsafe methods
	// exposed; only session key installation may happen here.
	StateRunningUnsafe
	// StateInstallingKeys means the insertion client is running.
	StateInstallingKeys
	// StateRestarting means the unsafe process is being replaced by the
	// hardened one.
	StateRestarting
	// StateRunningSafe is the steady state.
	StateRunningSafe
	// StateStopped is the terminal state after operator shutdown.
	StateStopped
	// StateFailed is the terminal failure state.
	StateFailed
)

var stateNames = map[State]string{
	StateUnconfigured:         "Unconfigured",
	StateConfigured:           "Configured",
	StateStartingUnsafe:       "StartingUnsafe",
	StateStartingSafe:         "StartingSafe",
	StateAwaitingHealthUnsafe: "AwaitingHealthUnsafe",
	StateAwaitingHealthSafe:   "AwaitingHealthSafe",
	StateRunningUnsafe:        "RunningUnsafe",
	StateInstallingKeys:       "InstallingKeys",
	StateRestarting:           "Restarting",
	StateRunningSafe:          "RunningSafe",
	StateStopped:              "Stopped",
	StateFailed:               "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// unsafeRPCStates are the only states in which the node may be observed
// with unsafe administrative RPC enabled.
var unsafeRPCStates = map[State]bool{
	StateStartingUnsafe:       true,
	StateAwaitingHealthUnsafe: true,
	StateRunningUnsafe:        true,
	StateInstallingKeys:       true,
}

// AllowsUnsafeRPC reports whether the node may legitimately expose unsafe
// RPC in this state.
func (s State) AllowsUnsafeRPC() bool {
	return unsafeRPCStates[s]
}

// Failure wraps a bootstrap error with the state it occurred in and whether
// the node process was left running, so operators know if manual cleanup is
// required.
type Failure struct {
	State              State
	ProcessLeftRunning bool
	Err                error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("bootstrap failed in state %s: %v (node process left running: %t)",
		f.State, f.Err, f.ProcessLeftRunning)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
