package launch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/config"
	"github.com/modnet-labs/nodeops/internal/keys"
	"github.com/modnet-labs/nodeops/internal/process"
	"github.com/modnet-labs/nodeops/internal/rpc"
	"github.com/modnet-labs/nodeops/internal/session"
)

// fakeController implements process.Controller in memory.
type fakeController struct {
	starts   []process.Spec
	stops    int
	startErr error
	alive    map[*process.Handle]bool
}

func newFakeController() *fakeController {
	return &fakeController{alive: make(map[*process.Handle]bool)}
}

func (f *fakeController) Start(_ context.Context, spec process.Spec) (*process.Handle, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.starts = append(f.starts, spec)
	h := &process.Handle{Name: spec.Name, Backend: process.BackendChild, PID: 1000 + len(f.starts)}
	f.alive[h] = true
	return h, nil
}

func (f *fakeController) Stop(_ context.Context, h *process.Handle) error {
	f.stops++
	if h != nil {
		f.alive[h] = false
	}
	return nil
}

func (f *fakeController) IsAlive(h *process.Handle) bool {
	return h != nil && f.alive[h]
}

// fakeProbe answers healthy for the first n calls' configured outcomes.
type fakeProbe struct {
	calls int
	err   error
}

func (f *fakeProbe) WaitHealthy(_ context.Context, url string, timeout time.Duration) error {
	f.calls++
	if f.err != nil {
		return &rpc.HealthTimeoutError{URL: url, Timeout: timeout}
	}
	return nil
}

// fakeInstaller records installs.
type fakeInstaller struct {
	calls int
	err   error
}

func (f *fakeInstaller) Install(context.Context, string, keys.Bundle) error {
	f.calls++
	if f.err != nil {
		return &session.InstallError{Client: "fake", Err: f.err}
	}
	return nil
}

func resolveTestConfig(t *testing.T, role string, index int, bootstrap string) config.NodeLaunchConfig {
	t.Helper()
	cfg, err := config.Resolve(config.Inputs{
		Role:           role,
		Index:          index,
		ChainSpecPath:  "specs/modnet-testnet-raw.json",
		BasePath:       t.TempDir(),
		Bootstrap:      bootstrap,
		AuraKeyFile:    "/keys/aura.json",
		GrandpaKeyFile: "/keys/grandpa.json",
	}, func(string) bool { return true })
	require.NoError(t, err)
	return cfg
}

func newOrchestrator(cfg config.NodeLaunchConfig, ctrl process.Controller, probe HealthProbe, installer KeyInstaller) *Orchestrator {
	timeouts := &config.Timeouts{
		Health:         5 * time.Second,
		RestartHealth:  5 * time.Second,
		HealthInterval: time.Millisecond,
		Stop:           time.Second,
	}
	return New(cfg, timeouts, ctrl, probe, installer, nil, zap.NewNop())
}

func recordTransitions(o *Orchestrator) *[]State {
	var seq []State
	o.OnTransition(func(_, to State) {
		seq = append(seq, to)
	})
	return &seq
}

// Scenario A: validator with unsafe-then-safe bootstrap reaches RunningSafe
// through exactly the expected sequence, and the hardened restart uses the
// filtered flag set.
func TestRun_ValidatorUnsafeThenSafe(t *testing.T) {
	cfg := resolveTestConfig(t, "validator", 1, "unsafe-then-safe")
	ctrl := newFakeController()
	probe := &fakeProbe{}
	installer := &fakeInstaller{}

	o := newOrchestrator(cfg, ctrl, probe, installer)
	seq := recordTransitions(o)

	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, StateRunningSafe, o.State())

	assert.Equal(t, []State{
		StateStartingUnsafe,
		StateAwaitingHealthUnsafe,
		StateRunningUnsafe,
		StateInstallingKeys,
		StateRestarting,
		StateStartingSafe,
		StateAwaitingHealthSafe,
		StateRunningSafe,
	}, *seq)

	require.Len(t, ctrl.starts, 2)
	assert.Equal(t, 1, installer.calls)
	assert.Equal(t, 2, probe.calls)

	unsafeJoined := strings.Join(ctrl.starts[0].Args, " ")
	assert.Contains(t, unsafeJoined, "--rpc-methods Unsafe")
	assert.Contains(t, unsafeJoined, "--rpc-external")

	safeJoined := strings.Join(ctrl.starts[1].Args, " ")
	assert.Contains(t, safeJoined, "--rpc-methods Safe")
	assert.NotContains(t, safeJoined, "--rpc-external")
	assert.NotContains(t, safeJoined, "--force-authoring")

	// the unsafe-phase process was stopped during the restart
	assert.GreaterOrEqual(t, ctrl.stops, 1)
	assert.True(t, ctrl.IsAlive(o.Handle()))
}

// Scenario B: a full node never enters the unsafe phase regardless of the
// requested bootstrap mode.
func TestRun_FullNodeGoesStraightToSafe(t *testing.T) {
	cfg := resolveTestConfig(t, "full", 2, "unsafe-then-safe")
	ctrl := newFakeController()
	installer := &fakeInstaller{}

	o := newOrchestrator(cfg, ctrl, &fakeProbe{}, installer)
	seq := recordTransitions(o)

	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, StateRunningSafe, o.State())

	assert.Equal(t, []State{
		StateStartingSafe,
		StateAwaitingHealthSafe,
		StateRunningSafe,
	}, *seq)

	require.Len(t, ctrl.starts, 1)
	assert.Equal(t, 0, installer.calls, "full nodes never install session keys")
	assert.Contains(t, strings.Join(ctrl.starts[0].Args, " "), "--rpc-methods Safe")
}

// Scenario C: a health timeout fails the bootstrap and the process is
// confirmed stopped before the failure is reported.
func TestRun_HealthTimeoutStopsProcess(t *testing.T) {
	cfg := resolveTestConfig(t, "validator", 1, "unsafe-then-safe")
	ctrl := newFakeController()
	probe := &fakeProbe{err: errors.New("never healthy")}

	o := newOrchestrator(cfg, ctrl, probe, &fakeInstaller{})
	err := o.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, o.State())

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, StateAwaitingHealthUnsafe, failure.State)
	assert.False(t, failure.ProcessLeftRunning)

	var timeout *rpc.HealthTimeoutError
	assert.ErrorAs(t, err, &timeout)

	require.Len(t, ctrl.starts, 1)
	assert.False(t, ctrl.IsAlive(o.Handle()), "unhealthy process must be stopped")
}

// Scenario E: a failed key installation is fatal but deliberately leaves
// the node process running for diagnosis.
func TestRun_InstallFailureLeavesProcessRunning(t *testing.T) {
	cfg := resolveTestConfig(t, "validator", 1, "unsafe-then-safe")
	ctrl := newFakeController()
	installer := &fakeInstaller{err: errors.New("exit status 1")}

	o := newOrchestrator(cfg, ctrl, &fakeProbe{}, installer)
	err := o.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, o.State())

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, StateInstallingKeys, failure.State)
	assert.True(t, failure.ProcessLeftRunning)
	assert.Contains(t, failure.Error(), "left running: true")

	var installErr *session.InstallError
	assert.ErrorAs(t, err, &installErr)

	assert.True(t, ctrl.IsAlive(o.Handle()), "node stays up so the operator can diagnose")
}

// Scenario D: malformed identity key fails before any process start.
func TestRun_InvalidKeyMaterialFailsBeforeStart(t *testing.T) {
	cfg := resolveTestConfig(t, "validator", 1, "unsafe-then-safe")
	ctrl := newFakeController()

	inputs := config.Inputs{
		Role:           "validator",
		Index:          1,
		ChainSpecPath:  cfg.ChainSpecPath,
		BasePath:       cfg.BasePath,
		Bootstrap:      "unsafe-then-safe",
		NodeKey:        "zz" + strings.Repeat("a", 62),
		AuraKeyFile:    "/keys/aura.json",
		GrandpaKeyFile: "/keys/grandpa.json",
	}
	badCfg, err := config.Resolve(inputs, func(string) bool { return true })
	require.NoError(t, err)

	o := newOrchestrator(badCfg, ctrl, &fakeProbe{}, &fakeInstaller{})
	err = o.Run(context.Background())
	require.Error(t, err)

	var invalid *keys.InvalidKeyMaterialError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, ctrl.starts, "no process may start with malformed key material")
}

func TestRun_SessionKeyNotFoundFailsBeforeStart(t *testing.T) {
	cfg, err := config.Resolve(config.Inputs{
		Role:          "validator",
		Index:         1,
		ChainSpecPath: "specs/modnet-testnet-raw.json",
		BasePath:      t.TempDir(),
		Bootstrap:     "unsafe-then-safe",
		// no explicit key files and an empty key directory
	}, func(string) bool { return true })
	require.NoError(t, err)

	ctrl := newFakeController()
	o := newOrchestrator(cfg, ctrl, &fakeProbe{}, &fakeInstaller{})
	err = o.Run(context.Background())
	require.Error(t, err)

	var notFound *keys.SessionKeyNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, ctrl.starts)
}

func TestShutdown_ChildBackendStopsProcess(t *testing.T) {
	cfg := resolveTestConfig(t, "validator", 1, "safe")
	ctrl := newFakeController()

	o := newOrchestrator(cfg, ctrl, &fakeProbe{}, &fakeInstaller{})
	require.NoError(t, o.Run(context.Background()))
	require.True(t, ctrl.IsAlive(o.Handle()))

	require.NoError(t, o.Shutdown(context.Background()))
	assert.False(t, ctrl.IsAlive(o.Handle()))
	assert.Equal(t, StateStopped, o.State())
}

func TestShutdown_SupervisedBackendIsNoOp(t *testing.T) {
	cfg := resolveTestConfig(t, "validator", 1, "safe")
	ctrl := newFakeController()

	o := newOrchestrator(cfg, ctrl, &fakeProbe{}, &fakeInstaller{})
	require.NoError(t, o.Run(context.Background()))

	// simulate a supervised handle: the supervisor owns the lifecycle
	o.handle.Backend = process.BackendPM2
	require.NoError(t, o.Shutdown(context.Background()))
	assert.True(t, ctrl.IsAlive(o.Handle()), "supervised processes outlive the orchestrator")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "RunningSafe", StateRunningSafe.String())
	assert.Equal(t, "State(99)", State(99).String())
}

func TestAllowsUnsafeRPC(t *testing.T) {
	for _, s := range []State{StateStartingUnsafe, StateAwaitingHealthUnsafe, StateRunningUnsafe, StateInstallingKeys} {
		assert.True(t, s.AllowsUnsafeRPC(), s.String())
	}
	for _, s := range []State{StateUnconfigured, StateConfigured, StateStartingSafe, StateAwaitingHealthSafe, StateRunningSafe, StateRestarting, StateStopped, StateFailed} {
		assert.False(t, s.AllowsUnsafeRPC(), s.String())
	}
}
