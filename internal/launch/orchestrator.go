package launch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/bootnodes"
	"github.com/modnet-labs/nodeops/internal/config"
	"github.com/modnet-labs/nodeops/internal/keys"
	"github.com/modnet-labs/nodeops/internal/process"
)

// HealthProbe gates phase transitions on RPC liveness.
type HealthProbe interface {
	WaitHealthy(ctx context.Context, url string, timeout time.Duration) error
}

// KeyInstaller submits session keys to a healthy unsafe-mode node.
type KeyInstaller interface {
	Install(ctx context.Context, rpcURL string, bundle keys.Bundle) error
}

// Orchestrator owns one node's bootstrap sequence. One orchestrator drives
// one lifecycle sequentially; nothing here runs concurrently.
type Orchestrator struct {
	cfg       config.NodeLaunchConfig
	timeouts  *config.Timeouts
	ctrl      process.Controller
	probe     HealthProbe
	installer KeyInstaller
	log       *zap.Logger
	metrics   *Metrics

	state        State
	handle       *process.Handle
	onTransition func(from, to State)
}

// New builds an orchestrator over a resolved configuration. metrics may be
// nil.
func New(
	cfg config.NodeLaunchConfig,
	timeouts *config.Timeouts,
	ctrl process.Controller,
	probe HealthProbe,
	installer KeyInstaller,
	metrics *Metrics,
	log *zap.Logger,
) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		timeouts:  timeouts,
		ctrl:      ctrl,
		probe:     probe,
		installer: installer,
		metrics:   metrics,
		log:       log.With(zap.String("node", cfg.DerivedName)),
	}
	o.setState(StateConfigured)
	return o
}

// OnTransition registers an observer for state transitions. Must be set
// before Run.
func (o *Orchestrator) OnTransition(fn func(from, to State)) {
	o.onTransition = fn
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Handle returns the live process handle, if any.
func (o *Orchestrator) Handle() *process.Handle {
	return o.handle
}

// Run executes the bootstrap sequence to RunningSafe. On any error the
// orchestrator transitions to Failed and returns a *Failure naming the
// state and whether the node process was left running.
func (o *Orchestrator) Run(ctx context.Context) error {
	// Resolve all key material before any process starts: key errors must
	// never leave a half-launched node behind.
	netKey, err := keys.ResolveNetworkKey(keys.NetworkKeyOptions{
		Input:      o.cfg.NodeKey,
		Generate:   o.cfg.GenerateNodeKey,
		Regenerate: o.cfg.RegenerateNodeKey,
		KeyDir:     o.cfg.KeyDir,
		NodeName:   o.cfg.DerivedName,
	}, o.log)
	if err != nil {
		return o.fail(err, false)
	}

	unsafePhase := o.cfg.Bootstrap == config.BootstrapUnsafeThenSafe

	var bundle keys.Bundle
	if unsafePhase {
		listing, err := keys.ListKeyDir(o.cfg.KeyDir)
		if err != nil {
			return o.fail(fmt.Errorf("listing key directory: %w", err), false)
		}
		bundle, err = keys.LocateBundle(o.cfg.DerivedName, o.cfg.KeyDir, o.cfg.AuraKeyFile, o.cfg.GrandpaKeyFile, listing)
		if err != nil {
			return o.fail(err, false)
		}
	}

	directory, err := bootnodes.Load(o.cfg.BootnodesFile)
	if err != nil {
		return o.fail(err, false)
	}
	boot := directory.For(o.cfg.DerivedName, o.log)

	unsafeArgs := BuildUnsafeArgs(o.cfg, netKey, boot)

	if !unsafePhase {
		if err := o.startPhase(ctx, StateStartingSafe, SafeArgs(unsafeArgs), o.timeouts.Health); err != nil {
			return err
		}
		o.setState(StateRunningSafe)
		return nil
	}

	if err := o.startPhase(ctx, StateStartingUnsafe, unsafeArgs, o.timeouts.Health); err != nil {
		return err
	}
	o.setState(StateRunningUnsafe)

	o.setState(StateInstallingKeys)
	installStart := time.Now()
	if err := o.installer.Install(ctx, o.cfg.RPCURL(), bundle); err != nil {
		// The one deliberate exception to the cleanup guarantee: the node
		// keeps running in unsafe mode so the operator can diagnose
		// without losing in-progress block production. Say so loudly.
		o.log.Error("session key installation failed; node left RUNNING with unsafe RPC exposed — manual cleanup required",
			zap.Error(err))
		return o.fail(err, true)
	}
	o.observePhase("install_keys", time.Since(installStart))

	o.setState(StateRestarting)
	if err := o.ctrl.Stop(ctx, o.handle); err != nil {
		return o.fail(err, o.ctrl.IsAlive(o.handle))
	}
	o.handle = nil

	if err := o.startPhase(ctx, StateStartingSafe, SafeArgs(unsafeArgs), o.timeouts.RestartHealth); err != nil {
		return err
	}
	o.setState(StateRunningSafe)
	return nil
}

// startPhase launches the node with the given args and gates on RPC health.
// On a health timeout the process is stopped before the failure is
// reported: an unhealthy process is never left running unattended.
func (o *Orchestrator) startPhase(ctx context.Context, starting State, args []string, healthBudget time.Duration) error {
	o.setState(starting)
	phaseStart := time.Now()

	handle, err := o.ctrl.Start(ctx, process.Spec{
		Name:    o.cfg.DerivedName,
		Binary:  o.cfg.NodeBinary,
		Args:    args,
		LogPath: o.cfg.LogPath(),
	})
	if err != nil {
		return o.fail(err, false)
	}
	o.handle = handle

	awaiting := StateAwaitingHealthSafe
	if starting == StateStartingUnsafe {
		awaiting = StateAwaitingHealthUnsafe
	}
	o.setState(awaiting)

	if err := o.probe.WaitHealthy(ctx, o.cfg.RPCURL(), healthBudget); err != nil {
		if stopErr := o.ctrl.Stop(ctx, o.handle); stopErr != nil {
			o.log.Error("failed to stop unhealthy node process", zap.Error(stopErr))
			return o.fail(err, true)
		}
		return o.fail(err, false)
	}

	o.observePhase("start_to_healthy", time.Since(phaseStart))
	return nil
}

// Shutdown performs operator-requested cleanup. For the direct-child
// backend a live process is gracefully stopped; for a supervised backend
// this is intentionally a no-op, because the supervisor owns the process
// lifecycle across operator sessions.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	if o.handle == nil {
		return nil
	}
	if o.handle.Backend != process.BackendChild {
		o.log.Info("supervised backend: leaving node process to the supervisor")
		return nil
	}
	if err := o.ctrl.Stop(ctx, o.handle); err != nil {
		return err
	}
	if o.state == StateRunningSafe {
		o.setState(StateStopped)
	}
	return nil
}

func (o *Orchestrator) setState(s State) {
	o.log.Info("state transition", zap.Stringer("from", o.state), zap.Stringer("to", s))
	if o.onTransition != nil {
		o.onTransition(o.state, s)
	}
	o.state = s
	if o.metrics != nil {
		o.metrics.SetState(o.cfg.DerivedName, s)
	}
}

func (o *Orchestrator) observePhase(phase string, d time.Duration) {
	if o.metrics != nil {
		o.metrics.ObservePhase(o.cfg.DerivedName, phase, d)
	}
}

// fail transitions to Failed and wraps the error with the state it occurred
// in plus the cleanup outcome.
func (o *Orchestrator) fail(err error, processLeftRunning bool) error {
	failure := &Failure{State: o.state, ProcessLeftRunning: processLeftRunning, Err: err}
	o.setState(StateFailed)
	return failure
}
