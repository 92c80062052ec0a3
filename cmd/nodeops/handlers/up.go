// Package handlers implements the command logic behind the CLI surface.
//
// Handlers wire the internal packages together: configuration resolution,
// key provisioning, process control, health probing and the bootstrap
// state machine. Cobra commands in the commands package stay thin and
// delegate here.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/config"
	"github.com/modnet-labs/nodeops/internal/keys"
	"github.com/modnet-labs/nodeops/internal/launch"
	"github.com/modnet-labs/nodeops/internal/logging"
	"github.com/modnet-labs/nodeops/internal/process"
	"github.com/modnet-labs/nodeops/internal/rpc"
	"github.com/modnet-labs/nodeops/internal/session"
	"github.com/modnet-labs/nodeops/internal/util/prerequisites"
)

// UpOptions carries the raw flag values for the up command.
type UpOptions struct {
	Role      string
	Index     int
	ChainSpec string
	BasePath  string
	KeyDir    string

	Bootstrap         string
	Supervisor        string
	Telemetry         string
	TelemetryEndpoint string

	NodeBinary   string
	InsertClient string

	NodeKey           string
	GenerateNodeKey   bool
	RegenerateNodeKey bool

	AuraKeyFile    string
	GrandpaKeyFile string

	BootnodesFile string
	MetricsListen string
	LogFile       string
	Verbose       bool
}

// Up handles the up command: resolve configuration, bootstrap the node to
// its hardened steady state, then block until interrupted (direct-child
// backend) or return immediately (supervised backend).
func Up(ctx context.Context, opts UpOptions) error {
	log := logging.New(logging.Options{Verbose: opts.Verbose, FilePath: opts.LogFile})
	defer func() { _ = log.Sync() }()

	// Validators install session keys by default; the flag still allows a
	// safe-only validator start, e.g. after keys are already installed.
	if opts.Bootstrap == "" && opts.Role == string(config.RoleValidator) {
		opts.Bootstrap = string(config.BootstrapUnsafeThenSafe)
	}

	cfg, err := config.Resolve(config.Inputs{
		Role:              opts.Role,
		Index:             opts.Index,
		ChainSpecPath:     opts.ChainSpec,
		BasePath:          opts.BasePath,
		KeyDir:            opts.KeyDir,
		Telemetry:         opts.Telemetry,
		TelemetryEndpoint: opts.TelemetryEndpoint,
		Bootstrap:         opts.Bootstrap,
		Supervisor:        opts.Supervisor,
		NodeBinary:        opts.NodeBinary,
		InsertClient:      opts.InsertClient,
		NodeKey:           opts.NodeKey,
		GenerateNodeKey:   opts.GenerateNodeKey,
		RegenerateNodeKey: opts.RegenerateNodeKey,
		AuraKeyFile:       opts.AuraKeyFile,
		GrandpaKeyFile:    opts.GrandpaKeyFile,
		BootnodesFile:     opts.BootnodesFile,
		MetricsListen:     opts.MetricsListen,
	}, prerequisites.Have)
	if err != nil {
		return err
	}

	checks := prerequisites.Check(prerequisites.NodeTools(cfg.NodeBinary, cfg.InsertClient))
	if err := checks.Error(); err != nil {
		return fmt.Errorf("missing prerequisites: %w", err)
	}

	timeouts := config.LoadTimeouts()

	var ctrl process.Controller
	if cfg.Supervisor == config.SupervisorPM2 {
		ctrl = process.NewPM2Controller(log)
	} else {
		ctrl = process.NewChildController(log, timeouts.Stop)
	}

	probe := rpc.NewProbe(log, timeouts.HealthInterval)
	installer := session.NewInstaller(cfg.InsertClient, isInteractiveTTY(), log)

	var metrics *launch.Metrics
	if cfg.MetricsListen != "" {
		metrics = launch.NewMetrics()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := launch.New(cfg, timeouts, ctrl, probe, installer, metrics, log)

	err = orch.Run(ctx)
	if err != nil && isInteractiveTTY() {
		// Missing session key artifacts are the one failure an operator
		// can fix on the spot: ask for the paths and retry once.
		var notFound *keys.SessionKeyNotFoundError
		if errors.As(err, &notFound) {
			if cfg, err = promptSessionKeys(cfg, notFound); err != nil {
				return err
			}
			orch = launch.New(cfg, timeouts, ctrl, probe, installer, metrics, log)
			err = orch.Run(ctx)
		}
	}
	if err != nil {
		return err
	}

	log.Info("node is up",
		zap.String("node", cfg.DerivedName),
		zap.String("rpc", cfg.RPCURL()),
		zap.Int("p2p", cfg.Ports.P2P))

	if cfg.Supervisor != config.SupervisorNone {
		// The supervisor owns the process from here on.
		return nil
	}

	if metrics != nil {
		go metrics.Serve(ctx, cfg.MetricsListen, log)
	}

	<-ctx.Done()
	log.Info("shutting down", zap.String("node", cfg.DerivedName))
	return orch.Shutdown(context.Background())
}

// promptSessionKeys asks the operator for the missing session key artifact
// paths. Only called from an interactive terminal; the orchestrator core
// never prompts.
func promptSessionKeys(cfg config.NodeLaunchConfig, notFound *keys.SessionKeyNotFoundError) (config.NodeLaunchConfig, error) {
	fileExists := func(path string) error {
		if path == "" {
			return fmt.Errorf("a path is required")
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read %s", path)
		}
		return nil
	}

	aura, grandpa := cfg.AuraKeyFile, cfg.GrandpaKeyFile
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Aura session key artifact").
				Description(fmt.Sprintf("No %s key found in %s", keys.TagAura, notFound.Dir)).
				Validate(fileExists).
				Value(&aura),
			huh.NewInput().
				Title("Grandpa session key artifact").
				Validate(fileExists).
				Value(&grandpa),
		),
	)
	if err := form.Run(); err != nil {
		return cfg, fmt.Errorf("session key prompt aborted: %w", err)
	}

	cfg.AuraKeyFile = aura
	cfg.GrandpaKeyFile = grandpa
	return cfg, nil
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
