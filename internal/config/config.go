package config

import (
	"fmt"
	"path/filepath"
)

// CapabilityProbe reports whether a named host tool is available. The
// resolver uses it to reject supervisor backends whose tool is missing;
// callers typically pass prerequisites.Have.
type CapabilityProbe func(tool string) bool

// Inputs carries the raw flag and environment values before resolution.
type Inputs struct {
	Role          string
	Index         int
	ChainSpecPath string
	BasePath      string
	KeyDir        string

	Telemetry         string
	TelemetryEndpoint string
	Bootstrap         string
	Supervisor        string

	NodeBinary   string
	InsertClient string

	// NodeKey is the network-identity key input: a file path or 64 hex
	// characters. Empty means generate (or run transient when generation
	// is disabled).
	NodeKey           string
	GenerateNodeKey   bool
	RegenerateNodeKey bool

	// Explicit session key artifact paths; empty falls back to the key
	// directory search.
	AuraKeyFile    string
	GrandpaKeyFile string

	BootnodesFile string
	MetricsListen string
}

// NodeLaunchConfig is the immutable, fully-resolved launch configuration.
// Build it once with Resolve and pass it by value through the bootstrap
// sequence; nothing reads ambient globals after this point.
type NodeLaunchConfig struct {
	Role        Role
	Index       int
	DerivedName string
	Ports       Ports

	ChainSpecPath string
	BasePath      string
	KeyDir        string

	Telemetry         TelemetryMode
	TelemetryEndpoint string
	Bootstrap         BootstrapMode
	Supervisor        SupervisorBackend

	NodeBinary   string
	InsertClient string

	NodeKey           string
	GenerateNodeKey   bool
	RegenerateNodeKey bool

	AuraKeyFile    string
	GrandpaKeyFile string

	BootnodesFile string
	MetricsListen string
}

// RPCURL returns the local JSON-RPC endpoint the node exposes.
func (c NodeLaunchConfig) RPCURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", c.Ports.RPC)
}

// LogPath returns the node process log sink path under the base data dir.
func (c NodeLaunchConfig) LogPath() string {
	return filepath.Join(c.BasePath, "logs", c.DerivedName+".log")
}

// Resolve merges raw inputs and defaults into a NodeLaunchConfig.
//
// It rejects unknown role strings, out-of-range instance numbers, a missing
// chain spec path, and a supervisor backend whose tool the probe cannot
// find. Non-validator roles never install session keys, so their bootstrap
// mode is forced to safe-only regardless of input.
func Resolve(in Inputs, probe CapabilityProbe) (NodeLaunchConfig, error) {
	var cfg NodeLaunchConfig

	role, err := ParseRole(in.Role)
	if err != nil {
		return cfg, err
	}
	if in.Index <= 0 || in.Index > MaxInstances {
		return cfg, &Error{Field: "index", Reason: fmt.Sprintf("instance number %d out of range [1, %d]", in.Index, MaxInstances)}
	}
	if in.ChainSpecPath == "" {
		return cfg, &Error{Field: "chain-spec", Reason: "path to the chain spec is required"}
	}

	telemetry := TelemetryDisabled
	if in.Telemetry != "" {
		if telemetry, err = ParseTelemetryMode(in.Telemetry); err != nil {
			return cfg, err
		}
	}
	if telemetry == TelemetryPublic && in.TelemetryEndpoint == "" {
		return cfg, &Error{Field: "telemetry-endpoint", Reason: "public telemetry requires an endpoint URL"}
	}

	bootstrap := BootstrapSafeOnly
	if in.Bootstrap != "" {
		if bootstrap, err = ParseBootstrapMode(in.Bootstrap); err != nil {
			return cfg, err
		}
	}
	// Only validators install session keys; everything else runs the
	// hardened flag set from the first start.
	if role != RoleValidator {
		bootstrap = BootstrapSafeOnly
	}

	supervisor := SupervisorNone
	if in.Supervisor != "" {
		if supervisor, err = ParseSupervisorBackend(in.Supervisor); err != nil {
			return cfg, err
		}
	}
	if supervisor == SupervisorPM2 {
		if probe == nil || !probe("pm2") {
			return cfg, &Error{Field: "supervisor", Reason: "pm2 backend requested but pm2 is not available on this host"}
		}
	}

	basePath := in.BasePath
	if basePath == "" {
		basePath = filepath.Join(".", "data")
	}
	keyDir := in.KeyDir
	if keyDir == "" {
		keyDir = filepath.Join(basePath, "keys")
	}
	nodeBinary := in.NodeBinary
	if nodeBinary == "" {
		nodeBinary = "modnet-node"
	}
	insertClient := in.InsertClient
	if insertClient == "" {
		insertClient = "modnet-insert-keys"
	}

	name := fmt.Sprintf("%s-%d", role, in.Index)

	cfg = NodeLaunchConfig{
		Role:        role,
		Index:       in.Index,
		DerivedName: name,
		Ports:       PortsFor(role, in.Index),

		ChainSpecPath: in.ChainSpecPath,
		BasePath:      basePath,
		KeyDir:        keyDir,

		Telemetry:         telemetry,
		TelemetryEndpoint: in.TelemetryEndpoint,
		Bootstrap:         bootstrap,
		Supervisor:        supervisor,

		NodeBinary:   nodeBinary,
		InsertClient: insertClient,

		NodeKey:           in.NodeKey,
		GenerateNodeKey:   in.GenerateNodeKey,
		RegenerateNodeKey: in.RegenerateNodeKey,

		AuraKeyFile:    in.AuraKeyFile,
		GrandpaKeyFile: in.GrandpaKeyFile,

		BootnodesFile: in.BootnodesFile,
		MetricsListen: in.MetricsListen,
	}
	return cfg, nil
}
