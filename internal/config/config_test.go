package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInputs() Inputs {
	return Inputs{
		Role:          "validator",
		Index:         1,
		ChainSpecPath: "specs/modnet-testnet-raw.json",
	}
}

func probeAll(string) bool  { return true }
func probeNone(string) bool { return false }

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(validInputs(), probeAll)
	require.NoError(t, err)

	assert.Equal(t, RoleValidator, cfg.Role)
	assert.Equal(t, "validator-1", cfg.DerivedName)
	assert.Equal(t, PortsFor(RoleValidator, 1), cfg.Ports)
	assert.Equal(t, BootstrapSafeOnly, cfg.Bootstrap)
	assert.Equal(t, SupervisorNone, cfg.Supervisor)
	assert.Equal(t, TelemetryDisabled, cfg.Telemetry)
	assert.Equal(t, "modnet-node", cfg.NodeBinary)
	assert.Equal(t, "modnet-insert-keys", cfg.InsertClient)
	assert.Equal(t, "http://127.0.0.1:9944", cfg.RPCURL())
}

func TestResolve_UnknownRole(t *testing.T) {
	in := validInputs()
	in.Role = "observer"
	_, err := Resolve(in, probeAll)
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "role", cfgErr.Field)
}

func TestResolve_IndexOutOfRange(t *testing.T) {
	for _, index := range []int{0, -1, MaxInstances + 1} {
		in := validInputs()
		in.Index = index
		_, err := Resolve(in, probeAll)
		require.Error(t, err, "index %d", index)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "index", cfgErr.Field)
	}
}

func TestResolve_MissingChainSpec(t *testing.T) {
	in := validInputs()
	in.ChainSpecPath = ""
	_, err := Resolve(in, probeAll)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain-spec")
}

func TestResolve_SupervisorRequiresProbe(t *testing.T) {
	in := validInputs()
	in.Supervisor = "pm2"

	_, err := Resolve(in, probeNone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pm2")

	cfg, err := Resolve(in, probeAll)
	require.NoError(t, err)
	assert.Equal(t, SupervisorPM2, cfg.Supervisor)

	// nil probe counts as no capability
	_, err = Resolve(in, nil)
	require.Error(t, err)
}

func TestResolve_NonValidatorForcesSafeOnly(t *testing.T) {
	for _, role := range []string{"full", "archive"} {
		in := validInputs()
		in.Role = role
		in.Index = 2
		in.Bootstrap = "unsafe-then-safe"

		cfg, err := Resolve(in, probeAll)
		require.NoError(t, err)
		assert.Equal(t, BootstrapSafeOnly, cfg.Bootstrap, "role %s must never run the unsafe phase", role)
	}
}

func TestResolve_ValidatorKeepsUnsafeThenSafe(t *testing.T) {
	in := validInputs()
	in.Bootstrap = "unsafe-then-safe"

	cfg, err := Resolve(in, probeAll)
	require.NoError(t, err)
	assert.Equal(t, BootstrapUnsafeThenSafe, cfg.Bootstrap)
}

func TestResolve_PublicTelemetryNeedsEndpoint(t *testing.T) {
	in := validInputs()
	in.Telemetry = "public"
	_, err := Resolve(in, probeAll)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry-endpoint")

	in.TelemetryEndpoint = "wss://telemetry.polkadot.io/submit/"
	cfg, err := Resolve(in, probeAll)
	require.NoError(t, err)
	assert.Equal(t, TelemetryPublic, cfg.Telemetry)
}

func TestLoadTimeouts_Defaults(t *testing.T) {
	timeouts := LoadTimeouts()
	assert.Equal(t, "1m0s", timeouts.Health.String())
	assert.Equal(t, "1s", timeouts.HealthInterval.String())
}

func TestLoadTimeouts_EnvOverride(t *testing.T) {
	t.Setenv("NODEOPS_TIMEOUT_HEALTH", "5s")
	t.Setenv("NODEOPS_HEALTH_INTERVAL", "not-a-duration")

	timeouts := LoadTimeouts()
	assert.Equal(t, "5s", timeouts.Health.String())
	assert.Equal(t, "1s", timeouts.HealthInterval.String(), "invalid value falls back to default")
}
