package config

import (
	"os"
	"time"
)

// Timeouts holds the configurable wait budgets for the bootstrap sequence.
// Values can be customized via environment variables.
type Timeouts struct {
	// Health bounds the wait for the node's RPC endpoint after first start.
	Health time.Duration
	// RestartHealth bounds the wait after the hardened restart. Kept
	// separate because a warm restart usually answers much faster.
	RestartHealth time.Duration
	// HealthInterval is the delay between liveness probes.
	HealthInterval time.Duration
	// Stop bounds the wait for graceful process termination.
	Stop time.Duration
}

// LoadTimeouts loads timeout configuration from environment variables,
// falling back to defaults when a variable is unset or invalid.
//
// Environment variables:
//   - NODEOPS_TIMEOUT_HEALTH (default: 60s)
//   - NODEOPS_TIMEOUT_RESTART_HEALTH (default: 60s)
//   - NODEOPS_HEALTH_INTERVAL (default: 1s)
//   - NODEOPS_TIMEOUT_STOP (default: 30s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Health:         parseDuration("NODEOPS_TIMEOUT_HEALTH", 60*time.Second),
		RestartHealth:  parseDuration("NODEOPS_TIMEOUT_RESTART_HEALTH", 60*time.Second),
		HealthInterval: parseDuration("NODEOPS_HEALTH_INTERVAL", time.Second),
		Stop:           parseDuration("NODEOPS_TIMEOUT_STOP", 30*time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
