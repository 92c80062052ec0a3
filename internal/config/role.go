package config

import "fmt"

// Role is the operational function of a node.
type Role string

const (
	// RoleValidator participates in consensus and may install session keys.
	RoleValidator Role = "validator"
	// RoleFull relays and validates blocks without producing them.
	RoleFull Role = "full"
	// RoleArchive retains full historical state.
	RoleArchive Role = "archive"
)

// Roles lists all valid roles in a stable order.
var Roles = []Role{RoleValidator, RoleFull, RoleArchive}

// ParseRole converts a user-supplied role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleValidator, RoleFull, RoleArchive:
		return Role(s), nil
	}
	return "", &Error{Field: "role", Reason: fmt.Sprintf("unknown role %q: must be one of validator, full, archive", s)}
}

func (r Role) String() string {
	return string(r)
}

// BootstrapMode selects how the node reaches its hardened steady state.
type BootstrapMode string

const (
	// BootstrapSafeOnly starts the node once with safe RPC exposure.
	BootstrapSafeOnly BootstrapMode = "safe"
	// BootstrapUnsafeThenSafe starts with unsafe administrative RPC, installs
	// session keys, then restarts hardened. Validator-only.
	BootstrapUnsafeThenSafe BootstrapMode = "unsafe-then-safe"
)

// ParseBootstrapMode converts a user-supplied bootstrap mode string.
func ParseBootstrapMode(s string) (BootstrapMode, error) {
	switch BootstrapMode(s) {
	case BootstrapSafeOnly, BootstrapUnsafeThenSafe:
		return BootstrapMode(s), nil
	}
	return "", &Error{Field: "bootstrap", Reason: fmt.Sprintf("unknown bootstrap mode %q: must be %q or %q", s, BootstrapSafeOnly, BootstrapUnsafeThenSafe)}
}

// SupervisorBackend selects who owns the node process lifecycle.
type SupervisorBackend string

const (
	// SupervisorNone runs the node as a direct child of the orchestrator.
	SupervisorNone SupervisorBackend = "none"
	// SupervisorPM2 delegates process lifecycle to a pm2 daemon.
	SupervisorPM2 SupervisorBackend = "pm2"
)

// ParseSupervisorBackend converts a user-supplied supervisor string.
func ParseSupervisorBackend(s string) (SupervisorBackend, error) {
	switch SupervisorBackend(s) {
	case SupervisorNone, SupervisorPM2:
		return SupervisorBackend(s), nil
	}
	return "", &Error{Field: "supervisor", Reason: fmt.Sprintf("unknown supervisor backend %q: must be %q or %q", s, SupervisorNone, SupervisorPM2)}
}

// TelemetryMode controls whether the node reports to public telemetry.
type TelemetryMode string

const (
	// TelemetryPublic reports to the configured telemetry endpoint.
	TelemetryPublic TelemetryMode = "public"
	// TelemetryDisabled suppresses all telemetry.
	TelemetryDisabled TelemetryMode = "disabled"
)

// ParseTelemetryMode converts a user-supplied telemetry string.
func ParseTelemetryMode(s string) (TelemetryMode, error) {
	switch TelemetryMode(s) {
	case TelemetryPublic, TelemetryDisabled:
		return TelemetryMode(s), nil
	}
	return "", &Error{Field: "telemetry", Reason: fmt.Sprintf("unknown telemetry mode %q: must be %q or %q", s, TelemetryPublic, TelemetryDisabled)}
}
