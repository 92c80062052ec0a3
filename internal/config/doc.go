// Package config resolves node launch configuration from flags, environment
// variables, and defaults into a single immutable NodeLaunchConfig.
//
// Resolution is pure: no I/O beyond reading the supplied inputs. Host
// capability checks (is the process supervisor installed?) are injected by
// the caller as a probe function so the resolver stays testable.
package config
