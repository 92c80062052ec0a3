// Package launch implements the bootstrap state machine that takes a node
// from cold to securely running.
//
// The orchestrator composes the config, keys, process, rpc, and session
// packages into the launch/secure/restart protocol: start with unsafe
// administrative RPC (validators only), gate on RPC health, install session
// keys, then restart with the hardened flag set and gate again. All
// rollback and abort logic lives here; on no exit path is an unhealthy
// process left running unattended, and the one deliberate exception
// (a failed key installation leaves the node up for diagnosis) is reported
// loudly.
package launch
