// Package keys provisions node key material.
//
// Two independent concerns live here. The network-identity key (the secret
// behind the node's peer-to-peer address) is resolved from a hex literal or
// a file, or generated and persisted under the key directory. The session
// key bundle (block-production and finality-voting artifacts produced by the
// external key tool) is only located, never parsed: the orchestrator holds
// paths, not secrets.
//
// The package also wraps the external subkey tool and implements SS58
// address encoding and pallet-multisig address derivation for the key
// management commands.
package keys
