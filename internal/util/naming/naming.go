// Package naming provides consistent naming for node-scoped artifacts.
//
// Everything keyed by a node — the pm2 entry, the log sink, the persisted
// network-identity key — derives from the same "<role>-<index>" name so that
// artifacts from different nodes on one host never collide.
package naming

import "fmt"

// Node returns the derived node name for a (role, index) pair.
func Node(role string, index int) string {
	return fmt.Sprintf("%s-%d", role, index)
}

// NodeKeyFile returns the file name for a persisted network-identity key.
func NodeKeyFile(node string) string {
	return fmt.Sprintf("nodekey-%s.hex", node)
}

// LogFile returns the log sink file name for a node process.
func LogFile(node string) string {
	return fmt.Sprintf("%s.log", node)
}

// SessionKeyFile returns the canonical file name for a generated session
// key artifact, e.g. "validator-1-aura-sr25519.json".
func SessionKeyFile(node, tag, scheme string) string {
	return fmt.Sprintf("%s-%s-%s.json", node, tag, scheme)
}
