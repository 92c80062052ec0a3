package config

// Ports holds the three network ports a node binds on one host.
type Ports struct {
	P2P     int
	RPC     int
	Metrics int
}

// Base ports follow the Substrate defaults; each role gets a fixed offset
// block of MaxInstances ports so no two (role, index) pairs can collide on
// one host.
const (
	baseP2P     = 30333
	baseRPC     = 9944
	baseMetrics = 9615

	// MaxInstances bounds the per-role instance index. The bound keeps the
	// per-role port blocks disjoint.
	MaxInstances = 99
)

// roleOffsets is the per-role port offset table. All port derivation goes
// through this table; call sites never improvise offsets.
var roleOffsets = map[Role]int{
	RoleValidator: 0,
	RoleFull:      100,
	RoleArchive:   200,
}

// PortsFor derives the port triple for a (role, index) pair. It is total
// over valid inputs: role must be a known Role and index must be in
// [1, MaxInstances], both enforced by Resolve before this is called.
func PortsFor(role Role, index int) Ports {
	off := roleOffsets[role] + (index - 1)
	return Ports{
		P2P:     baseP2P + off,
		RPC:     baseRPC + off,
		Metrics: baseMetrics + off,
	}
}
