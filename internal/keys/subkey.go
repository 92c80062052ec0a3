package keys

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Schemes accepted by the subkey tool.
const (
	SchemeSr25519 = "sr25519" // aura / block production
	SchemeEd25519 = "ed25519" // grandpa / finality voting
)

// SubkeyOutput is the parsed result of a subkey generate or inspect run.
type SubkeyOutput struct {
	SecretPhrase string
	PublicKeyHex string
	SS58Address  string
}

// Subkey shells out to the external subkey tool. The zero value uses
// "subkey" from PATH.
type Subkey struct {
	// Binary overrides the subkey executable name.
	Binary string
	// Network is the SS58 network name passed to subkey (default
	// "substrate").
	Network string
}

func (s Subkey) binary() string {
	if s.Binary != "" {
		return s.Binary
	}
	return "subkey"
}

func (s Subkey) network() string {
	if s.Network != "" {
		return s.Network
	}
	return "substrate"
}

// Generate creates a fresh keypair for the given scheme.
func (s Subkey) Generate(ctx context.Context, scheme string) (SubkeyOutput, error) {
	out, err := s.run(ctx, "generate", "--scheme", scheme, "--network", s.network())
	if err != nil {
		return SubkeyOutput{}, err
	}
	parsed := parseSubkeyOutput(out)
	if parsed.SecretPhrase == "" || parsed.PublicKeyHex == "" {
		return SubkeyOutput{}, fmt.Errorf("unexpected subkey generate output: missing secret phrase or public key")
	}
	return parsed, nil
}

// InspectPublic converts a hex public key to its SS58 address.
func (s Subkey) InspectPublic(ctx context.Context, publicHex, scheme string) (SubkeyOutput, error) {
	out, err := s.run(ctx, "inspect", "--network", s.network(), "--public", "--scheme", scheme, publicHex)
	if err != nil {
		return SubkeyOutput{}, err
	}
	parsed := parseSubkeyOutput(out)
	if parsed.SS58Address == "" {
		return SubkeyOutput{}, fmt.Errorf("unexpected subkey inspect output: missing SS58 address")
	}
	return parsed, nil
}

func (s Subkey) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, s.binary(), args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("subkey %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// parseSubkeyOutput extracts the well-known fields from subkey's
// line-oriented output.
func parseSubkeyOutput(out string) SubkeyOutput {
	var parsed SubkeyOutput
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "secret phrase"):
			parsed.SecretPhrase = valueAfterColon(line)
		case strings.HasPrefix(lower, "public key (hex)"):
			parsed.PublicKeyHex = valueAfterColon(line)
		case strings.HasPrefix(lower, "ss58 address"):
			parsed.SS58Address = valueAfterColon(line)
		}
	}
	return parsed
}

func valueAfterColon(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}
