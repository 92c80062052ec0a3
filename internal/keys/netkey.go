package keys

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/util/naming"
)

// hexKeyPattern matches a 32-byte secret in hex, prefix already stripped.
var hexKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// NetworkKey is the resolved network-identity secret.
type NetworkKey struct {
	// Hex is the 64-character secret without a 0x prefix. Empty for a
	// transient identity.
	Hex string

	// FilePath is set when the secret lives in (or was persisted to) a
	// file; the node is then pointed at the file instead of receiving the
	// secret on its command line.
	FilePath string

	// Transient is true when no key was supplied and generation was
	// disabled; the node will derive a fresh identity on every start.
	Transient bool
}

// NetworkKeyOptions controls network-identity key resolution.
type NetworkKeyOptions struct {
	// Input is a file path or a 64-hex-character literal (0x prefix
	// allowed). Empty means generate or run transient.
	Input string

	// Generate enables auto-generation when Input is empty.
	Generate bool

	// Regenerate allows overwriting a previously persisted key file.
	// Without it an existing file is reused, never replaced: replacing the
	// key silently would invalidate the node's announced peer identity.
	Regenerate bool

	// KeyDir is where generated keys are persisted.
	KeyDir string

	// NodeName scopes the persisted file name.
	NodeName string
}

// ResolveNetworkKey resolves the network-identity key per the configured
// options.
//
// An input naming an existing file is read with all whitespace stripped;
// any other input must be exactly 64 hex characters after an optional 0x
// prefix. Both shapes are validated against the same contract and fail with
// InvalidKeyMaterialError otherwise.
func ResolveNetworkKey(opts NetworkKeyOptions, log *zap.Logger) (NetworkKey, error) {
	if opts.Input != "" {
		return resolveExplicit(opts.Input)
	}

	if !opts.Generate {
		log.Warn("no network-identity key supplied and generation disabled; node will start with a transient identity",
			zap.String("node", opts.NodeName))
		return NetworkKey{Transient: true}, nil
	}

	return generateNetworkKey(opts, log)
}

func resolveExplicit(input string) (NetworkKey, error) {
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		data, err := os.ReadFile(input)
		if err != nil {
			return NetworkKey{}, &InvalidKeyMaterialError{Input: input, Reason: fmt.Sprintf("reading key file: %v", err)}
		}
		secret := stripAllWhitespace(string(data))
		secret = strings.TrimPrefix(secret, "0x")
		if !hexKeyPattern.MatchString(secret) {
			return NetworkKey{}, &InvalidKeyMaterialError{Input: input, Reason: "key file does not contain 64 hex characters"}
		}
		return NetworkKey{Hex: secret, FilePath: input}, nil
	}

	secret := strings.TrimPrefix(strings.TrimSpace(input), "0x")
	if !hexKeyPattern.MatchString(secret) {
		return NetworkKey{}, &InvalidKeyMaterialError{Input: input, Reason: "not an existing file and not 64 hex characters"}
	}
	return NetworkKey{Hex: secret}, nil
}

// generateNetworkKey creates a fresh 32-byte secret and persists it under
// the key directory. Re-running with the same node name reuses the
// persisted file unless Regenerate is set.
func generateNetworkKey(opts NetworkKeyOptions, log *zap.Logger) (NetworkKey, error) {
	path := filepath.Join(opts.KeyDir, naming.NodeKeyFile(opts.NodeName))

	if _, err := os.Stat(path); err == nil && !opts.Regenerate {
		log.Info("reusing persisted network-identity key", zap.String("path", path))
		return resolveExplicit(path)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return NetworkKey{}, fmt.Errorf("generating network-identity key: %w", err)
	}
	encoded := hex.EncodeToString(secret)

	if err := os.MkdirAll(opts.KeyDir, 0o700); err != nil {
		return NetworkKey{}, fmt.Errorf("creating key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(encoded+"\n"), 0o600); err != nil {
		return NetworkKey{}, fmt.Errorf("persisting network-identity key: %w", err)
	}

	log.Info("generated network-identity key", zap.String("path", path))
	return NetworkKey{Hex: encoded, FilePath: path}, nil
}

func stripAllWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
