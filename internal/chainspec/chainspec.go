// Package chainspec builds and patches network chain specifications by
// driving the node binary's build-spec command and rewriting the genesis
// patch in place.
package chainspec

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/bootnodes"
	"github.com/modnet-labs/nodeops/internal/keys"
)

// Options configures a chainspec build.
type Options struct {
	// ChainID is the chain spec id passed to build-spec.
	ChainID string
	// OutDir receives the generated spec files.
	OutDir string
	// OutPrefix names the output files <prefix>.json and <prefix>-raw.json.
	// Defaults to ChainID.
	OutPrefix string
	// NodeBinary is the node executable providing build-spec.
	NodeBinary string

	// Aura is the block-production authority, SS58 or 0x-prefixed hex.
	Aura string
	// Grandpa is the finality authority, SS58 or 0x-prefixed hex.
	Grandpa string

	// Sudo is an explicit SS58 sudo account. Mutually exclusive with
	// Signers.
	Sudo string
	// Signers derives the sudo account as a multisig over these SS58
	// addresses with Threshold approvals.
	Signers   []string
	Threshold uint16

	// Bootnodes are multiaddrs embedded in the spec. Invalid entries are
	// skipped with a warning rather than failing the build.
	Bootnodes []string
	// Telemetry overrides the spec's telemetry submit URL.
	Telemetry string

	// SS58Prefix is the address format of the network. Defaults to 42.
	SS58Prefix uint8
}

// Result reports the written spec files and the effective sudo account.
type Result struct {
	PlainPath string
	RawPath   string
	Sudo      string
}

// commandRunner executes the node binary and returns its stdout. Injected
// so tests can run without a built node.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Builder produces patched plain and raw chain specs.
type Builder struct {
	log *zap.Logger
	run commandRunner
}

// NewBuilder builds a chainspec builder.
func NewBuilder(log *zap.Logger) *Builder {
	return &Builder{log: log, run: runCommand}
}

// Init generates the base spec, patches genesis authorities, sudo,
// bootnodes and telemetry, writes the plain spec, then converts it to the
// raw storage form.
func (b *Builder) Init(ctx context.Context, opts Options) (Result, error) {
	if err := validate(&opts); err != nil {
		return Result{}, err
	}

	sudo, err := b.resolveSudo(opts)
	if err != nil {
		return Result{}, err
	}
	aura, err := toSS58(opts.Aura, opts.SS58Prefix)
	if err != nil {
		return Result{}, fmt.Errorf("aura authority: %w", err)
	}
	grandpa, err := toSS58(opts.Grandpa, opts.SS58Prefix)
	if err != nil {
		return Result{}, fmt.Errorf("grandpa authority: %w", err)
	}

	b.log.Info("building base chain spec", zap.String("chain", opts.ChainID))
	plainText, err := b.run(ctx, opts.NodeBinary, "build-spec", "--chain", opts.ChainID)
	if err != nil {
		return Result{}, fmt.Errorf("building base spec: %w", err)
	}

	var spec map[string]any
	if err := json.Unmarshal(plainText, &spec); err != nil {
		return Result{}, fmt.Errorf("parsing base spec: %w", err)
	}

	patch, err := genesisPatch(spec)
	if err != nil {
		return Result{}, err
	}
	section(patch, "aura")["authorities"] = []any{aura}
	section(patch, "grandpa")["authorities"] = []any{[]any{grandpa, 1}}
	section(patch, "sudo")["key"] = sudo

	if valid := b.validBootnodes(opts.Bootnodes); len(valid) > 0 {
		spec["bootNodes"] = valid
	}
	if opts.Telemetry != "" {
		spec["telemetryEndpoints"] = map[string]any{
			"endpoints": []any{[]any{opts.Telemetry, 0}},
		}
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating spec directory: %w", err)
	}
	plainPath := filepath.Join(opts.OutDir, opts.OutPrefix+".json")
	rawPath := filepath.Join(opts.OutDir, opts.OutPrefix+"-raw.json")

	patched, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encoding patched spec: %w", err)
	}
	if err := os.WriteFile(plainPath, append(patched, '\n'), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing plain spec: %w", err)
	}

	b.log.Info("building raw chain spec", zap.String("path", rawPath))
	rawText, err := b.run(ctx, opts.NodeBinary, "build-spec", "--chain", plainPath, "--raw")
	if err != nil {
		return Result{}, fmt.Errorf("building raw spec: %w", err)
	}
	if err := os.WriteFile(rawPath, rawText, 0o644); err != nil {
		return Result{}, fmt.Errorf("writing raw spec: %w", err)
	}

	return Result{PlainPath: plainPath, RawPath: rawPath, Sudo: sudo}, nil
}

func validate(opts *Options) error {
	if opts.ChainID == "" {
		return fmt.Errorf("chain id is required")
	}
	if opts.NodeBinary == "" {
		return fmt.Errorf("node binary is required")
	}
	if opts.Aura == "" || opts.Grandpa == "" {
		return fmt.Errorf("aura and grandpa authorities are required")
	}
	if opts.Sudo == "" && len(opts.Signers) == 0 {
		return fmt.Errorf("either a sudo account or multisig signers are required")
	}
	if opts.Sudo != "" && len(opts.Signers) > 0 {
		return fmt.Errorf("sudo account and multisig signers are mutually exclusive")
	}
	if len(opts.Signers) > 0 && opts.Threshold == 0 {
		return fmt.Errorf("a threshold is required with multisig signers")
	}
	if opts.OutPrefix == "" {
		opts.OutPrefix = opts.ChainID
	}
	if opts.OutDir == "" {
		opts.OutDir = "specs"
	}
	if opts.SS58Prefix == 0 {
		opts.SS58Prefix = 42
	}
	return nil
}

func (b *Builder) resolveSudo(opts Options) (string, error) {
	if opts.Sudo != "" {
		return opts.Sudo, nil
	}
	sudo, err := keys.MultisigAddress(opts.Signers, opts.Threshold, opts.SS58Prefix)
	if err != nil {
		return "", fmt.Errorf("deriving sudo multisig: %w", err)
	}
	b.log.Info("derived sudo multisig account", zap.String("sudo", sudo),
		zap.Int("signers", len(opts.Signers)), zap.Uint16("threshold", opts.Threshold))
	return sudo, nil
}

// toSS58 accepts an authority as SS58 or as a 0x-prefixed 32-byte hex
// public key and returns the SS58 form.
func toSS58(val string, prefix uint8) (string, error) {
	val = strings.TrimSpace(val)
	if !strings.HasPrefix(val, "0x") {
		if _, _, err := keys.SS58Decode(val); err != nil {
			return "", err
		}
		return val, nil
	}
	pub, err := hex.DecodeString(strings.TrimPrefix(val, "0x"))
	if err != nil {
		return "", fmt.Errorf("decoding hex public key: %w", err)
	}
	return keys.SS58Encode(pub, prefix)
}

func (b *Builder) validBootnodes(addrs []string) []string {
	var valid []string
	for _, addr := range addrs {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		if err := bootnodes.Validate(addr); err != nil {
			b.log.Warn("skipping invalid bootnode multiaddr", zap.String("addr", addr), zap.Error(err))
			continue
		}
		valid = append(valid, addr)
	}
	return valid
}

// genesisPatch navigates to genesis.runtimeGenesis.patch and fails on any
// other spec layout.
func genesisPatch(spec map[string]any) (map[string]any, error) {
	genesis, ok := spec["genesis"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected chain spec layout: missing genesis")
	}
	runtime, ok := genesis["runtimeGenesis"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected chain spec layout: missing genesis.runtimeGenesis")
	}
	patch, ok := runtime["patch"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected chain spec layout: missing genesis.runtimeGenesis.patch")
	}
	return patch, nil
}

func section(patch map[string]any, name string) map[string]any {
	if m, ok := patch[name].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	patch[name] = m
	return m
}
