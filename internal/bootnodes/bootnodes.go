// Package bootnodes resolves bootnode multiaddresses from a directory file.
//
// The directory file is a YAML mapping from derived node name to either one
// multiaddress string or an ordered list of them. An absent file or an
// absent key means "no bootnodes", never an error: a freshly initialized
// network has nothing to dial.
package bootnodes

import (
	"fmt"
	"os"

	"github.com/multiformats/go-multiaddr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Directory maps derived node names to their bootnode multiaddresses.
type Directory map[string][]string

// Load reads a bootnode directory file. An unset or missing file yields an
// empty directory.
func Load(path string) (Directory, error) {
	if path == "" {
		return Directory{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Directory{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading bootnode directory: %w", err)
	}
	return Parse(data)
}

// Parse decodes directory file content. Each value may be a single string
// or a sequence of strings.
func Parse(data []byte) (Directory, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing bootnode directory: %w", err)
	}

	dir := make(Directory, len(raw))
	for name, node := range raw {
		switch node.Kind {
		case yaml.ScalarNode:
			var addr string
			if err := node.Decode(&addr); err != nil {
				return nil, fmt.Errorf("bootnode entry %q: %w", name, err)
			}
			dir[name] = []string{addr}
		case yaml.SequenceNode:
			var addrs []string
			if err := node.Decode(&addrs); err != nil {
				return nil, fmt.Errorf("bootnode entry %q: %w", name, err)
			}
			dir[name] = addrs
		default:
			return nil, fmt.Errorf("bootnode entry %q: expected string or list", name)
		}
	}
	return dir, nil
}

// For returns the validated bootnode addresses for a node name, preserving
// file order. Invalid multiaddresses are skipped with a warning rather than
// failing the launch; one stale entry must not keep a node down.
func (d Directory) For(name string, log *zap.Logger) []string {
	entries := d[name]
	valid := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, err := multiaddr.NewMultiaddr(entry); err != nil {
			log.Warn("skipping invalid bootnode multiaddress",
				zap.String("node", name), zap.String("addr", entry), zap.Error(err))
			continue
		}
		valid = append(valid, entry)
	}
	return valid
}

// Validate checks that a single multiaddress parses. Used by the chainspec
// init flow before embedding bootnodes in a spec.
func Validate(addr string) error {
	if _, err := multiaddr.NewMultiaddr(addr); err != nil {
		return fmt.Errorf("invalid multiaddress %q: %w", addr, err)
	}
	return nil
}
