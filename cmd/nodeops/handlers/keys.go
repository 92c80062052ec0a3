package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/modnet-labs/nodeops/internal/keys"
	"github.com/modnet-labs/nodeops/internal/util/prerequisites"
)

// KeyRecord is the printed result of a key generation or inspection.
type KeyRecord struct {
	Scheme       string `json:"scheme,omitempty"`
	SecretPhrase string `json:"secretPhrase,omitempty"`
	PublicKeyHex string `json:"publicKeyHex,omitempty"`
	SS58Address  string `json:"ss58Address"`
}

// KeysGenerate handles keys generate: produce fresh session keypairs via
// the subkey tool. With an empty scheme both the block-production
// (sr25519) and finality (ed25519) keys are generated.
func KeysGenerate(ctx context.Context, scheme, network string) error {
	if !prerequisites.Have("subkey") {
		return fmt.Errorf("subkey is not available on this host; install it from Substrate")
	}

	schemes := []string{keys.SchemeSr25519, keys.SchemeEd25519}
	if scheme != "" {
		if scheme != keys.SchemeSr25519 && scheme != keys.SchemeEd25519 {
			return fmt.Errorf("unknown scheme %q: must be %s or %s", scheme, keys.SchemeSr25519, keys.SchemeEd25519)
		}
		schemes = []string{scheme}
	}

	sk := keys.Subkey{Network: network}
	records := map[string]KeyRecord{}
	for _, s := range schemes {
		out, err := sk.Generate(ctx, s)
		if err != nil {
			return err
		}
		records[s] = KeyRecord{
			Scheme:       s,
			SecretPhrase: out.SecretPhrase,
			PublicKeyHex: out.PublicKeyHex,
			SS58Address:  out.SS58Address,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if len(schemes) == 1 {
		return enc.Encode(records[schemes[0]])
	}
	return enc.Encode(records)
}

// KeysInspect handles keys inspect: convert a hex public key to its SS58
// address via subkey.
func KeysInspect(ctx context.Context, publicHex, scheme, network string) error {
	if !strings.HasPrefix(publicHex, "0x") {
		return fmt.Errorf("public key must be 0x-prefixed hex")
	}
	if !prerequisites.Have("subkey") {
		return fmt.Errorf("subkey is not available on this host; install it from Substrate")
	}

	out, err := keys.Subkey{Network: network}.InspectPublic(ctx, publicHex, scheme)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(KeyRecord{
		Scheme:       scheme,
		PublicKeyHex: out.PublicKeyHex,
		SS58Address:  out.SS58Address,
	})
}

// MultisigRecord is the printed result of a multisig derivation.
type MultisigRecord struct {
	Signers         []string `json:"signers"`
	Threshold       uint16   `json:"threshold"`
	SS58Prefix      uint8    `json:"ss58Prefix"`
	MultisigAddress string   `json:"multisigAddress"`
}

// KeysMultisig handles keys multisig: derive the deterministic multisig
// account for a signer set in-process, no external tool needed.
func KeysMultisig(signers []string, threshold uint16, prefix uint8) error {
	addr, err := keys.MultisigAddress(signers, threshold, prefix)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(MultisigRecord{
		Signers:         signers,
		Threshold:       threshold,
		SS58Prefix:      prefix,
		MultisigAddress: addr,
	})
}
