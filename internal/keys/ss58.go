package keys

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// SS58 address codec for AccountId32 values with single-byte network
// prefixes (0..63), which covers the generic Substrate prefix 42 used by
// the chain.

// ss58Preimage tags the checksum input, per the Substrate registry.
var ss58Preimage = []byte("SS58PRE")

// SS58Encode encodes a 32-byte account id under the given network prefix.
func SS58Encode(accountID []byte, prefix uint8) (string, error) {
	if len(accountID) != 32 {
		return "", fmt.Errorf("account id must be 32 bytes, got %d", len(accountID))
	}
	if prefix > 63 {
		return "", fmt.Errorf("network prefix %d out of single-byte range", prefix)
	}

	payload := append([]byte{prefix}, accountID...)
	sum := ss58Checksum(payload)
	return base58.Encode(append(payload, sum[:2]...)), nil
}

// SS58Decode decodes an SS58 address into its account id and prefix,
// verifying the checksum.
func SS58Decode(address string) (accountID []byte, prefix uint8, err error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding SS58 address: %w", err)
	}
	if len(raw) != 35 {
		return nil, 0, fmt.Errorf("unexpected SS58 payload length %d", len(raw))
	}

	payload, sum := raw[:33], raw[33:]
	want := ss58Checksum(payload)
	if !bytes.Equal(sum, want[:2]) {
		return nil, 0, fmt.Errorf("SS58 checksum mismatch")
	}
	return payload[1:], payload[0], nil
}

func ss58Checksum(payload []byte) [64]byte {
	return blake2b.Sum512(append(ss58Preimage, payload...))
}

// multisigTag is the account derivation tag used by pallet-multisig.
var multisigTag = []byte("modlpy/utilisig")

// MultisigAddress derives the deterministic multisig account for a signer
// set and threshold, matching pallet-multisig: blake2b-256 over the tag,
// the lexicographically sorted signer account ids, and the threshold as a
// little-endian u16.
func MultisigAddress(signers []string, threshold uint16, prefix uint8) (string, error) {
	if threshold == 0 || int(threshold) > len(signers) {
		return "", fmt.Errorf("threshold %d out of range for %d signers", threshold, len(signers))
	}

	pubkeys := make([][]byte, 0, len(signers))
	for _, signer := range signers {
		accountID, _, err := SS58Decode(signer)
		if err != nil {
			return "", fmt.Errorf("signer %q: %w", signer, err)
		}
		pubkeys = append(pubkeys, accountID)
	}
	sort.Slice(pubkeys, func(i, j int) bool { return bytes.Compare(pubkeys[i], pubkeys[j]) < 0 })

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	h.Write(multisigTag)
	for _, pk := range pubkeys {
		h.Write(pk)
	}
	var thr [2]byte
	binary.LittleEndian.PutUint16(thr[:], threshold)
	h.Write(thr[:])

	return SS58Encode(h.Sum(nil), prefix)
}
