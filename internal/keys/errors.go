package keys

import "fmt"

// InvalidKeyMaterialError reports a malformed network-identity key input.
// Not retryable; the operator must fix the input.
type InvalidKeyMaterialError struct {
	Input  string
	Reason string
}

func (e *InvalidKeyMaterialError) Error() string {
	return fmt.Sprintf("invalid key material %q: %s", e.Input, e.Reason)
}

// SessionKeyNotFoundError reports that no session key artifact could be
// located for a role tag. Surfaced for operator remediation.
type SessionKeyNotFoundError struct {
	Tag string
	Dir string
}

func (e *SessionKeyNotFoundError) Error() string {
	return fmt.Sprintf("no %s session key artifact found in %s", e.Tag, e.Dir)
}
