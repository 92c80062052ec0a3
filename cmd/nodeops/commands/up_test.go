package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUp(t *testing.T) {
	cmd := Up()

	require.NotNil(t, cmd)
	assert.Equal(t, "up", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestUp_Flags(t *testing.T) {
	cmd := Up()

	for _, name := range []string{
		"role", "index", "chain-spec", "base-path", "key-dir",
		"bootstrap", "supervisor", "telemetry", "telemetry-endpoint",
		"node-binary", "insert-client",
		"node-key", "generate-node-key", "regenerate-node-key",
		"aura-file", "grandpa-file",
		"bootnodes-file", "metrics-listen", "log-file", "verbose",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Expected flag %s not found", name)
	}
}

func TestUp_Defaults(t *testing.T) {
	cmd := Up()

	index, err := cmd.Flags().GetInt("index")
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	generate, err := cmd.Flags().GetBool("generate-node-key")
	require.NoError(t, err)
	assert.True(t, generate, "node key generation should be on by default")
}
