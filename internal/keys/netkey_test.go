package keys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "a7b8650f9dca5e42cf4d2a157ff72f24709e7e4b70f2a45099e27f1c5a7ef71b"

func TestResolveNetworkKey_HexLiteral(t *testing.T) {
	key, err := ResolveNetworkKey(NetworkKeyOptions{Input: testSecret}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, testSecret, key.Hex)
	assert.Empty(t, key.FilePath)
	assert.False(t, key.Transient)
}

func TestResolveNetworkKey_PrefixEquivalence(t *testing.T) {
	plain, err := ResolveNetworkKey(NetworkKeyOptions{Input: testSecret}, zap.NewNop())
	require.NoError(t, err)
	prefixed, err := ResolveNetworkKey(NetworkKeyOptions{Input: "0x" + testSecret}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, plain.Hex, prefixed.Hex)
}

func TestResolveNetworkKey_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodekey.hex")
	// whitespace around the secret must be tolerated
	require.NoError(t, os.WriteFile(path, []byte("  "+testSecret+"\n"), 0o600))

	first, err := ResolveNetworkKey(NetworkKeyOptions{Input: path}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, testSecret, first.Hex)
	assert.Equal(t, path, first.FilePath)

	// resolving the same path twice yields the same secret
	second, err := ResolveNetworkKey(NetworkKeyOptions{Input: path}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, first.Hex, second.Hex)
}

func TestResolveNetworkKey_InvalidShapes(t *testing.T) {
	cases := map[string]string{
		"bad hex after prefix strip": "zz" + strings.Repeat("a", 62),
		"too short":                  strings.Repeat("a", 63),
		"too long":                   strings.Repeat("a", 65),
		"not hex":                    strings.Repeat("g", 64),
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ResolveNetworkKey(NetworkKeyOptions{Input: input}, zap.NewNop())
			require.Error(t, err)

			var invalid *InvalidKeyMaterialError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestResolveNetworkKey_FileWithGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodekey.hex")
	require.NoError(t, os.WriteFile(path, []byte("not a key at all"), 0o600))

	_, err := ResolveNetworkKey(NetworkKeyOptions{Input: path}, zap.NewNop())
	var invalid *InvalidKeyMaterialError
	require.ErrorAs(t, err, &invalid)
}

func TestResolveNetworkKey_GeneratePersistsAndReuses(t *testing.T) {
	dir := t.TempDir()
	opts := NetworkKeyOptions{
		Generate: true,
		KeyDir:   dir,
		NodeName: "validator-1",
	}

	first, err := ResolveNetworkKey(opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nodekey-validator-1.hex"), first.FilePath)
	assert.Len(t, first.Hex, 64)

	info, err := os.Stat(first.FilePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// re-running with the same name reuses the persisted key
	second, err := ResolveNetworkKey(opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, first.Hex, second.Hex)

	// explicit regenerate replaces it
	opts.Regenerate = true
	third, err := ResolveNetworkKey(opts, zap.NewNop())
	require.NoError(t, err)
	assert.NotEqual(t, first.Hex, third.Hex)
}

func TestResolveNetworkKey_TransientWhenGenerationDisabled(t *testing.T) {
	key, err := ResolveNetworkKey(NetworkKeyOptions{NodeName: "full-1"}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, key.Transient)
	assert.Empty(t, key.Hex)
}
