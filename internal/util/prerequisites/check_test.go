package prerequisites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_FindsCommonTool(t *testing.T) {
	// "ls" exists on any unix host the tests run on.
	results := Check([]Tool{{Name: "ls", Required: true}})
	require.Len(t, results.Results, 1)
	assert.True(t, results.Results[0].Found)
	assert.NotEmpty(t, results.Results[0].Path)
	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
}

func TestCheck_ReportsMissingRequired(t *testing.T) {
	results := Check([]Tool{{Name: "definitely-not-a-real-binary-xyz", Required: true}})
	assert.True(t, results.HasErrors())
	require.Error(t, results.Error())
	assert.Contains(t, results.Error().Error(), "definitely-not-a-real-binary-xyz")
}

func TestCheck_MissingOptionalIsNotAnError(t *testing.T) {
	results := Check([]Tool{{Name: "definitely-not-a-real-binary-xyz", Required: false}})
	assert.False(t, results.HasErrors())
	assert.NoError(t, results.Error())
	assert.Len(t, results.Missing, 1)
}

func TestHave(t *testing.T) {
	assert.True(t, Have("ls"))
	assert.False(t, Have("definitely-not-a-real-binary-xyz"))
}

func TestNodeTools_UsesResolvedNames(t *testing.T) {
	tools := NodeTools("modnet-node", "modnet-insert-keys")
	require.NotEmpty(t, tools)
	assert.Equal(t, "modnet-node", tools[0].Name)
	assert.True(t, tools[0].Required)
}
