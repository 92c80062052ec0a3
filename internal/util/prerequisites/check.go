// Package prerequisites provides utilities for checking required host tools.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a host tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string
}

// NodeTools returns the tools the bootstrap sequence depends on. The node
// binary and insert client names are configurable, so the caller passes the
// resolved names.
func NodeTools(nodeBinary, insertClient string) []Tool {
	return []Tool{
		{
			Name:        nodeBinary,
			Required:    true,
			Description: "The node executable launched by the orchestrator",
		},
		{
			Name:        insertClient,
			Required:    true,
			Description: "Submits session keys into a running node's keystore",
		},
		{
			Name:        "subkey",
			Required:    false,
			Description: "Generates and inspects sr25519/ed25519 key material",
		},
		{
			Name:        "pm2",
			Required:    false,
			Description: "Process supervisor backend (only needed with --supervisor pm2)",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available on PATH.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// Have reports whether a single tool is available on PATH. It satisfies
// config.CapabilityProbe.
func Have(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}
