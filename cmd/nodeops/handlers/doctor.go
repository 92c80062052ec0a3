package handlers

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/modnet-labs/nodeops/internal/util/prerequisites"
)

// DoctorReport is the host capability report.
type DoctorReport struct {
	Tools []ToolReport `json:"tools"`
	Ready bool         `json:"ready"`
}

// ToolReport describes one host tool check.
type ToolReport struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Found       bool   `json:"found"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description"`
}

// Doctor handles the doctor command: probe the host for the tools the
// bootstrap sequence depends on.
func Doctor(nodeBinary, insertClient string, jsonOutput bool) error {
	if nodeBinary == "" {
		nodeBinary = "modnet-node"
	}
	if insertClient == "" {
		insertClient = "modnet-insert-keys"
	}

	results := prerequisites.Check(prerequisites.NodeTools(nodeBinary, insertClient))

	report := DoctorReport{Ready: !results.HasErrors()}
	for _, r := range results.Results {
		report.Tools = append(report.Tools, ToolReport{
			Name:        r.Tool.Name,
			Required:    r.Tool.Required,
			Found:       r.Found,
			Path:        r.Path,
			Description: r.Tool.Description,
		})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println()
	fmt.Println("  Host tools")
	for _, tool := range report.Tools {
		extra := tool.Path
		if !tool.Found && !tool.Required {
			extra = "optional"
		}
		printRow(tool.Name, tool.Found || !tool.Required, extra)
	}
	fmt.Println()

	if !report.Ready {
		return results.Error()
	}
	fmt.Println("  All required tools found.")
	fmt.Println()
	return nil
}
