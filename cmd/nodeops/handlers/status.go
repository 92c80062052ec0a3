package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/config"
	"github.com/modnet-labs/nodeops/internal/process"
	"github.com/modnet-labs/nodeops/internal/rpc"
	"github.com/modnet-labs/nodeops/internal/util/naming"
	"github.com/modnet-labs/nodeops/internal/util/prerequisites"
)

// NodeStatus is the single-shot diagnostic result for one node.
type NodeStatus struct {
	Node       string `json:"node"`
	Role       string `json:"role"`
	Index      int    `json:"index"`
	RPCURL     string `json:"rpcUrl"`
	P2PPort    int    `json:"p2pPort"`
	Healthy    bool   `json:"healthy"`
	Supervised bool   `json:"supervised"`
	// SupervisorAlive is only meaningful when Supervised is true.
	SupervisorAlive bool `json:"supervisorAlive,omitempty"`
}

// Status handles the status command: one liveness and health probe for a
// (role, index) pair, rendered as rows or JSON.
func Status(ctx context.Context, role string, index int, jsonOutput bool) error {
	parsed, err := config.ParseRole(role)
	if err != nil {
		return err
	}
	if index <= 0 || index > config.MaxInstances {
		return &config.Error{Field: "index", Reason: fmt.Sprintf("instance number %d out of range [1, %d]", index, config.MaxInstances)}
	}

	name := naming.Node(string(parsed), index)
	ports := config.PortsFor(parsed, index)
	rpcURL := fmt.Sprintf("http://127.0.0.1:%d", ports.RPC)

	status := NodeStatus{
		Node:    name,
		Role:    string(parsed),
		Index:   index,
		RPCURL:  rpcURL,
		P2PPort: ports.P2P,
	}

	probe := rpc.NewProbe(zap.NewNop(), time.Second)
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	status.Healthy = probe.Check(checkCtx, rpcURL) == nil

	if prerequisites.Have("pm2") {
		ctrl := process.NewPM2Controller(zap.NewNop())
		handle := &process.Handle{Name: name, Backend: process.BackendPM2}
		if ctrl.IsAlive(handle) {
			status.Supervised = true
			status.SupervisorAlive = true
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Println()
	fmt.Printf("  Node: %s\n", status.Node)
	fmt.Printf("  RPC:  %s\n", status.RPCURL)
	fmt.Printf("  P2P:  port %d\n", status.P2PPort)
	fmt.Println()
	printRow("RPC healthy", status.Healthy, "")
	if status.Supervised {
		printRow("pm2 process", status.SupervisorAlive, "")
	}
	fmt.Println()

	if !status.Healthy {
		return fmt.Errorf("node %s is not healthy", name)
	}
	return nil
}

// printRow prints a status row with an indicator emoji.
func printRow(name string, ok bool, extra string) {
	indicator := "✅" // green check
	if !ok {
		indicator = "❌" // red X
	}
	if extra != "" {
		fmt.Printf("  %s  %-20s %s\n", indicator, name, extra)
	} else {
		fmt.Printf("  %s  %s\n", indicator, name)
	}
}
