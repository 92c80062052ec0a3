// Package rpc probes a node's JSON-RPC endpoint for liveness.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/modnet-labs/nodeops/internal/util/poll"
)

// healthMethod is the liveness query; any well-formed response counts as
// healthy.
const healthMethod = "system_health"

// HealthTimeoutError reports that the endpoint never answered within the
// wait budget. Fatal: the orchestrator does not retry beyond the probe's
// own polling.
type HealthTimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *HealthTimeoutError) Error() string {
	return fmt.Sprintf("node RPC at %s not healthy within %s", e.URL, e.Timeout)
}

// Probe polls a JSON-RPC endpoint until it answers.
type Probe struct {
	log      *zap.Logger
	client   *http.Client
	interval time.Duration
}

// NewProbe builds a health probe. interval is the delay between liveness
// queries.
func NewProbe(log *zap.Logger, interval time.Duration) *Probe {
	return &Probe{
		log:      log,
		client:   &http.Client{Timeout: 5 * time.Second},
		interval: interval,
	}
}

// WaitHealthy blocks until the endpoint answers the liveness query or the
// budget elapses. The timeout is a parameter because the hardened-restart
// phase may run on a different budget than the first start.
func (p *Probe) WaitHealthy(ctx context.Context, url string, timeout time.Duration) error {
	start := time.Now()
	err := poll.Until(ctx, func(ctx context.Context) bool {
		if err := p.Check(ctx, url); err != nil {
			p.log.Debug("node not yet healthy", zap.String("url", url), zap.Error(err))
			return false
		}
		return true
	}, poll.WithInterval(p.interval), poll.WithTimeout(timeout))

	switch {
	case err == nil:
		p.log.Info("node RPC healthy", zap.String("url", url), zap.Duration("after", time.Since(start).Round(time.Millisecond)))
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return &HealthTimeoutError{URL: url, Timeout: timeout}
	}
}

// Check issues a single liveness query. Success is any well-formed 2xx
// JSON-RPC response; connection errors and other transport results fail.
func (p *Probe) Check(ctx context.Context, url string) error {
	body, err := json.Marshal(map[string]any{
		"id":      1,
		"jsonrpc": "2.0",
		"method":  healthMethod,
		"params":  []any{},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	var parsed struct {
		JSONRPC string `json:"jsonrpc"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return fmt.Errorf("malformed RPC response: %w", err)
	}
	return nil
}
