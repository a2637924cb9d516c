package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RPCClient talks to a Solana JSON-RPC endpoint for balance reads and
// transaction submission. Payloads are expected to be signed already; signing
// happens outside this module.
type RPCClient struct {
	Endpoint string
	Client   *http.Client
}

// NewRPCClient creates a client for a JSON-RPC endpoint.
func NewRPCClient(endpoint string) *RPCClient {
	if endpoint == "" {
		endpoint = "https://api.mainnet-beta.solana.com"
	}
	return &RPCClient{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *RPCClient) call(ctx context.Context, method string, params []any, result any) error {
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("parse rpc response: %w", err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("rpc %s: %d %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	return json.Unmarshal(envelope.Result, result)
}

// Balance returns the owner's lamport balance.
func (c *RPCClient) Balance(ctx context.Context, owner string) (int64, error) {
	var result struct {
		Value int64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{owner}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// Submit sends a signed base64 transaction and returns its signature.
func (c *RPCClient) Submit(ctx context.Context, payload string) (string, error) {
	var signature string
	err := c.call(ctx, "sendTransaction", []any{payload, map[string]any{"encoding": "base64"}}, &signature)
	if err != nil {
		return "", err
	}
	return signature, nil
}
