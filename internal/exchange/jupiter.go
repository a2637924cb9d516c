package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// JupiterClient prices and builds swaps through the Jupiter v6 API.
type JupiterClient struct {
	BaseURL     string
	SlippageBps int
	Client      *http.Client
}

// NewJupiterClient creates a client against the public quote API.
func NewJupiterClient(baseURL string) *JupiterClient {
	if baseURL == "" {
		baseURL = "https://quote-api.jup.ag"
	}
	return &JupiterClient{
		BaseURL:     baseURL,
		SlippageBps: 50,
		Client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type jupiterQuoteResponse struct {
	InAmount  string `json:"inAmount"`
	OutAmount string `json:"outAmount"`
}

// GetQuote fetches a swap quote. The raw response is retained for BuildSwap.
func (j *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint string, amount int64) (*Quote, error) {
	u := fmt.Sprintf("%s/v6/quote?inputMint=%s&outputMint=%s&amount=%d&slippageBps=%d",
		j.BaseURL, inputMint, outputMint, amount, j.SlippageBps)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := j.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jupiter quote: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read quote response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter quote API: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed jupiterQuoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse quote: %w", err)
	}
	outAmount, err := strconv.ParseInt(parsed.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse outAmount %q: %w", parsed.OutAmount, err)
	}
	inAmount, _ := strconv.ParseInt(parsed.InAmount, 10, 64)
	if inAmount == 0 {
		inAmount = amount
	}

	return &Quote{
		InputMint:  inputMint,
		OutputMint: outputMint,
		InAmount:   inAmount,
		OutAmount:  outAmount,
		Raw:        json.RawMessage(body),
	}, nil
}

// BuildSwap requests a signable transaction for a previously fetched quote.
func (j *JupiterClient) BuildSwap(ctx context.Context, quote *Quote, owner string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"quoteResponse":    quote.Raw,
		"userPublicKey":    owner,
		"wrapAndUnwrapSol": true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.BaseURL+"/v6/swap", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("jupiter swap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("jupiter swap API: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		SwapTransaction string `json:"swapTransaction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("parse swap response: %w", err)
	}
	if parsed.SwapTransaction == "" {
		return "", fmt.Errorf("jupiter swap: empty transaction")
	}
	return parsed.SwapTransaction, nil
}
