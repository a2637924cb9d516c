package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// SolMint is the wrapped SOL mint address.
const SolMint = "So11111111111111111111111111111111111111112"

// JupiterFetcher fetches the SOL price from the Jupiter price API.
type JupiterFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewJupiterFetcher creates a Jupiter price fetcher. baseURL defaults to the
// public API.
func NewJupiterFetcher(baseURL string) *JupiterFetcher {
	if baseURL == "" {
		baseURL = "https://api.jup.ag"
	}
	return &JupiterFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *JupiterFetcher) Name() string { return "jupiter" }

type jupiterPriceResponse struct {
	Data map[string]struct {
		Price string `json:"price"`
	} `json:"data"`
}

func (f *JupiterFetcher) FetchSolPrice(ctx context.Context) (float64, error) {
	u := fmt.Sprintf("%s/price/v2?ids=%s", f.BaseURL, SolMint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("jupiter price fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("jupiter price API: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed jupiterPriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("parse jupiter price: %w", err)
	}

	entry, ok := parsed.Data[SolMint]
	if !ok {
		return 0, fmt.Errorf("jupiter price: no entry for SOL")
	}
	price, err := strconv.ParseFloat(entry.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse jupiter price %q: %w", entry.Price, err)
	}
	return price, nil
}
