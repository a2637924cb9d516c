package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DexScreenerFetcher fetches token pair stats from the DexScreener API.
type DexScreenerFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewDexScreenerFetcher creates a DexScreener fetcher. baseURL defaults to the
// public API.
func NewDexScreenerFetcher(baseURL string) *DexScreenerFetcher {
	if baseURL == "" {
		baseURL = "https://api.dexscreener.com"
	}
	return &DexScreenerFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *DexScreenerFetcher) Name() string { return "dexscreener" }

type dexScreenerResponse struct {
	Pairs []struct {
		PriceUSD string `json:"priceUsd"`
		Volume   struct {
			H24 float64 `json:"h24"`
		} `json:"volume"`
		Liquidity struct {
			USD float64 `json:"usd"`
		} `json:"liquidity"`
		FDV float64 `json:"fdv"`
	} `json:"pairs"`
}

// FetchTokenStats reads stats for the token's main pair. A token with no
// listed pairs returns zero stats, not an error.
func (f *DexScreenerFetcher) FetchTokenStats(ctx context.Context, mint string) (*TokenStats, error) {
	u := fmt.Sprintf("%s/latest/dex/tokens/%s", f.BaseURL, url.PathEscape(mint))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dexscreener fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dexscreener API: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed dexScreenerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse dexscreener response: %w", err)
	}

	stats := &TokenStats{}
	if len(parsed.Pairs) > 0 {
		main := parsed.Pairs[0]
		stats.PriceUSD, _ = strconv.ParseFloat(main.PriceUSD, 64)
		stats.Volume24h = main.Volume.H24
		stats.Liquidity = main.Liquidity.USD
		stats.FDV = main.FDV
	}
	return stats, nil
}
