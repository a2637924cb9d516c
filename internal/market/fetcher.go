package market

import "context"

// TokenStats is the DEX-side view of the game token.
type TokenStats struct {
	PriceUSD  float64
	Volume24h float64
	Liquidity float64
	FDV       float64
}

// PriceFetcher fetches the current SOL price in USD.
type PriceFetcher interface {
	FetchSolPrice(ctx context.Context) (float64, error)
	Name() string
}

// TokenStatsFetcher fetches DEX stats for a token mint.
type TokenStatsFetcher interface {
	FetchTokenStats(ctx context.Context, mint string) (*TokenStats, error)
	Name() string
}

// MockPriceFetcher returns fixed data for development and testing.
type MockPriceFetcher struct {
	Price float64
	Err   error
}

func (m *MockPriceFetcher) Name() string { return "mock" }

func (m *MockPriceFetcher) FetchSolPrice(_ context.Context) (float64, error) {
	return m.Price, m.Err
}

// MockTokenStatsFetcher returns fixed token stats.
type MockTokenStatsFetcher struct {
	Stats TokenStats
	Err   error
}

func (m *MockTokenStatsFetcher) Name() string { return "mock" }

func (m *MockTokenStatsFetcher) FetchTokenStats(_ context.Context, _ string) (*TokenStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	s := m.Stats
	return &s, nil
}
