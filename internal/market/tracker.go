package market

import (
	"context"
	"log"
	"sync"
	"time"

	"TrapWars/internal/model"
)

// Reference values for "normal" market conditions.
const (
	refSolPrice  = 150.0
	refVolume24h = 10000.0
	refLiquidity = 5000.0
)

// Multiplier bounds; prices never move more than this in either direction.
const (
	MinMultiplier = 0.5
	MaxMultiplier = 5.0
)

// Tracker caches the latest external market stats and derives the in-game
// price multiplier from them. Before the first successful refresh, and after
// any failed one, the last known stats (or the 1.0 default) stay in effect.
type Tracker struct {
	prices    PriceFetcher
	tokens    TokenStatsFetcher
	tokenMint string

	mu    sync.Mutex
	stats *model.MarketStats
}

// NewTracker creates a tracker for a token mint. An empty mint skips the
// token-stats fetch and scores by SOL price alone.
func NewTracker(prices PriceFetcher, tokens TokenStatsFetcher, tokenMint string) *Tracker {
	return &Tracker{prices: prices, tokens: tokens, tokenMint: tokenMint}
}

// Collect fetches fresh stats and computes the multiplier without touching
// the cache.
func (t *Tracker) Collect(ctx context.Context) (*model.MarketStats, error) {
	solPrice, err := t.prices.FetchSolPrice(ctx)
	if err != nil {
		return nil, err
	}

	token := &TokenStats{}
	if t.tokenMint != "" {
		ts, err := t.tokens.FetchTokenStats(ctx, t.tokenMint)
		if err != nil {
			log.Printf("[WARN] token stats fetch failed: %v", err)
		} else {
			token = ts
		}
	}

	stats := &model.MarketStats{
		SolPrice:   solPrice,
		TokenPrice: token.PriceUSD,
		Volume24h:  token.Volume24h,
		Liquidity:  token.Liquidity,
		FDV:        token.FDV,
		Multiplier: computeMultiplier(solPrice, token.Volume24h, token.Liquidity),
		FetchedAt:  time.Now(),
	}
	stats.Condition = condition(stats.Multiplier)
	return stats, nil
}

// Refresh collects fresh stats into the cache. On failure the previous stats
// are kept.
func (t *Tracker) Refresh(ctx context.Context) error {
	stats, err := t.Collect(ctx)
	if err != nil {
		log.Printf("[WARN] market refresh failed, keeping previous multiplier: %v", err)
		return err
	}

	t.mu.Lock()
	t.stats = stats
	t.mu.Unlock()

	log.Printf("[INFO] market refreshed: SOL=$%.2f multiplier=%.2fx (%s)",
		stats.SolPrice, stats.Multiplier, stats.Condition)
	return nil
}

// Multiplier returns the cached multiplier, 1.0 before the first refresh.
func (t *Tracker) Multiplier() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stats == nil {
		return 1.0
	}
	return t.stats.Multiplier
}

// Latest returns a copy of the cached stats, or nil before the first refresh.
func (t *Tracker) Latest() *model.MarketStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stats == nil {
		return nil
	}
	s := *t.stats
	return &s
}

// computeMultiplier combines SOL price, token volume and token liquidity into
// one bounded scalar. SOL correlates directly; volume and liquidity each add
// a smaller premium.
func computeMultiplier(solPrice, volume24h, liquidity float64) float64 {
	solFactor := 1.0
	if solPrice > 0 {
		solFactor = solPrice / refSolPrice
	}
	volumeFactor := 1 + (volume24h/refVolume24h)*0.2
	liqFactor := 1 + (liquidity/refLiquidity)*0.1

	multiplier := solFactor * volumeFactor * liqFactor
	if multiplier < MinMultiplier {
		multiplier = MinMultiplier
	}
	if multiplier > MaxMultiplier {
		multiplier = MaxMultiplier
	}
	return multiplier
}

func condition(multiplier float64) model.MarketCondition {
	switch {
	case multiplier > 2.5:
		return model.CondMoon
	case multiplier > 1.2:
		return model.CondBull
	case multiplier < 0.8:
		return model.CondBear
	default:
		return model.CondCrab
	}
}
