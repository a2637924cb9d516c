package model

import "time"

// MarketCondition is a coarse label derived from the price multiplier.
type MarketCondition string

const (
	CondMoon MarketCondition = "MOON"
	CondBull MarketCondition = "BULL"
	CondBear MarketCondition = "BEAR"
	CondCrab MarketCondition = "CRAB"
)

// MarketStats holds the external crypto market snapshot that drives in-game
// pricing. Multiplier is always within [0.5, 5.0].
type MarketStats struct {
	SolPrice   float64         `json:"sol_price"`
	TokenPrice float64         `json:"token_price"`
	Volume24h  float64         `json:"volume_24h"`
	Liquidity  float64         `json:"liquidity"`
	FDV        float64         `json:"fdv"`
	Multiplier float64         `json:"multiplier"`
	Condition  MarketCondition `json:"condition"`
	FetchedAt  time.Time       `json:"fetched_at"`
}
