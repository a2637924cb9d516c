package model

import "github.com/shopspring/decimal"

// Side is the direction of a simulated order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// GridOrder is one price-level commitment in the grid agent's ladder.
// Orders are append-only: filled orders stay in the book as history.
type GridOrder struct {
	Level  int             `json:"level"`
	Price  decimal.Decimal `json:"price"`
	Side   Side            `json:"side"`
	Amount decimal.Decimal `json:"amount"`
	Filled bool            `json:"filled"`
}

// GridStats are the grid agent's running counters.
type GridStats struct {
	ActiveOrders int     `json:"active_orders"`
	FilledOrders int     `json:"filled_orders"`
	TotalProfit  float64 `json:"total_profit"`
	IsRunning    bool    `json:"is_running"`
}

// VolumeStats are the volume agent's running counters. TotalVolume is in SOL;
// buys count on submission, not confirmation.
type VolumeStats struct {
	TotalBuys      int     `json:"total_buys"`
	TotalSells     int     `json:"total_sells"`
	TotalVolume    float64 `json:"total_volume"`
	NetProfit      float64 `json:"net_profit"`
	CurrentBalance float64 `json:"current_balance"`
	IsRunning      bool    `json:"is_running"`
}
