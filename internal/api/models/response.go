package models

import "TrapWars/internal/model"

// ErrorResponse is the envelope for all error replies.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunResponse wraps the run state plus any message produced by the operation
// (turn event description, promotion announcement).
type RunResponse struct {
	State    *model.RunState `json:"state"`
	Earnings int64           `json:"earnings,omitempty"`
	Event    string          `json:"event,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// MarketResponse is the latest external market snapshot.
type MarketResponse struct {
	SolPrice   float64 `json:"sol_price"`
	TokenPrice float64 `json:"token_price"`
	Volume24h  float64 `json:"volume_24h"`
	Liquidity  float64 `json:"liquidity"`
	Multiplier float64 `json:"multiplier"`
	Condition  string  `json:"condition"`
}

// AgentStatsResponse reports one agent's counters.
type AgentStatsResponse struct {
	Agent        string  `json:"agent"`
	IsRunning    bool    `json:"is_running"`
	TotalBuys    int     `json:"total_buys,omitempty"`
	TotalSells   int     `json:"total_sells,omitempty"`
	TotalVolume  float64 `json:"total_volume,omitempty"`
	ActiveOrders int     `json:"active_orders,omitempty"`
	FilledOrders int     `json:"filled_orders,omitempty"`
}
