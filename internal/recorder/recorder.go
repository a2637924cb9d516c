package recorder

import "TrapWars/internal/model"

// TradeRecord is one executed buy or sell.
type TradeRecord struct {
	Wallet    string
	Day       int
	Location  string
	Side      model.Side
	Product   string
	Quantity  int64
	UnitPrice int64
	Amount    int64 // total cost for buys, earnings for sells
	CashAfter int64
}

// TurnEvent is one applied (non-suppressed) random event.
type TurnEvent struct {
	Wallet      string
	Day         int
	Location    string
	Kind        string
	Description string
}

// PromotionRecord is one rank milestone with its forced contribution.
type PromotionRecord struct {
	Wallet       string
	Day          int
	Rank         string
	Contribution int64
	StakedAfter  int64
}

// RunRecord is a finished run.
type RunRecord struct {
	Wallet     string
	Days       int
	FinalScore int64
	Staked     int64
	Rank       string
	EndedEarly bool
}

// AgentAction is one submitted (or skipped/failed) agent order.
type AgentAction struct {
	Agent        string // "volume" or "grid"
	Action       string // "BUY", "SELL"
	Amount       float64
	Confirmation string
	Note         string
}

// AgentStatsSnapshot is a periodic capture of an agent's counters.
type AgentStatsSnapshot struct {
	Agent        string
	TotalBuys    int
	TotalSells   int
	TotalVolume  float64
	ActiveOrders int
	FilledOrders int
	IsRunning    bool
}

// MarketSnapshot is one refresh of the external market stats.
type MarketSnapshot struct {
	SolPrice   float64
	TokenPrice float64
	Volume24h  float64
	Liquidity  float64
	Multiplier float64
	Condition  string
}

// Recorder persists run history for analysis. Implementations must be safe
// for concurrent use; callers treat failures as non-fatal.
type Recorder interface {
	RecordTrade(t *TradeRecord) error
	RecordEvent(e *TurnEvent) error
	RecordPromotion(p *PromotionRecord) error
	RecordRun(r *RunRecord) error
	RecordAgentAction(a *AgentAction) error
	RecordAgentStats(s *AgentStatsSnapshot) error
	RecordMarket(m *MarketSnapshot) error
	Close() error
}
