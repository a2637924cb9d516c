package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTrade(_ *TradeRecord) error             { return nil }
func (n *NoopRecorder) RecordEvent(_ *TurnEvent) error               { return nil }
func (n *NoopRecorder) RecordPromotion(_ *PromotionRecord) error     { return nil }
func (n *NoopRecorder) RecordRun(_ *RunRecord) error                 { return nil }
func (n *NoopRecorder) RecordAgentAction(_ *AgentAction) error       { return nil }
func (n *NoopRecorder) RecordAgentStats(_ *AgentStatsSnapshot) error { return nil }
func (n *NoopRecorder) RecordMarket(_ *MarketSnapshot) error         { return nil }
func (n *NoopRecorder) Close() error                                 { return nil }
