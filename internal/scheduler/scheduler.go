package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"TrapWars/internal/agent"
	"TrapWars/internal/market"
	"TrapWars/internal/recorder"
)

// Scheduler manages the background cron tasks: market multiplier refresh and
// periodic agent stats snapshots. Agents run their own timer loops; this only
// observes them.
type Scheduler struct {
	Cron     *cron.Cron
	Tracker  *market.Tracker
	Recorder recorder.Recorder
	Volume   *agent.VolumeAgent
	Grid     *agent.GridAgent
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. Volume and Grid may be nil when the
// agents are disabled.
func NewScheduler(ctx context.Context, tracker *market.Tracker, rec recorder.Recorder, vol *agent.VolumeAgent, grid *agent.GridAgent) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Tracker:  tracker,
		Recorder: rec,
		Volume:   vol,
		Grid:     grid,
		Ctx:      ctx,
	}
}

// RegisterAll registers the market refresh and stats snapshot tasks.
func (s *Scheduler) RegisterAll(marketCron, statsCron string) error {
	if _, err := s.Cron.AddFunc(marketCron, s.marketTask); err != nil {
		return fmt.Errorf("register market task: %w", err)
	}
	if _, err := s.Cron.AddFunc(statsCron, s.statsTask); err != nil {
		return fmt.Errorf("register stats task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunMarketRefreshNow executes the market task immediately (startup warmup).
func (s *Scheduler) RunMarketRefreshNow() {
	s.marketTask()
}

func (s *Scheduler) marketTask() {
	if err := s.Tracker.Refresh(s.Ctx); err != nil {
		return
	}
	stats := s.Tracker.Latest()
	if stats == nil {
		return
	}
	if err := s.Recorder.RecordMarket(&recorder.MarketSnapshot{
		SolPrice:   stats.SolPrice,
		TokenPrice: stats.TokenPrice,
		Volume24h:  stats.Volume24h,
		Liquidity:  stats.Liquidity,
		Multiplier: stats.Multiplier,
		Condition:  string(stats.Condition),
	}); err != nil {
		log.Printf("[ERROR] record market snapshot: %v", err)
	}
}

func (s *Scheduler) statsTask() {
	if s.Volume != nil {
		vs := s.Volume.GetStats()
		if err := s.Recorder.RecordAgentStats(&recorder.AgentStatsSnapshot{
			Agent: "volume", TotalBuys: vs.TotalBuys, TotalSells: vs.TotalSells,
			TotalVolume: vs.TotalVolume, IsRunning: vs.IsRunning,
		}); err != nil {
			log.Printf("[ERROR] record volume agent stats: %v", err)
		}
	}
	if s.Grid != nil {
		gs := s.Grid.GetStats()
		if err := s.Recorder.RecordAgentStats(&recorder.AgentStatsSnapshot{
			Agent: "grid", ActiveOrders: gs.ActiveOrders, FilledOrders: gs.FilledOrders,
			IsRunning: gs.IsRunning,
		}); err != nil {
			log.Printf("[ERROR] record grid agent stats: %v", err)
		}
	}
}
