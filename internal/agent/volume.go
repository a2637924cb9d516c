// Package agent holds the autonomous trading loops. Each agent owns a single
// timer schedule and shares nothing with the game engine or other agents;
// the external providers are the only common resource.
package agent

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"TrapWars/internal/exchange"
	"TrapWars/internal/model"
	"TrapWars/internal/recorder"
	"TrapWars/internal/sched"
	"TrapWars/internal/store"
)

// VolumeConfig configures the volume agent.
type VolumeConfig struct {
	Wallet      string
	TokenMint   string
	MinBuySol   float64
	MaxBuySol   float64
	MinInterval time.Duration
	MaxInterval time.Duration
	// FeeReserveSol is kept untouched for transaction fees.
	FeeReserveSol float64
}

// VolumeAgent submits one simulated order per randomized interval, buying
// 70% of the time to create net buying pressure. Buys count on submission;
// sells are a placeholder that counts regardless of execution.
type VolumeAgent struct {
	cfg      VolumeConfig
	provider exchange.Provider
	rec      recorder.Recorder
	st       store.Store
	clock    sched.Clock
	rng      *rand.Rand

	mu      sync.Mutex
	running bool
	timer   sched.Timer
	stats   model.VolumeStats
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewVolumeAgent creates a stopped agent. rec, st and clock may be nil/zero
// (noop recorder, no snapshots, real clock).
func NewVolumeAgent(cfg VolumeConfig, provider exchange.Provider, rec recorder.Recorder, st store.Store, clock sched.Clock, rng *rand.Rand) *VolumeAgent {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if clock == nil {
		clock = sched.NewRealClock()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &VolumeAgent{cfg: cfg, provider: provider, rec: rec, st: st, clock: clock, rng: rng}
}

// Start begins the schedule. Starting a running agent is a logged no-op.
func (a *VolumeAgent) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		log.Println("[WARN] volume agent is already running")
		return
	}
	a.running = true
	a.stats = model.VolumeStats{IsRunning: true}
	a.ctx, a.cancel = context.WithCancel(ctx)

	a.refreshBalance()
	a.scheduleLocked()
	log.Println("[INFO] volume agent started")
}

// Stop cancels the pending timer before returning: once Stop returns, no
// further action fires and the stats stop changing.
func (a *VolumeAgent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.running = false
	a.stats.IsRunning = false
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.cancel()
	a.snapshotLocked()
	log.Println("[INFO] volume agent stopped")
}

// GetStats returns a copy of the counters.
func (a *VolumeAgent) GetStats() model.VolumeStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// scheduleLocked arms the next timer. Caller holds a.mu.
func (a *VolumeAgent) scheduleLocked() {
	if !a.running {
		return
	}
	spread := a.cfg.MaxInterval - a.cfg.MinInterval
	d := a.cfg.MinInterval
	if spread > 0 {
		d += time.Duration(a.rng.Int63n(int64(spread)))
	}
	timer := a.clock.NewTimer(d)
	a.timer = timer

	go func() {
		select {
		case <-timer.C():
			a.fire()
		case <-a.ctx.Done():
		}
	}()
}

// fire runs one action and arms the next timer. The whole action runs under
// a.mu so Stop can never return mid-action.
func (a *VolumeAgent) fire() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.executeAction()
	a.scheduleLocked()
}

func (a *VolumeAgent) executeAction() {
	a.refreshBalance()

	if a.rng.Float64() < 0.7 {
		a.executeBuy()
	} else {
		a.executeSell()
	}
}

func (a *VolumeAgent) refreshBalance() {
	bal, err := a.provider.Balance(a.ctx, a.cfg.Wallet)
	if err != nil {
		log.Printf("[WARN] volume agent balance check failed: %v", err)
		return
	}
	a.stats.CurrentBalance = float64(bal) / exchange.LamportsPerSol
}

func (a *VolumeAgent) executeBuy() {
	amount := a.rng.Float64()*(a.cfg.MaxBuySol-a.cfg.MinBuySol) + a.cfg.MinBuySol

	if a.stats.CurrentBalance < amount+a.cfg.FeeReserveSol {
		log.Printf("[WARN] volume agent: insufficient balance for buy (%.4f SOL)", amount)
		return
	}

	lamports := int64(amount * exchange.LamportsPerSol)
	quote, err := a.provider.GetQuote(a.ctx, exchange.SolMintAddress, a.cfg.TokenMint, lamports)
	if err != nil {
		log.Printf("[WARN] volume agent buy: quote failed: %v", err)
		return
	}
	payload, err := a.provider.BuildSwap(a.ctx, quote, a.cfg.Wallet)
	if err != nil {
		log.Printf("[WARN] volume agent buy: swap build failed: %v", err)
		return
	}
	confirmation, err := a.provider.Submit(a.ctx, payload)
	if err != nil {
		log.Printf("[WARN] volume agent buy: submit failed: %v", err)
		return
	}

	// Counted on submission, not confirmation.
	a.stats.TotalBuys++
	a.stats.TotalVolume += amount
	log.Printf("[INFO] volume agent BUY %.4f SOL submitted: %.8s", amount, confirmation)

	if err := a.rec.RecordAgentAction(&recorder.AgentAction{
		Agent: "volume", Action: "BUY", Amount: amount, Confirmation: confirmation,
	}); err != nil {
		log.Printf("[ERROR] record agent action: %v", err)
	}
}

// executeSell is a placeholder: there is no token-balance check, so the sell
// only counts.
func (a *VolumeAgent) executeSell() {
	amount := a.rng.Float64()*(a.cfg.MaxBuySol-a.cfg.MinBuySol) + a.cfg.MinBuySol

	a.stats.TotalSells++
	log.Printf("[INFO] volume agent SELL ~%.4f SOL (simulated)", amount)

	if err := a.rec.RecordAgentAction(&recorder.AgentAction{
		Agent: "volume", Action: "SELL", Amount: amount, Note: "simulated",
	}); err != nil {
		log.Printf("[ERROR] record agent action: %v", err)
	}
}

// snapshotLocked saves the counters for post-mortem inspection. A fresh Start
// always begins with zeroed stats.
func (a *VolumeAgent) snapshotLocked() {
	if a.st == nil {
		return
	}
	data, err := json.Marshal(a.stats)
	if err != nil {
		log.Printf("[ERROR] marshal volume agent stats: %v", err)
		return
	}
	if err := a.st.Set("volume:"+a.cfg.Wallet, data); err != nil {
		log.Printf("[ERROR] save volume agent stats: %v", err)
	}
}
