package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"TrapWars/internal/exchange"
	"TrapWars/internal/model"
	"TrapWars/internal/recorder"
	"TrapWars/internal/sched"
	"TrapWars/internal/store"
)

var errEmptyQuote = errors.New("quote returned zero output amount")

// GridConfig configures the grid agent.
type GridConfig struct {
	Wallet     string
	TokenMint  string
	GridLevels int
	PriceMin   decimal.Decimal // SOL per token
	PriceMax   decimal.Decimal
	OrderSize  decimal.Decimal // SOL per order
	// FillChance gates a crossed order actually filling on a poll. Zero
	// selects DefaultFillChance; a negative value disables fills.
	FillChance float64
	// Margin offsets a counter-order's price in the profitable direction.
	Margin       decimal.Decimal
	PollInterval time.Duration
	// ProbeSol is the quote size used to read the current price.
	ProbeSol float64
}

// Grid agent defaults, matching the simulated order-book policy.
var (
	DefaultFillChance   = 0.3
	DefaultMargin       = decimal.RequireFromString("0.00001")
	DefaultPollInterval = 10 * time.Second
	DefaultProbeSol     = 0.1
)

// GridAgent maintains an evenly spaced ladder of buy/sell levels and, on a
// fixed poll, fills crossed orders and re-arms the ladder with counter-orders.
// The order book is append-only: filled orders stay as history.
type GridAgent struct {
	cfg      GridConfig
	provider exchange.Provider
	rec      recorder.Recorder
	st       store.Store
	clock    sched.Clock
	rng      *rand.Rand

	mu           sync.Mutex
	running      bool
	timer        sched.Timer
	orders       []*model.GridOrder
	stats        model.GridStats
	currentPrice decimal.Decimal
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewGridAgent creates a stopped agent, applying defaults for zero-valued
// policy knobs.
func NewGridAgent(cfg GridConfig, provider exchange.Provider, rec recorder.Recorder, st store.Store, clock sched.Clock, rng *rand.Rand) *GridAgent {
	if cfg.FillChance == 0 {
		cfg.FillChance = DefaultFillChance
	} else if cfg.FillChance < 0 {
		cfg.FillChance = 0
	}
	if cfg.Margin.IsZero() {
		cfg.Margin = DefaultMargin
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.ProbeSol == 0 {
		cfg.ProbeSol = DefaultProbeSol
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if clock == nil {
		clock = sched.NewRealClock()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GridAgent{cfg: cfg, provider: provider, rec: rec, st: st, clock: clock, rng: rng}
}

// Start builds the ladder and begins polling. Starting a running agent is a
// logged no-op.
func (a *GridAgent) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		log.Println("[WARN] grid agent is already running")
		return
	}
	a.running = true
	a.stats = model.GridStats{IsRunning: true}
	a.ctx, a.cancel = context.WithCancel(ctx)

	a.initGridLocked()
	a.scheduleLocked()
	log.Printf("[INFO] grid agent started with %d levels", len(a.orders))
}

// Stop cancels the pending poll timer before returning; no further fill can
// happen once Stop returns.
func (a *GridAgent) Stop() {
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
	log.Println("[INFO] grid agent stopped")
}

// GetStats returns a copy of the counters.
func (a *GridAgent) GetStats() model.GridStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Orders returns a copy of the order book, filled history included.
func (a *GridAgent) Orders() []model.GridOrder {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.GridOrder, len(a.orders))
	for i, o := range a.orders {
		out[i] = *o
	}
	return out
}

// initGridLocked lays out GridLevels evenly spaced levels across
// [PriceMin, PriceMax]: buys below the midpoint, sells at or above it.
func (a *GridAgent) initGridLocked() {
	a.orders = a.orders[:0]
	step := decimal.Zero
	if a.cfg.GridLevels > 1 {
		step = a.cfg.PriceMax.Sub(a.cfg.PriceMin).Div(decimal.NewFromInt(int64(a.cfg.GridLevels - 1)))
	}
	mid := a.cfg.PriceMin.Add(a.cfg.PriceMax).Div(decimal.NewFromInt(2))

	for i := 0; i < a.cfg.GridLevels; i++ {
		price := a.cfg.PriceMin.Add(step.Mul(decimal.NewFromInt(int64(i))))
		side := model.SideSell
		if price.LessThan(mid) {
			side = model.SideBuy
		}
		a.orders = append(a.orders, &model.GridOrder{
			Level:  i,
			Price:  price,
			Side:   side,
			Amount: a.cfg.OrderSize,
		})
	}
	a.stats.ActiveOrders = len(a.orders)
	a.stats.FilledOrders = 0
}

func (a *GridAgent) scheduleLocked() {
	if !a.running {
		return
	}
	timer := a.clock.NewTimer(a.cfg.PollInterval)
	a.timer = timer

	go func() {
		select {
		case <-timer.C():
			a.fire()
		case <-a.ctx.Done():
		}
	}()
}

func (a *GridAgent) fire() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.poll()
	a.scheduleLocked()
}

// poll reads the current price and walks the book. One failed poll never
// halts the loop; the next tick tries again.
func (a *GridAgent) poll() {
	price, err := a.fetchPrice()
	if err != nil {
		log.Printf("[WARN] grid agent price update failed: %v", err)
		return
	}
	a.currentPrice = price

	// Counter-orders appended during the walk are not revisited this tick.
	for _, order := range a.orders {
		if order.Filled {
			continue
		}
		crossed := (order.Side == model.SideBuy && price.LessThanOrEqual(order.Price)) ||
			(order.Side == model.SideSell && price.GreaterThanOrEqual(order.Price))
		if crossed && a.rng.Float64() < a.cfg.FillChance {
			a.fillOrder(order)
		}
	}
}

// fetchPrice derives SOL-per-token from a probe quote.
func (a *GridAgent) fetchPrice() (decimal.Decimal, error) {
	lamports := int64(a.cfg.ProbeSol * exchange.LamportsPerSol)
	quote, err := a.provider.GetQuote(a.ctx, exchange.SolMintAddress, a.cfg.TokenMint, lamports)
	if err != nil {
		return decimal.Zero, err
	}
	if quote.OutAmount == 0 {
		return decimal.Zero, errEmptyQuote
	}
	return decimal.NewFromInt(quote.InAmount).Div(decimal.NewFromInt(quote.OutAmount)), nil
}

// fillOrder executes one crossed order. Buys go through the full
// quote/swap/submit path and stay open if any step fails; sells are
// simulated. A filled order immediately spawns its counter-order.
func (a *GridAgent) fillOrder(order *model.GridOrder) {
	log.Printf("[INFO] grid agent filling %s order at level %d (~%s SOL)", order.Side, order.Level, order.Price)

	confirmation := "simulated"
	if order.Side == model.SideBuy {
		lamports := order.Amount.Mul(decimal.NewFromInt(exchange.LamportsPerSol)).IntPart()
		quote, err := a.provider.GetQuote(a.ctx, exchange.SolMintAddress, a.cfg.TokenMint, lamports)
		if err != nil {
			log.Printf("[WARN] grid agent fill: quote failed: %v", err)
			return
		}
		payload, err := a.provider.BuildSwap(a.ctx, quote, a.cfg.Wallet)
		if err != nil {
			log.Printf("[WARN] grid agent fill: swap build failed: %v", err)
			return
		}
		confirmation, err = a.provider.Submit(a.ctx, payload)
		if err != nil {
			log.Printf("[WARN] grid agent fill: submit failed: %v", err)
			return
		}
		log.Printf("[INFO] grid agent BUY filled: %.8s", confirmation)
	} else {
		log.Println("[INFO] grid agent SELL filled (simulated)")
	}

	order.Filled = true
	a.stats.FilledOrders++
	a.stats.ActiveOrders--
	a.createCounterOrder(order)

	amount, _ := order.Amount.Float64()
	if err := a.rec.RecordAgentAction(&recorder.AgentAction{
		Agent: "grid", Action: string(order.Side), Amount: amount,
		Confirmation: confirmation, Note: "level " + order.Price.String(),
	}); err != nil {
		log.Printf("[ERROR] record agent action: %v", err)
	}
}

// createCounterOrder keeps the ladder alive: after a buy, sell slightly
// higher; after a sell, buy slightly lower.
func (a *GridAgent) createCounterOrder(filled *model.GridOrder) {
	counter := &model.GridOrder{
		Level:  filled.Level,
		Amount: filled.Amount,
	}
	if filled.Side == model.SideBuy {
		counter.Side = model.SideSell
		counter.Price = filled.Price.Add(a.cfg.Margin)
	} else {
		counter.Side = model.SideBuy
		counter.Price = filled.Price.Sub(a.cfg.Margin)
	}
	a.orders = append(a.orders, counter)
	a.stats.ActiveOrders++
	log.Printf("[INFO] grid agent counter-order: %s at %s", counter.Side, counter.Price)
}

// gridSnapshot is the persisted post-mortem view of the agent.
type gridSnapshot struct {
	Orders []model.GridOrder `json:"orders"`
	Stats  model.GridStats   `json:"stats"`
}

func (a *GridAgent) snapshotLocked() {
	if a.st == nil {
		return
	}
	snap := gridSnapshot{Stats: a.stats, Orders: make([]model.GridOrder, len(a.orders))}
	for i, o := range a.orders {
		snap.Orders[i] = *o
	}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[ERROR] marshal grid agent snapshot: %v", err)
		return
	}
	if err := a.st.Set("grid:"+a.cfg.Wallet, data); err != nil {
		log.Printf("[ERROR] save grid agent snapshot: %v", err)
	}
}
