package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"TrapWars/internal/event"
	"TrapWars/internal/model"
	"TrapWars/internal/pricing"
	"TrapWars/internal/rank"
	"TrapWars/internal/recorder"
	"TrapWars/internal/store"
)

// Run parameters, fixed for every run.
const (
	StartingCash  = 50000
	CoatSpace     = 100
	RunDays       = 30
	StartLocation = "Compton"
)

// Validation failures. Every rejected operation is a no-op that returns one
// of these.
var (
	ErrNoRun                 = errors.New("no active run")
	ErrRunOver               = errors.New("run is over")
	ErrRunActive             = errors.New("a run is already active")
	ErrInvalidLocation       = errors.New("unknown location")
	ErrUnknownProduct        = errors.New("unknown product")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInsufficientCash      = errors.New("not enough cash")
	ErrInsufficientSpace     = errors.New("not enough coat space")
	ErrInsufficientInventory = errors.New("not enough inventory")
)

// MultiplierSource supplies the current market price multiplier, bounded to
// [0.5, 5.0] by its provider.
type MultiplierSource interface {
	Multiplier() float64
}

// Engine is the run state machine for one player. All operations are atomic
// with respect to each other; no caller ever observes a half-applied trade or
// event.
type Engine struct {
	mu     sync.Mutex
	wallet string
	state  *model.RunState
	store  store.Store
	rec    recorder.Recorder
	market MultiplierSource
	rng    *rand.Rand
}

// NewEngine creates the engine for a wallet, loading a saved run if one
// exists. Saves from before the rank system get rank NONE and zero staked
// amount.
func NewEngine(wallet string, st store.Store, rec recorder.Recorder, market MultiplierSource, rng *rand.Rand) (*Engine, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{wallet: wallet, store: st, rec: rec, market: market, rng: rng}

	data, ok, err := st.Get(runKey(wallet))
	if err != nil {
		return nil, fmt.Errorf("load run state: %w", err)
	}
	if ok {
		var state model.RunState
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("parse run state: %w", err)
		}
		if state.Inventory == nil {
			state.Inventory = make(map[string]int64)
		}
		if state.Prices == nil {
			state.Prices = make(map[string]int64)
		}
		e.state = &state
		log.Printf("[INFO] loaded run for %s: day %d, $%d", wallet, state.Day, state.Cash)
	}
	return e, nil
}

func runKey(wallet string) string { return "run:" + wallet }

// Start begins a fresh run. Rejected while a run is still active; a
// terminated run is replaced.
func (e *Engine) Start() (*model.RunState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != nil && !e.state.GameOver {
		return nil, ErrRunActive
	}

	now := time.Now()
	e.state = &model.RunState{
		Day:       1,
		Location:  StartLocation,
		Cash:      StartingCash,
		Inventory: make(map[string]int64),
		CoatSpace: CoatSpace,
		Prices:    pricing.Generate(e.rng, e.multiplier()),
		Rank:      model.RankNone,
		StartedAt: now,
		UpdatedAt: now,
	}
	e.persist()
	log.Printf("[INFO] run started for %s", e.wallet)
	return e.state.Clone(), nil
}

// Travel moves to a city and advances one day. Advancing past day 30
// terminates the run with the current cash as final score; prices and
// location stay at their last-day values. Otherwise prices regenerate and the
// turn event is rolled.
func (e *Engine) Travel(newLocation string) (*model.RunState, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return nil, "", err
	}
	if !model.ValidLocation(newLocation) {
		return nil, "", ErrInvalidLocation
	}

	if e.state.Day+1 > RunDays {
		e.terminate(false)
		return e.state.Clone(), "", nil
	}

	e.state.Day++
	e.state.Location = newLocation
	e.state.Prices = pricing.Generate(e.rng, e.multiplier())

	var desc string
	if res := event.Roll(e.state, e.rng); res != nil && !res.Suppressed {
		desc = res.Description
		e.record(func() error {
			return e.rec.RecordEvent(&recorder.TurnEvent{
				Wallet: e.wallet, Day: e.state.Day, Location: e.state.Location,
				Kind: string(res.Kind), Description: desc,
			})
		})
	}

	e.state.UpdatedAt = time.Now()
	e.persist()
	return e.state.Clone(), desc, nil
}

// Buy purchases qty units at the current day's price.
func (e *Engine) Buy(product string, qty int64) (*model.RunState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	// qty is capped by coat space before any arithmetic, so neither the cost
	// nor the capacity sum below can overflow.
	if qty > e.state.CoatSpace {
		return nil, ErrInsufficientSpace
	}
	price, ok := e.state.Prices[product]
	if !ok {
		return nil, ErrUnknownProduct
	}

	cost := price * qty
	if cost > e.state.Cash {
		return nil, ErrInsufficientCash
	}
	if e.state.InventoryTotal()+qty > e.state.CoatSpace {
		return nil, ErrInsufficientSpace
	}

	e.state.Cash -= cost
	e.state.Inventory[product] += qty
	e.state.UpdatedAt = time.Now()
	e.persist()

	e.record(func() error {
		return e.rec.RecordTrade(&recorder.TradeRecord{
			Wallet: e.wallet, Day: e.state.Day, Location: e.state.Location,
			Side: model.SideBuy, Product: product, Quantity: qty,
			UnitPrice: price, Amount: cost, CashAfter: e.state.Cash,
		})
	})
	return e.state.Clone(), nil
}

// Sell sells qty units at the current day's price times the rank multiplier,
// then runs the milestone check on the post-sale cash. A promotion applies
// its contribution, rank and staked-amount updates atomically with the sale.
func (e *Engine) Sell(product string, qty int64) (*model.RunState, int64, *rank.Promotion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return nil, 0, nil, err
	}
	if qty <= 0 {
		return nil, 0, nil, ErrInvalidQuantity
	}
	price, ok := e.state.Prices[product]
	if !ok {
		return nil, 0, nil, ErrUnknownProduct
	}
	if qty > e.state.Inventory[product] {
		return nil, 0, nil, ErrInsufficientInventory
	}

	earnings := int64(math.Floor(float64(price*qty) * rank.SellMultiplier(e.state.Rank)))
	e.state.Cash += earnings
	e.state.Inventory[product] -= qty

	promo := rank.Evaluate(e.state.Cash, e.state.StakedAmount, e.state.Rank)
	if promo != nil {
		e.state.Cash = promo.RemainingCash
		e.state.StakedAmount += promo.Contribution
		e.state.Rank = promo.NewRank
		e.record(func() error {
			return e.rec.RecordPromotion(&recorder.PromotionRecord{
				Wallet: e.wallet, Day: e.state.Day, Rank: promo.NewRank.String(),
				Contribution: promo.Contribution, StakedAfter: e.state.StakedAmount,
			})
		})
		log.Printf("[INFO] %s promoted to %s (staked $%d)", e.wallet, promo.NewRank, e.state.StakedAmount)
	}

	e.state.UpdatedAt = time.Now()
	e.persist()

	e.record(func() error {
		return e.rec.RecordTrade(&recorder.TradeRecord{
			Wallet: e.wallet, Day: e.state.Day, Location: e.state.Location,
			Side: model.SideSell, Product: product, Quantity: qty,
			UnitPrice: price, Amount: earnings, CashAfter: e.state.Cash,
		})
	})
	return e.state.Clone(), earnings, promo, nil
}

// EndEarly terminates the run at the current day with the current cash as
// final score.
func (e *Engine) EndEarly() (*model.RunState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return nil, err
	}
	e.terminate(true)
	return e.state.Clone(), nil
}

// Snapshot returns a copy of the current run state.
func (e *Engine) Snapshot() (*model.RunState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		return nil, ErrNoRun
	}
	return e.state.Clone(), nil
}

// terminate marks the run over. A full 30-day run pins the day past the last
// playable one so the archive distinguishes it from an early exit.
func (e *Engine) terminate(early bool) {
	if !early {
		e.state.Day = RunDays + 1
	}
	e.state.GameOver = true
	e.state.FinalScore = e.state.Cash
	e.state.EndedEarly = early
	e.state.UpdatedAt = time.Now()
	e.persist()

	e.record(func() error {
		return e.rec.RecordRun(&recorder.RunRecord{
			Wallet: e.wallet, Days: e.state.Day, FinalScore: e.state.FinalScore,
			Staked: e.state.StakedAmount, Rank: e.state.Rank.String(), EndedEarly: early,
		})
	})
	log.Printf("[INFO] run over for %s: final score $%d", e.wallet, e.state.FinalScore)
}

func (e *Engine) requireActive() error {
	if e.state == nil {
		return ErrNoRun
	}
	if e.state.GameOver {
		return ErrRunOver
	}
	return nil
}

func (e *Engine) multiplier() float64 {
	if e.market == nil {
		return 1.0
	}
	return e.market.Multiplier()
}

func (e *Engine) persist() {
	data, err := json.Marshal(e.state)
	if err != nil {
		log.Printf("[ERROR] marshal run state: %v", err)
		return
	}
	if err := e.store.Set(runKey(e.wallet), data); err != nil {
		log.Printf("[ERROR] save run state: %v", err)
	}
}

func (e *Engine) record(fn func() error) {
	if e.rec == nil {
		return
	}
	if err := fn(); err != nil {
		log.Printf("[ERROR] record history: %v", err)
	}
}
