package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"TrapWars/internal/model"
	"TrapWars/internal/pricing"
	"TrapWars/internal/store"
)

type fixedMultiplier float64

func (f fixedMultiplier) Multiplier() float64 { return float64(f) }

func newTestEngine(t *testing.T, seed int64, mult float64) *Engine {
	t.Helper()
	e, err := NewEngine("test-wallet", store.NewMemoryStore(), nil, fixedMultiplier(mult), rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestStart_Defaults(t *testing.T) {
	e := newTestEngine(t, 1, 1.0)
	state, err := e.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if state.Day != 1 {
		t.Errorf("expected day 1, got %d", state.Day)
	}
	if state.Location != StartLocation {
		t.Errorf("expected start in %s, got %s", StartLocation, state.Location)
	}
	if state.Cash != StartingCash {
		t.Errorf("expected $%d, got $%d", StartingCash, state.Cash)
	}
	if state.CoatSpace != CoatSpace {
		t.Errorf("expected coat space %d, got %d", CoatSpace, state.CoatSpace)
	}
	if state.Rank != model.RankNone {
		t.Errorf("expected rank NONE, got %s", state.Rank)
	}
	if len(state.Prices) != len(pricing.Catalog) {
		t.Errorf("expected %d prices, got %d", len(pricing.Catalog), len(state.Prices))
	}
	for _, p := range pricing.Catalog {
		price := state.Prices[p.Name]
		if price < p.MinPrice || price >= p.MaxPrice {
			t.Errorf("%s opening price %d outside [%d, %d)", p.Name, price, p.MinPrice, p.MaxPrice)
		}
	}
}

func TestStart_RejectsActiveRun(t *testing.T) {
	e := newTestEngine(t, 1, 1.0)
	if _, err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.Start(); !errors.Is(err, ErrRunActive) {
		t.Fatalf("expected ErrRunActive, got %v", err)
	}

	// A terminated run is replaced.
	if _, err := e.EndEarly(); err != nil {
		t.Fatalf("end early: %v", err)
	}
	if _, err := e.Start(); err != nil {
		t.Fatalf("restart after termination: %v", err)
	}
}

func TestBuySell_SameDayRoundTrip(t *testing.T) {
	e := newTestEngine(t, 2, 1.0)
	state, _ := e.Start()
	price := state.Prices["Weed"]

	state, err := e.Buy("Weed", 10)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if state.Cash != StartingCash-price*10 {
		t.Errorf("expected cash %d, got %d", StartingCash-price*10, state.Cash)
	}
	if state.Inventory["Weed"] != 10 {
		t.Errorf("expected 10 units, got %d", state.Inventory["Weed"])
	}

	// Rank NONE sells at 1.0x, so a same-day round trip is cash neutral.
	state, earnings, promo, err := e.Sell("Weed", 10)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if earnings != price*10 {
		t.Errorf("expected earnings %d, got %d", price*10, earnings)
	}
	if promo != nil {
		t.Errorf("unexpected promotion at $%d", state.Cash)
	}
	if state.Cash != StartingCash {
		t.Errorf("expected cash back to %d, got %d", StartingCash, state.Cash)
	}
	if state.Inventory["Weed"] != 0 {
		t.Errorf("expected empty inventory, got %d", state.Inventory["Weed"])
	}
}

func TestBuy_Validation(t *testing.T) {
	e := newTestEngine(t, 3, 1.0)
	e.Start()

	if _, err := e.Buy("Weed", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("qty 0: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := e.Buy("Weed", -5); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative qty: expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := e.Buy("Aspirin", 1); !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("unknown product: expected ErrUnknownProduct, got %v", err)
	}
	if _, err := e.Buy("Heroin", 2); !errors.Is(err, ErrInsufficientCash) {
		t.Errorf("overspend: expected ErrInsufficientCash, got %v", err)
	}

	// A failed buy is a no-op.
	state, _ := e.Snapshot()
	if state.Cash != StartingCash || state.InventoryTotal() != 0 {
		t.Error("failed buys must not change state")
	}
}

func TestBuy_CoatSpaceLimit(t *testing.T) {
	// A depressed market makes the cheapest product affordable at full
	// capacity, so the space check is the binding one.
	e := newTestEngine(t, 4, 0.1)
	e.Start()

	if _, err := e.Buy("Shrooms", CoatSpace+1); !errors.Is(err, ErrInsufficientSpace) {
		t.Fatalf("expected ErrInsufficientSpace, got %v", err)
	}
	state, err := e.Buy("Shrooms", CoatSpace)
	if err != nil {
		t.Fatalf("filling the coat exactly should work: %v", err)
	}
	if state.InventoryTotal() != CoatSpace {
		t.Errorf("expected %d units, got %d", CoatSpace, state.InventoryTotal())
	}
	if _, err := e.Buy("Weed", 1); !errors.Is(err, ErrInsufficientSpace) {
		t.Errorf("full coat: expected ErrInsufficientSpace, got %v", err)
	}
}

func TestBuy_HugeQuantityRejected(t *testing.T) {
	e := newTestEngine(t, 14, 1.0)
	e.Start()
	if _, err := e.Buy("Weed", 5); err != nil {
		t.Fatalf("seed buy: %v", err)
	}
	before, _ := e.Snapshot()

	// Quantities large enough to wrap price*qty or the capacity sum negative
	// must be rejected outright, never accepted via overflowed checks.
	for _, qty := range []int64{CoatSpace + 1, math.MaxInt64 / 1000, math.MaxInt64} {
		if _, err := e.Buy("Heroin", qty); !errors.Is(err, ErrInsufficientSpace) {
			t.Errorf("qty %d: expected ErrInsufficientSpace, got %v", qty, err)
		}
	}

	after, _ := e.Snapshot()
	if after.Cash != before.Cash {
		t.Errorf("rejected buys changed cash: $%d -> $%d", before.Cash, after.Cash)
	}
	if got := after.InventoryTotal(); got != before.InventoryTotal() {
		t.Errorf("rejected buys changed inventory: %d -> %d", before.InventoryTotal(), got)
	}
	if total := after.InventoryTotal(); total < 0 || total > after.CoatSpace {
		t.Errorf("inventory total %d outside [0, %d]", total, after.CoatSpace)
	}
}

func TestSell_InsufficientInventory(t *testing.T) {
	e := newTestEngine(t, 5, 1.0)
	e.Start()

	if _, _, _, err := e.Sell("Weed", 1); !errors.Is(err, ErrInsufficientInventory) {
		t.Errorf("expected ErrInsufficientInventory, got %v", err)
	}
	if _, _, _, err := e.Sell("Weed", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestTravel_AdvancesDay(t *testing.T) {
	e := newTestEngine(t, 6, 1.0)
	e.Start()

	state, _, err := e.Travel("Watts")
	if err != nil {
		t.Fatalf("travel: %v", err)
	}
	if state.Day != 2 {
		t.Errorf("expected day 2, got %d", state.Day)
	}
	if state.Location != "Watts" {
		t.Errorf("expected Watts, got %s", state.Location)
	}
	if len(state.Prices) != len(pricing.Catalog) {
		t.Errorf("expected %d prices after travel, got %d", len(pricing.Catalog), len(state.Prices))
	}
}

func TestTravel_InvalidLocation(t *testing.T) {
	e := newTestEngine(t, 7, 1.0)
	e.Start()

	if _, _, err := e.Travel("Fresno"); !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestTravel_TerminatesAfterLastDay(t *testing.T) {
	e := newTestEngine(t, 8, 1.0)
	e.Start()

	// 29 travels reach day 30, the last playable day.
	for i := 0; i < RunDays-1; i++ {
		state, _, err := e.Travel("Watts")
		if err != nil {
			t.Fatalf("travel %d: %v", i, err)
		}
		if state.GameOver {
			t.Fatalf("run ended early on day %d", state.Day)
		}
	}
	state, _ := e.Snapshot()
	if state.Day != RunDays {
		t.Fatalf("expected day %d, got %d", RunDays, state.Day)
	}

	// The next travel ends the run instead of moving.
	state, desc, err := e.Travel("Compton")
	if err != nil {
		t.Fatalf("terminal travel: %v", err)
	}
	if desc != "" {
		t.Errorf("terminal travel must not roll an event, got %q", desc)
	}
	if !state.GameOver {
		t.Fatal("expected run over")
	}
	if state.Day != RunDays+1 {
		t.Errorf("expected day pinned at %d, got %d", RunDays+1, state.Day)
	}
	if state.EndedEarly {
		t.Error("a full run is not an early exit")
	}
	if state.FinalScore != state.Cash {
		t.Errorf("final score %d != cash %d", state.FinalScore, state.Cash)
	}

	// All further operations are rejected; a fresh run can start.
	if _, _, err := e.Travel("Watts"); !errors.Is(err, ErrRunOver) {
		t.Errorf("travel after end: expected ErrRunOver, got %v", err)
	}
	if _, err := e.Buy("Weed", 1); !errors.Is(err, ErrRunOver) {
		t.Errorf("buy after end: expected ErrRunOver, got %v", err)
	}
	if _, _, _, err := e.Sell("Weed", 1); !errors.Is(err, ErrRunOver) {
		t.Errorf("sell after end: expected ErrRunOver, got %v", err)
	}
	if _, err := e.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
}

func TestEndEarly(t *testing.T) {
	e := newTestEngine(t, 9, 1.0)
	e.Start()
	e.Travel("Inglewood")

	state, err := e.EndEarly()
	if err != nil {
		t.Fatalf("end early: %v", err)
	}
	if !state.GameOver || !state.EndedEarly {
		t.Error("expected an early game over")
	}
	if state.Day != 2 {
		t.Errorf("early exit keeps the current day, got %d", state.Day)
	}
	if state.FinalScore != state.Cash {
		t.Errorf("final score %d != cash %d", state.FinalScore, state.Cash)
	}
	if _, err := e.EndEarly(); !errors.Is(err, ErrRunOver) {
		t.Errorf("double end: expected ErrRunOver, got %v", err)
	}
}

func TestSnapshot_NoRun(t *testing.T) {
	e := newTestEngine(t, 10, 1.0)
	if _, err := e.Snapshot(); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun, got %v", err)
	}
	if _, _, err := e.Travel("Watts"); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun, got %v", err)
	}
}

func TestSnapshot_Isolated(t *testing.T) {
	e := newTestEngine(t, 11, 1.0)
	e.Start()

	snap, _ := e.Snapshot()
	snap.Prices["Weed"] = 1
	snap.Inventory["Weed"] = 999

	fresh, _ := e.Snapshot()
	if fresh.Prices["Weed"] == 1 || fresh.Inventory["Weed"] == 999 {
		t.Error("snapshot mutation leaked into engine state")
	}
}

func TestPersistence_ReloadAcrossEngines(t *testing.T) {
	st := store.NewMemoryStore()
	e, err := NewEngine("w1", st, nil, nil, rand.New(rand.NewSource(12)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	e.Start()
	e.Buy("Acid", 3)
	want, _ := e.Snapshot()

	e2, err := NewEngine("w1", st, nil, nil, rand.New(rand.NewSource(12)))
	if err != nil {
		t.Fatalf("reload engine: %v", err)
	}
	got, err := e2.Snapshot()
	if err != nil {
		t.Fatalf("snapshot after reload: %v", err)
	}
	if got.Day != want.Day || got.Cash != want.Cash || got.Inventory["Acid"] != 3 {
		t.Errorf("reloaded state mismatch: got day=%d cash=%d acid=%d", got.Day, got.Cash, got.Inventory["Acid"])
	}
	if got.Rank != want.Rank || got.StakedAmount != want.StakedAmount {
		t.Error("rank progress lost across reload")
	}
}

func TestFullRun_RankAndStakeMonotonic(t *testing.T) {
	e := newTestEngine(t, 13, 1.0)
	state, _ := e.Start()

	lastRank := state.Rank
	lastStaked := state.StakedAmount
	destinations := model.Locations

	for day := 0; ; day++ {
		// Sell everything carried at today's prices.
		snap, _ := e.Snapshot()
		if snap.GameOver {
			break
		}
		for product, qty := range snap.Inventory {
			if qty == 0 {
				continue
			}
			if _, _, _, err := e.Sell(product, qty); err != nil {
				t.Fatalf("day %d sell %s: %v", snap.Day, product, err)
			}
		}

		// Reinvest in the cheapest product that fits.
		snap, _ = e.Snapshot()
		for _, p := range pricing.Catalog {
			price := snap.Prices[p.Name]
			space := snap.CoatSpace - snap.InventoryTotal()
			qty := snap.Cash / price
			if qty > space {
				qty = space
			}
			if qty > 0 {
				if _, err := e.Buy(p.Name, qty); err != nil {
					t.Fatalf("day %d buy %s x%d: %v", snap.Day, p.Name, qty, err)
				}
				break
			}
		}

		state, _, err := e.Travel(destinations[day%len(destinations)])
		if err != nil {
			t.Fatalf("day %d travel: %v", day, err)
		}

		if state.Rank < lastRank {
			t.Fatalf("rank regressed from %s to %s", lastRank, state.Rank)
		}
		if state.StakedAmount < lastStaked {
			t.Fatalf("staked amount shrank from %d to %d", lastStaked, state.StakedAmount)
		}
		if state.Cash < 0 {
			t.Fatalf("cash went negative: %d", state.Cash)
		}
		lastRank = state.Rank
		lastStaked = state.StakedAmount
	}

	final, _ := e.Snapshot()
	if final.Day != RunDays+1 {
		t.Errorf("expected the run to end after day %d, got day %d", RunDays, final.Day)
	}
	if final.FinalScore != final.Cash {
		t.Errorf("final score %d != cash %d", final.FinalScore, final.Cash)
	}
}
