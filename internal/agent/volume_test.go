package agent

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"TrapWars/internal/exchange"
	"TrapWars/internal/sched"
	"TrapWars/internal/store"
)

func testVolumeConfig() VolumeConfig {
	return VolumeConfig{
		Wallet:        "test-wallet",
		TokenMint:     "mint111",
		MinBuySol:     0.01,
		MaxBuySol:     0.05,
		MinInterval:   10 * time.Second,
		MaxInterval:   20 * time.Second,
		FeeReserveSol: 0.01,
	}
}

// waitForActions blocks until the agent's buy+sell total reaches want.
func waitForActions(t *testing.T, a *VolumeAgent, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := a.GetStats()
		if s.TotalBuys+s.TotalSells >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	s := a.GetStats()
	t.Fatalf("timed out waiting for %d actions, have %d buys + %d sells", want, s.TotalBuys, s.TotalSells)
}

func TestVolumeAgent_ExecutesOnSchedule(t *testing.T) {
	clock := sched.NewFakeClock(time.Unix(0, 0))
	sim := exchange.NewSim()
	a := NewVolumeAgent(testVolumeConfig(), sim, nil, nil, clock, rand.New(rand.NewSource(1)))

	a.Start(context.Background())
	defer a.Stop()

	if !a.GetStats().IsRunning {
		t.Fatal("expected running after Start")
	}

	const actions = 8
	for i := 0; i < actions; i++ {
		// The max interval guarantees the pending timer is due.
		clock.Advance(20 * time.Second)
		waitForActions(t, a, i+1)
	}

	stats := a.GetStats()
	if stats.TotalBuys+stats.TotalSells != actions {
		t.Errorf("expected %d actions, got %d buys + %d sells", actions, stats.TotalBuys, stats.TotalSells)
	}
	if stats.TotalBuys == 0 {
		t.Error("expected at least one buy under the 70% buy bias")
	}
	if stats.CurrentBalance != 10 {
		t.Errorf("expected 10 SOL balance from simulator, got %.4f", stats.CurrentBalance)
	}
}

func TestVolumeAgent_StopFreezesCounters(t *testing.T) {
	clock := sched.NewFakeClock(time.Unix(0, 0))
	sim := exchange.NewSim()
	st := store.NewMemoryStore()
	a := NewVolumeAgent(testVolumeConfig(), sim, nil, st, clock, rand.New(rand.NewSource(2)))

	a.Start(context.Background())
	clock.Advance(20 * time.Second)
	waitForActions(t, a, 1)

	a.Stop()
	frozen := a.GetStats()
	if frozen.IsRunning {
		t.Fatal("expected stopped")
	}

	// Once Stop has returned no further action may fire, even past the max
	// interval.
	for i := 0; i < 5; i++ {
		clock.Advance(time.Minute)
	}
	time.Sleep(50 * time.Millisecond)

	after := a.GetStats()
	if after.TotalBuys != frozen.TotalBuys || after.TotalSells != frozen.TotalSells || after.TotalVolume != frozen.TotalVolume {
		t.Errorf("counters changed after Stop: %+v -> %+v", frozen, after)
	}

	// Stop persisted a post-mortem snapshot.
	if _, ok, err := st.Get("volume:test-wallet"); err != nil || !ok {
		t.Errorf("expected persisted snapshot, ok=%v err=%v", ok, err)
	}
}

func TestVolumeAgent_SkipsBuyWithoutBalance(t *testing.T) {
	clock := sched.NewFakeClock(time.Unix(0, 0))
	sim := exchange.NewSim()
	sim.BalanceLamports = 0
	a := NewVolumeAgent(testVolumeConfig(), sim, nil, nil, clock, rand.New(rand.NewSource(3)))

	a.Start(context.Background())
	defer a.Stop()

	for i := 0; i < 10; i++ {
		clock.Advance(20 * time.Second)
		time.Sleep(10 * time.Millisecond)
	}

	stats := a.GetStats()
	if stats.TotalBuys != 0 {
		t.Errorf("expected no buys with an empty wallet, got %d", stats.TotalBuys)
	}
	if stats.TotalVolume != 0 {
		t.Errorf("skipped buys must not count volume, got %.4f", stats.TotalVolume)
	}
}

func TestVolumeAgent_DoubleStartIsNoop(t *testing.T) {
	clock := sched.NewFakeClock(time.Unix(0, 0))
	a := NewVolumeAgent(testVolumeConfig(), exchange.NewSim(), nil, nil, clock, rand.New(rand.NewSource(4)))

	a.Start(context.Background())
	a.Start(context.Background())
	defer a.Stop()

	clock.Advance(20 * time.Second)
	waitForActions(t, a, 1)

	// A second Start must not double the schedule: one advance, one action.
	time.Sleep(50 * time.Millisecond)
	stats := a.GetStats()
	if stats.TotalBuys+stats.TotalSells != 1 {
		t.Errorf("expected exactly 1 action, got %d buys + %d sells", stats.TotalBuys, stats.TotalSells)
	}
}

func TestVolumeAgent_RestartResetsCounters(t *testing.T) {
	clock := sched.NewFakeClock(time.Unix(0, 0))
	a := NewVolumeAgent(testVolumeConfig(), exchange.NewSim(), nil, nil, clock, rand.New(rand.NewSource(5)))

	a.Start(context.Background())
	clock.Advance(20 * time.Second)
	waitForActions(t, a, 1)
	a.Stop()

	// A fresh Start begins a fresh session: the previous run's counters must
	// not leak into it.
	a.Start(context.Background())
	defer a.Stop()

	stats := a.GetStats()
	if !stats.IsRunning {
		t.Fatal("expected running after restart")
	}
	if stats.TotalBuys != 0 || stats.TotalSells != 0 || stats.TotalVolume != 0 {
		t.Errorf("expected zeroed counters after restart, got %d buys, %d sells, %.4f volume",
			stats.TotalBuys, stats.TotalSells, stats.TotalVolume)
	}
	if stats.CurrentBalance != 10 {
		t.Errorf("expected restart to re-read the 10 SOL balance, got %.4f", stats.CurrentBalance)
	}

	// The new session counts from zero.
	clock.Advance(20 * time.Second)
	waitForActions(t, a, 1)
	stats = a.GetStats()
	if stats.TotalBuys+stats.TotalSells != 1 {
		t.Errorf("expected exactly 1 action in the new session, got %d buys + %d sells", stats.TotalBuys, stats.TotalSells)
	}
}
