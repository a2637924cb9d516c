package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrSimFailure is returned by a Sim configured to fail.
var ErrSimFailure = errors.New("simulated provider failure")

// Sim is an in-process Provider for dry runs and tests. Quotes price at a
// fixed OutPerIn rate, swaps return a synthetic payload, submissions return
// uuid confirmations. Zero value is unusable; use NewSim.
type Sim struct {
	mu sync.Mutex

	// OutPerIn is the quote rate: outAmount = inAmount * OutPerIn.
	OutPerIn float64
	// BalanceLamports is returned by Balance.
	BalanceLamports int64
	// Fail makes every call return ErrSimFailure while set.
	Fail bool

	Quotes      int
	Swaps       int
	Submissions int
}

// NewSim creates a simulator with a 1000 tokens/SOL rate and a 10 SOL balance.
func NewSim() *Sim {
	return &Sim{OutPerIn: 1000, BalanceLamports: 10 * LamportsPerSol}
}

// SetRate changes the quote rate, moving the price the grid agent sees.
func (s *Sim) SetRate(outPerIn float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.OutPerIn = outPerIn
}

func (s *Sim) GetQuote(_ context.Context, inputMint, outputMint string, amount int64) (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrSimFailure
	}
	s.Quotes++
	out := int64(float64(amount) * s.OutPerIn)
	raw, _ := json.Marshal(map[string]string{
		"inAmount":  fmt.Sprint(amount),
		"outAmount": fmt.Sprint(out),
	})
	return &Quote{
		InputMint:  inputMint,
		OutputMint: outputMint,
		InAmount:   amount,
		OutAmount:  out,
		Raw:        raw,
	}, nil
}

func (s *Sim) BuildSwap(_ context.Context, quote *Quote, owner string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return "", ErrSimFailure
	}
	s.Swaps++
	return fmt.Sprintf("sim-swap:%s:%d->%d:%s", owner, quote.InAmount, quote.OutAmount, quote.OutputMint), nil
}

func (s *Sim) Submit(_ context.Context, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return "", ErrSimFailure
	}
	s.Submissions++
	return uuid.NewString(), nil
}

func (s *Sim) Balance(_ context.Context, _ string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return 0, ErrSimFailure
	}
	return s.BalanceLamports, nil
}
