package exchange

import (
	"context"
	"encoding/json"
)

// LamportsPerSol converts between SOL and base units.
const LamportsPerSol = 1_000_000_000

// SolMintAddress is the wrapped SOL mint, the input side of every agent buy.
const SolMintAddress = "So11111111111111111111111111111111111111112"

// Quote is a priced swap route. Raw carries the provider's full response so
// the swap builder can pass it back unmodified.
type Quote struct {
	InputMint  string
	OutputMint string
	InAmount   int64
	OutAmount  int64
	Raw        json.RawMessage
}

// QuoteProvider prices a swap of amount base units of inputMint into
// outputMint.
type QuoteProvider interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount int64) (*Quote, error)
}

// SwapBuilder turns a quote into a signable transaction payload (base64).
// Signing itself is the wallet's job, outside this module.
type SwapBuilder interface {
	BuildSwap(ctx context.Context, quote *Quote, owner string) (string, error)
}

// Submitter sends a signed payload to the chain and returns a confirmation
// id. Submission is fire-and-forget; confirmation of execution is not
// awaited.
type Submitter interface {
	Submit(ctx context.Context, payload string) (string, error)
}

// BalanceProvider reads an owner's liquid balance in base units.
type BalanceProvider interface {
	Balance(ctx context.Context, owner string) (int64, error)
}

// Provider bundles everything an agent needs. Safe for concurrent use from
// multiple agents.
type Provider interface {
	QuoteProvider
	SwapBuilder
	Submitter
	BalanceProvider
}
