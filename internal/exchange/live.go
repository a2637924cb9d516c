package exchange

// Live combines the Jupiter quote API with a Solana RPC endpoint into a full
// Provider.
type Live struct {
	*JupiterClient
	*RPCClient
}

// NewLive creates a live provider. Empty URLs fall back to the public
// endpoints.
func NewLive(quoteURL, rpcEndpoint string) *Live {
	return &Live{
		JupiterClient: NewJupiterClient(quoteURL),
		RPCClient:     NewRPCClient(rpcEndpoint),
	}
}
