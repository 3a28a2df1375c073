package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper is the token ledger the engine settles against. Transfers are
// synchronous: they either fully succeed or return an error, in which case the
// engine aborts the whole operation.
type BankKeeper interface {
	SendCoins(ctx context.Context, from, to string, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr, denom string) sdk.Coin
	SpendableCoins(ctx context.Context, addr string) sdk.Coins
}

// EmergencyKeeper is the multi-guardian emergency-control veto point. The
// engine consults it before every mutation but does not own it; a paused
// verdict blocks all state changes.
type EmergencyKeeper interface {
	IsContractPaused(ctx context.Context, contract string) bool
}

// EngineV1 is the read/quote interface external collaborators consume.
//
// The asset factory calls CreatePool/AddLiquidity on the full keeper during
// fractionalization; the royalty distributor uses SimulateSwap and the
// breaker state to decide whether a buy-back swap is worth attempting.
type EngineV1 interface {
	// GetPool returns pool information by ID.
	GetPool(ctx context.Context, poolID uint64) (*Pool, error)

	// GetPoolByAsset finds the pool for a listed asset on a route.
	GetPoolByAsset(ctx context.Context, assetID string, route RouteType) (*Pool, error)

	// SimulateSwap quotes a single-hop swap without executing it.
	SimulateSwap(ctx context.Context, poolID uint64, tokenIn string, amountIn sdkmath.Int) (sdkmath.Int, error)

	// QuoteRoutes simulates both two-hop routes between two listed assets.
	QuoteRoutes(ctx context.Context, fromAsset, toAsset string, amountIn sdkmath.Int) (RouteQuote, error)

	// CircuitBreaker returns the engine-global breaker state.
	CircuitBreaker(ctx context.Context) (CircuitBreakerState, error)
}
