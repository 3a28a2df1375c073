package keeper_test

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/shardex-protocol/shardex/testutil/keeper"
	"github.com/shardex-protocol/shardex/x/amm/types"
)

// createRoutedPools seeds native-route pools for assetX and assetY, plus an
// optional deeper utility-route pair.
func createRoutedPools(t *testing.T, f *testkeeper.Fixture, withUtility bool) {
	t.Helper()
	ctx := context.Background()

	f.Fund(t, testkeeper.Alice,
		testkeeper.Coin(testkeeper.NativeDenom, 100_000_000),
		testkeeper.Coin(testkeeper.UtilityDenom, 100_000_000),
		testkeeper.Coin(assetX, 1_000_000),
		testkeeper.Coin(assetY, 1_000_000),
	)

	_, err := f.Keeper.CreatePool(ctx, testkeeper.Alice, assetX, types.RouteNative,
		math.NewInt(1_000_000), math.NewInt(10_000))
	require.NoError(t, err)
	_, err = f.Keeper.CreatePool(ctx, testkeeper.Alice, assetY, types.RouteNative,
		math.NewInt(1_000_000), math.NewInt(10_000))
	require.NoError(t, err)

	if withUtility {
		// Ten times the depth: less price impact, better output.
		_, err = f.Keeper.CreatePool(ctx, testkeeper.Alice, assetX, types.RouteUtility,
			math.NewInt(10_000_000), math.NewInt(100_000))
		require.NoError(t, err)
		_, err = f.Keeper.CreatePool(ctx, testkeeper.Alice, assetY, types.RouteUtility,
			math.NewInt(10_000_000), math.NewInt(100_000))
		require.NoError(t, err)
	}
}

func TestQuoteRoutesComposition(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	createRoutedPools(t, f, false)

	amountIn := math.NewInt(5000)

	quote, err := f.Keeper.QuoteRoutes(ctx, assetX, assetY, amountIn)
	require.NoError(t, err)
	require.True(t, quote.NativeExists)
	require.False(t, quote.UtilityExists)
	require.False(t, quote.PreferUtility)

	// The route quote equals manually composing two single-hop simulations.
	poolX, err := f.Keeper.GetPoolByAsset(ctx, assetX, types.RouteNative)
	require.NoError(t, err)
	poolY, err := f.Keeper.GetPoolByAsset(ctx, assetY, types.RouteNative)
	require.NoError(t, err)

	nativeOut, err := f.Keeper.SimulateSwap(ctx, poolX.Id, assetX, amountIn)
	require.NoError(t, err)
	finalOut, err := f.Keeper.SimulateSwap(ctx, poolY.Id, testkeeper.NativeDenom, nativeOut)
	require.NoError(t, err)
	require.Equal(t, finalOut, quote.NativeOut)
}

func TestQuoteRoutesIdempotent(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	createRoutedPools(t, f, true)

	first, err := f.Keeper.QuoteRoutes(ctx, assetX, assetY, math.NewInt(5000))
	require.NoError(t, err)
	second, err := f.Keeper.QuoteRoutes(ctx, assetX, assetY, math.NewInt(5000))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestQuoteRoutesPrefersUtility(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	createRoutedPools(t, f, true)

	quote, err := f.Keeper.QuoteRoutes(ctx, assetX, assetY, math.NewInt(5000))
	require.NoError(t, err)
	require.True(t, quote.NativeExists)
	require.True(t, quote.UtilityExists)

	// The deeper utility pools quote strictly better.
	require.True(t, quote.UtilityOut.GT(quote.NativeOut))
	require.True(t, quote.PreferUtility)
	require.Equal(t, quote.UtilityOut, quote.Best())
}

func TestQuoteRoutesNoRoute(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()

	_, err := f.Keeper.QuoteRoutes(ctx, assetX, assetY, math.NewInt(5000))
	require.ErrorIs(t, err, types.ErrNoRouteAvailable)

	// One pool of the pair is not a route.
	f.Fund(t, testkeeper.Alice,
		testkeeper.Coin(testkeeper.NativeDenom, 1_000_000),
		testkeeper.Coin(assetX, 10_000),
	)
	_, err = f.Keeper.CreatePool(ctx, testkeeper.Alice, assetX, types.RouteNative,
		math.NewInt(1_000_000), math.NewInt(10_000))
	require.NoError(t, err)

	_, err = f.Keeper.QuoteRoutes(ctx, assetX, assetY, math.NewInt(5000))
	require.ErrorIs(t, err, types.ErrNoRouteAvailable)
}

func TestExecuteSmartSwapMatchesQuote(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	createRoutedPools(t, f, true)

	amountIn := math.NewInt(5000)
	quote, err := f.Keeper.QuoteRoutes(ctx, assetX, assetY, amountIn)
	require.NoError(t, err)

	f.Fund(t, testkeeper.Bob, testkeeper.Coin(assetX, 5000))

	out, err := f.Keeper.ExecuteSmartSwap(ctx, testkeeper.Bob, assetX, assetY,
		amountIn, math.ZeroInt(), 0)
	require.NoError(t, err)
	require.Equal(t, quote.Best(), out)

	require.Equal(t, out, f.Ledger.GetBalance(ctx, testkeeper.Bob, assetY).Amount)
	require.True(t, f.Ledger.GetBalance(ctx, testkeeper.Bob, assetX).Amount.IsZero())

	require.NoError(t, f.Keeper.CheckInvariants(ctx))
}

func TestExecuteSmartSwapSlippage(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	createRoutedPools(t, f, true)

	amountIn := math.NewInt(5000)
	quote, err := f.Keeper.QuoteRoutes(ctx, assetX, assetY, amountIn)
	require.NoError(t, err)

	f.Fund(t, testkeeper.Bob, testkeeper.Coin(assetX, 5000))

	poolX, err := f.Keeper.GetPoolByAsset(ctx, assetX, types.RouteUtility)
	require.NoError(t, err)
	reserveBefore := poolX.ReserveAsset

	// minOut above the quoted output fails and neither hop persists.
	_, err = f.Keeper.ExecuteSmartSwap(ctx, testkeeper.Bob, assetX, assetY,
		amountIn, quote.Best().AddRaw(1), 0)
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	poolX, err = f.Keeper.GetPoolByAsset(ctx, assetX, types.RouteUtility)
	require.NoError(t, err)
	require.Equal(t, reserveBefore, poolX.ReserveAsset)
	require.Equal(t, math.NewInt(5000),
		f.Ledger.GetBalance(ctx, testkeeper.Bob, assetX).Amount)
}

func TestExecuteSmartSwapBreakerAborts(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	createRoutedPools(t, f, false)

	// 30% of the input pool's asset reserve breaches the threshold in hop 1.
	f.Fund(t, testkeeper.Bob, testkeeper.Coin(assetX, 3000))

	_, err := f.Keeper.ExecuteSmartSwap(ctx, testkeeper.Bob, assetX, assetY,
		math.NewInt(3000), math.ZeroInt(), 0)
	require.ErrorIs(t, err, types.ErrCircuitBreakerTripped)

	cb, err := f.Keeper.CircuitBreaker(ctx)
	require.NoError(t, err)
	require.True(t, cb.Active)

	// No hop persisted anywhere.
	poolX, err := f.Keeper.GetPoolByAsset(ctx, assetX, types.RouteNative)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(10_000), poolX.ReserveAsset)
	require.Equal(t, math.NewInt(3000),
		f.Ledger.GetBalance(ctx, testkeeper.Bob, assetX).Amount)
}
