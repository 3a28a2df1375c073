package keeper_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/shardex-protocol/shardex/testutil/keeper"
	"github.com/shardex-protocol/shardex/x/amm/types"
)

// tripBreaker swaps an amount above the 2000 bps impact threshold.
func tripBreaker(t *testing.T, f *testkeeper.Fixture, poolID uint64) {
	t.Helper()
	ctx := context.Background()

	f.Fund(t, testkeeper.Bob, testkeeper.Coin(testkeeper.NativeDenom, 1_000_000))

	// 300_000 against a 1_000_000 reserve is 3000 bps.
	_, err := f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, poolID,
		testkeeper.NativeDenom, math.NewInt(300_000), math.ZeroInt(), 0)
	require.ErrorIs(t, err, types.ErrCircuitBreakerTripped)
}

func TestCircuitBreakerTrips(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	before, err := f.Keeper.GetPool(ctx, pool.Id)
	require.NoError(t, err)

	tripBreaker(t, f, pool.Id)

	// The breaching swap itself left no trace on the pool or the trader.
	after, err := f.Keeper.GetPool(ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, before.ReserveBase, after.ReserveBase)
	require.Equal(t, before.ReserveAsset, after.ReserveAsset)
	require.Equal(t, math.NewInt(1_000_000),
		f.Ledger.GetBalance(ctx, testkeeper.Bob, testkeeper.NativeDenom).Amount)

	// But the breaker flag survived the abort.
	cb, err := f.Keeper.CircuitBreaker(ctx)
	require.NoError(t, err)
	require.True(t, cb.Active)
	require.Equal(t, pool.Id, cb.TriggerPoolId)
	require.NotEmpty(t, cb.TriggerReason)

	// Any subsequent swap, however small, is halted.
	_, err = f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
		testkeeper.NativeDenom, math.NewInt(100), math.ZeroInt(), 0)
	require.ErrorIs(t, err, types.ErrSystemPaused)

	// So are liquidity operations.
	_, _, err = f.Keeper.AddLiquidity(ctx, testkeeper.Bob, pool.Id, math.NewInt(1000), 0)
	require.ErrorIs(t, err, types.ErrSystemPaused)
}

func TestCircuitBreakerResetCooldown(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	tripBreaker(t, f, pool.Id)

	// Resetting before the cooldown elapses fails.
	err := f.Keeper.ResetCircuitBreaker(ctx, testkeeper.Bob)
	require.ErrorIs(t, err, types.ErrCooldownActive)

	f.Clock.Advance(30 * time.Minute)
	err = f.Keeper.ResetCircuitBreaker(ctx, testkeeper.Bob)
	require.ErrorIs(t, err, types.ErrCooldownActive)

	// After the full cooldown anyone may reset.
	f.Clock.Advance(31 * time.Minute)
	require.NoError(t, f.Keeper.ResetCircuitBreaker(ctx, testkeeper.Bob))

	cb, err := f.Keeper.CircuitBreaker(ctx)
	require.NoError(t, err)
	require.False(t, cb.Active)

	// Trading resumes.
	_, err = f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
		testkeeper.NativeDenom, math.NewInt(20_000), math.ZeroInt(), 0)
	require.NoError(t, err)
}

func TestSlippageFailureDoesNotTrip(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	f.Fund(t, testkeeper.Bob, testkeeper.Coin(testkeeper.NativeDenom, 1_000_000))

	// The swap breaches both the impact threshold and its own minimum
	// output. The quote fails first, so the breaker never engages.
	_, err := f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
		testkeeper.NativeDenom, math.NewInt(300_000), math.NewInt(1_000_000), 0)
	require.ErrorIs(t, err, types.ErrSlippageExceeded)

	cb, err := f.Keeper.CircuitBreaker(ctx)
	require.NoError(t, err)
	require.False(t, cb.Active)

	// Trading stays open.
	_, err = f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
		testkeeper.NativeDenom, math.NewInt(20_000), math.ZeroInt(), 0)
	require.NoError(t, err)
}

func TestCircuitBreakerResetInactive(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()

	err := f.Keeper.ResetCircuitBreaker(ctx, testkeeper.Bob)
	require.ErrorIs(t, err, types.ErrInvalidInput)
}
