package keeper_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/shardex-protocol/shardex/testutil/keeper"
)

func TestTWAPFreshPool(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	// No time elapsed: TWAP is the creation price.
	twap, err := f.Keeper.GetTWAP(ctx, pool.Id, 0)
	require.NoError(t, err)
	require.Equal(t, math.LegacyNewDec(1000), twap)
}

func TestTWAPConstantPrice(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	// Price never moves; TWAP equals spot regardless of elapsed time.
	f.Clock.Advance(6 * time.Hour)
	twap, err := f.Keeper.GetTWAP(ctx, pool.Id, 0)
	require.NoError(t, err)
	require.Equal(t, math.LegacyNewDec(1000), twap)
}

func TestTWAPWeightsByTime(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	// Hold the creation price for an hour, then move it with a swap.
	f.Clock.Advance(time.Hour)

	f.Fund(t, testkeeper.Bob, testkeeper.Coin(testkeeper.NativeDenom, 100_000))
	_, err := f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
		testkeeper.NativeDenom, math.NewInt(100_000), math.ZeroInt(), 0)
	require.NoError(t, err)

	after, err := f.Keeper.GetPool(ctx, pool.Id)
	require.NoError(t, err)
	newPrice := after.LastPrice
	require.True(t, newPrice.GT(math.LegacyNewDec(1000)))

	// Hold the new price for another hour. TWAP is the midpoint of the two
	// hour-long segments.
	f.Clock.Advance(time.Hour)

	twap, err := f.Keeper.GetTWAP(ctx, pool.Id, 0)
	require.NoError(t, err)

	expected := math.LegacyNewDec(1000).Add(newPrice).QuoInt64(2)
	require.Equal(t, expected, twap)
}

func TestTWAPCallerWindow(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	// Creation price holds for an hour, then a swap moves it.
	f.Clock.Advance(time.Hour)

	f.Fund(t, testkeeper.Bob, testkeeper.Coin(testkeeper.NativeDenom, 100_000))
	_, err := f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
		testkeeper.NativeDenom, math.NewInt(100_000), math.ZeroInt(), 0)
	require.NoError(t, err)

	after, err := f.Keeper.GetPool(ctx, pool.Id)
	require.NoError(t, err)
	newPrice := after.LastPrice

	f.Clock.Advance(time.Hour)

	// The trailing hour saw only the post-swap price.
	windowed, err := f.Keeper.GetTWAP(ctx, pool.Id, time.Hour)
	require.NoError(t, err)
	require.Equal(t, newPrice, windowed)

	// The trailing two hours split evenly between the two prices.
	windowed, err = f.Keeper.GetTWAP(ctx, pool.Id, 2*time.Hour)
	require.NoError(t, err)
	require.Equal(t, math.LegacyNewDec(1000).Add(newPrice).QuoInt64(2), windowed)

	// A window reaching past the pool's history falls back to the
	// lifetime average.
	windowed, err = f.Keeper.GetTWAP(ctx, pool.Id, 100*time.Hour)
	require.NoError(t, err)
	lifetime, err := f.Keeper.GetTWAP(ctx, pool.Id, 0)
	require.NoError(t, err)
	require.Equal(t, lifetime, windowed)
}

func TestCumulativePriceAccumulator(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	cumulative, totalSeconds, err := f.Keeper.CumulativePrice(ctx, pool.Id)
	require.NoError(t, err)
	require.True(t, cumulative.IsZero())
	require.Zero(t, totalSeconds)

	// An hour at price 1000, folded in by the next swap.
	f.Clock.Advance(time.Hour)
	f.Fund(t, testkeeper.Bob, testkeeper.Coin(testkeeper.NativeDenom, 20_000))
	_, err = f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
		testkeeper.NativeDenom, math.NewInt(20_000), math.ZeroInt(), 0)
	require.NoError(t, err)

	cumulative, totalSeconds, err = f.Keeper.CumulativePrice(ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, uint64(3600), totalSeconds)
	require.Equal(t, math.LegacyNewDec(1000).MulInt64(3600), cumulative)
}

func TestVolumeWindowResets(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	f.Fund(t, testkeeper.Bob, testkeeper.Coin(testkeeper.NativeDenom, 100_000))

	swap := func(amount int64) {
		_, err := f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
			testkeeper.NativeDenom, math.NewInt(amount), math.ZeroInt(), 0)
		require.NoError(t, err)
	}

	swap(10_000)
	swap(5_000)

	p, err := f.Keeper.GetPool(ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(15_000), p.VolumeWindow)

	// The default 24h window fully elapses; the counter resets, not decays.
	f.Clock.Advance(25 * time.Hour)
	swap(2_000)

	p, err = f.Keeper.GetPool(ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(2_000), p.VolumeWindow)
}
