package keeper_test

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/shardex-protocol/shardex/testutil/keeper"
	"github.com/shardex-protocol/shardex/x/amm/types"
)

func TestPauseHaltsWrites(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()
	pool := createNativePool(t, f)

	require.NoError(t, f.Keeper.Pause(ctx, testkeeper.Authority))
	require.True(t, f.Keeper.IsPaused(ctx))

	f.Fund(t, testkeeper.Bob, testkeeper.Coin(testkeeper.NativeDenom, 100_000))

	_, err := f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
		testkeeper.NativeDenom, math.NewInt(1000), math.ZeroInt(), 0)
	require.ErrorIs(t, err, types.ErrSystemPaused)

	_, _, err = f.Keeper.AddLiquidity(ctx, testkeeper.Bob, pool.Id, math.NewInt(1000), 0)
	require.ErrorIs(t, err, types.ErrSystemPaused)

	_, err = f.Keeper.CreatePool(ctx, testkeeper.Bob, assetY, types.RouteNative,
		math.NewInt(1_000_000), math.NewInt(1000))
	require.ErrorIs(t, err, types.ErrSystemPaused)

	// Reads still work while paused.
	_, err = f.Keeper.GetPool(ctx, pool.Id)
	require.NoError(t, err)
	_, err = f.Keeper.SimulateSwap(ctx, pool.Id, testkeeper.NativeDenom, math.NewInt(1000))
	require.NoError(t, err)

	require.NoError(t, f.Keeper.Unpause(ctx, testkeeper.Authority))
	require.False(t, f.Keeper.IsPaused(ctx))

	_, err = f.Keeper.ExecuteSwap(ctx, testkeeper.Bob, pool.Id,
		testkeeper.NativeDenom, math.NewInt(20_000), math.ZeroInt(), 0)
	require.NoError(t, err)
}

func TestPauseAuthority(t *testing.T) {
	f := testkeeper.AMMKeeper(t)
	ctx := context.Background()

	require.ErrorIs(t, f.Keeper.Pause(ctx, testkeeper.Bob), types.ErrUnauthorized)
	require.ErrorIs(t, f.Keeper.Unpause(ctx, testkeeper.Bob), types.ErrUnauthorized)

	// Double pause and unpause of a running engine are rejected.
	require.NoError(t, f.Keeper.Pause(ctx, testkeeper.Authority))
	require.ErrorIs(t, f.Keeper.Pause(ctx, testkeeper.Authority), types.ErrInvalidInput)
	require.NoError(t, f.Keeper.Unpause(ctx, testkeeper.Authority))
	require.ErrorIs(t, f.Keeper.Unpause(ctx, testkeeper.Authority), types.ErrInvalidInput)
}
