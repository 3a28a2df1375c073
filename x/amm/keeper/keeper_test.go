package keeper_test

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/shardex-protocol/shardex/testutil/keeper"
	"github.com/shardex-protocol/shardex/x/amm/keeper"
	"github.com/shardex-protocol/shardex/x/amm/types"
	"github.com/shardex-protocol/shardex/x/ledger"
)

func TestNewKeeperValidation(t *testing.T) {
	logger := log.NewNopLogger()
	bank := ledger.New()

	_, err := keeper.NewKeeper(dbm.NewMemDB(), nil, logger, keeper.Config{
		NativeDenom: "ushard", UtilityDenom: "uspark",
	})
	require.Error(t, err)

	_, err = keeper.NewKeeper(dbm.NewMemDB(), bank, logger, keeper.Config{
		NativeDenom: "", UtilityDenom: "uspark",
	})
	require.Error(t, err)

	_, err = keeper.NewKeeper(dbm.NewMemDB(), bank, logger, keeper.Config{
		NativeDenom: "ushard", UtilityDenom: "ushard",
	})
	require.Error(t, err)

	k, err := keeper.NewKeeper(dbm.NewMemDB(), bank, logger, keeper.Config{
		NativeDenom: "ushard", UtilityDenom: "uspark",
	})
	require.NoError(t, err)

	// A zero-value params config falls back to defaults.
	params, err := k.GetParams(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams(), params)
}

// vetoingEmergency pauses every contract it is asked about.
type vetoingEmergency struct{ paused bool }

func (v *vetoingEmergency) IsContractPaused(context.Context, string) bool { return v.paused }

func TestEmergencyVeto(t *testing.T) {
	ctx := context.Background()
	bank := ledger.New()
	emergency := &vetoingEmergency{}

	k, err := keeper.NewKeeper(dbm.NewMemDB(), bank, log.NewNopLogger(), keeper.Config{
		NativeDenom:  testkeeper.NativeDenom,
		UtilityDenom: testkeeper.UtilityDenom,
		Emergency:    emergency,
	})
	require.NoError(t, err)

	require.NoError(t, bank.MintCoins(ctx, testkeeper.Alice, sdk.NewCoins(
		testkeeper.Coin(testkeeper.NativeDenom, 1_000_000),
		testkeeper.Coin(assetX, 100_000),
	)))

	emergency.paused = true
	_, err = k.CreatePool(ctx, testkeeper.Alice, assetX, types.RouteNative,
		math.NewInt(1_000_000), math.NewInt(1000))
	require.ErrorIs(t, err, types.ErrSystemPaused)

	// Lifting the veto restores writes without any engine-side action.
	emergency.paused = false
	_, err = k.CreatePool(ctx, testkeeper.Alice, assetX, types.RouteNative,
		math.NewInt(1_000_000), math.NewInt(1000))
	require.NoError(t, err)
}
