package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

func validPool() types.Pool {
	return types.Pool{
		Id:           1,
		AssetId:      "frac/estate-7",
		Route:        types.RouteNative,
		BaseDenom:    "ushard",
		ReserveBase:  math.NewInt(1_000_000),
		ReserveAsset: math.NewInt(1000),
		TotalShares:  math.NewInt(31622),
		LastPrice:    math.LegacyNewDec(1000),
	}
}

func TestPoolExists(t *testing.T) {
	pool := validPool()
	require.True(t, pool.Exists())

	pool.TotalShares = math.ZeroInt()
	require.False(t, pool.Exists())

	var nilPool *types.Pool
	require.False(t, nilPool.Exists())
}

func TestPoolSpotPrice(t *testing.T) {
	pool := validPool()
	require.Equal(t, math.LegacyNewDec(1000), pool.SpotPrice())

	pool.ReserveAsset = math.ZeroInt()
	require.True(t, pool.SpotPrice().IsZero())
}

func TestPoolValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.Pool)
		wantErr bool
	}{
		{"valid", func(p *types.Pool) {}, false},
		{"empty asset id", func(p *types.Pool) { p.AssetId = "" }, true},
		{"bad route", func(p *types.Pool) { p.Route = "sidechain" }, true},
		{"empty base denom", func(p *types.Pool) { p.BaseDenom = "" }, true},
		{"base equals asset", func(p *types.Pool) { p.BaseDenom = p.AssetId }, true},
		{"negative reserve", func(p *types.Pool) { p.ReserveBase = math.NewInt(-1) }, true},
		{"live pool drained", func(p *types.Pool) { p.ReserveAsset = math.ZeroInt() }, true},
		{"reserves without shares", func(p *types.Pool) { p.TotalShares = math.ZeroInt() }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pool := validPool()
			tc.mutate(&pool)
			err := pool.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRouteTypeValid(t *testing.T) {
	require.True(t, types.RouteNative.Valid())
	require.True(t, types.RouteUtility.Valid())
	require.False(t, types.RouteType("").Valid())
	require.False(t, types.RouteType("other").Valid())
}

func TestRouteQuoteBest(t *testing.T) {
	quote := types.RouteQuote{
		NativeOut:     math.NewInt(100),
		UtilityOut:    math.NewInt(120),
		NativeExists:  true,
		UtilityExists: true,
		PreferUtility: true,
	}
	require.Equal(t, math.NewInt(120), quote.Best())

	quote.PreferUtility = false
	require.Equal(t, math.NewInt(100), quote.Best())
}
