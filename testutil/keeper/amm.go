package keeper

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	ammkeeper "github.com/shardex-protocol/shardex/x/amm/keeper"
	"github.com/shardex-protocol/shardex/x/amm/types"
	"github.com/shardex-protocol/shardex/x/ledger"
)

// Well-known test accounts.
const (
	Authority    = "shardex1authority"
	FeeRecipient = "shardex1feerecipient"
	Alice        = "shardex1alice"
	Bob          = "shardex1bob"

	NativeDenom  = "ushard"
	UtilityDenom = "uspark"
)

// Clock is a controllable time source for deterministic TWAP and cooldown
// tests.
type Clock struct {
	current time.Time
}

// NewClock starts a clock at a fixed, arbitrary instant.
func NewClock() *Clock {
	return &Clock{current: time.Unix(1_700_000_000, 0).UTC()}
}

func (c *Clock) Now() time.Time { return c.current }

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) { c.current = c.current.Add(d) }

// Fixture bundles an engine keeper with its ledger and clock.
type Fixture struct {
	Keeper *ammkeeper.Keeper
	Ledger *ledger.Ledger
	Clock  *Clock
}

// AMMKeeper builds an engine keeper on a fresh in-memory store with default
// parameters.
func AMMKeeper(t testing.TB) *Fixture {
	t.Helper()
	return AMMKeeperWithParams(t, types.DefaultParams())
}

// AMMKeeperWithParams builds an engine keeper with custom parameters.
func AMMKeeperWithParams(t testing.TB, params types.Params) *Fixture {
	t.Helper()

	bank := ledger.New()
	clock := NewClock()

	k, err := ammkeeper.NewKeeper(dbm.NewMemDB(), bank, log.NewNopLogger(), ammkeeper.Config{
		Authority:    Authority,
		FeeRecipient: FeeRecipient,
		NativeDenom:  NativeDenom,
		UtilityDenom: UtilityDenom,
		Clock:        clock.Now,
		Params:       params,
	})
	require.NoError(t, err)

	return &Fixture{Keeper: k, Ledger: bank, Clock: clock}
}

// Fund credits an account with test coins.
func (f *Fixture) Fund(t testing.TB, addr string, coins ...sdk.Coin) {
	t.Helper()
	require.NoError(t, f.Ledger.MintCoins(context.Background(), addr, sdk.NewCoins(coins...)))
}

// Coin is shorthand for building a test coin.
func Coin(denom string, amount int64) sdk.Coin {
	return sdk.NewCoin(denom, math.NewInt(amount))
}
