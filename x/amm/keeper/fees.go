package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// addProtocolFee accumulates the protocol's share of a swap fee into the
// per-denom fee ledger.
func (k *Keeper) addProtocolFee(store storeBranch, denom string, amount math.Int) error {
	if amount.IsNil() || amount.IsZero() {
		return nil
	}
	current, err := k.getProtocolFee(store, denom)
	if err != nil {
		return err
	}
	bz, err := marshalInt(current.Add(amount))
	if err != nil {
		return fmt.Errorf("addProtocolFee: marshal: %w", err)
	}
	store.Set(ProtocolFeeKey(denom), bz)
	return nil
}

func (k *Keeper) getProtocolFee(store storeBranch, denom string) (math.Int, error) {
	bz := store.Get(ProtocolFeeKey(denom))
	if bz == nil {
		return math.ZeroInt(), nil
	}
	v, err := unmarshalInt(bz)
	if err != nil {
		return math.ZeroInt(), fmt.Errorf("getProtocolFee: unmarshal %s: %w", denom, err)
	}
	return v, nil
}

// GetProtocolFees returns the uncollected protocol fees held in the given
// denom.
func (k *Keeper) GetProtocolFees(_ context.Context, denom string) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.getProtocolFee(k.root, denom)
}

// CollectFees transfers accumulated protocol fees in one denom to the fee
// recipient. Only the fee recipient or the authority may trigger collection.
// The ledger is zeroed before the transfer leaves the engine.
func (k *Keeper) CollectFees(ctx context.Context, caller, denom string) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if caller != k.feeRecipient && caller != k.authority {
		return math.ZeroInt(), types.ErrUnauthorized.Wrapf("caller %s may not collect fees", caller)
	}
	if denom == "" {
		return math.ZeroInt(), types.ErrInvalidInput.Wrap("denom cannot be empty")
	}

	branch := k.branch()
	amount, err := k.getProtocolFee(branch, denom)
	if err != nil {
		return math.ZeroInt(), err
	}
	if amount.IsZero() {
		return math.ZeroInt(), types.ErrNoFeesToCollect.Wrapf("no fees accrued in %s", denom)
	}

	branch.Delete(ProtocolFeeKey(denom))

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bank.SendCoins(ctx, types.ModuleAddress, k.feeRecipient, coins); err != nil {
		return math.ZeroInt(), types.ErrTransferFailed.Wrapf("fee payout: %v", err)
	}

	branch.Write()

	k.emit(types.EventTypeFeesCollected,
		"denom", denom,
		"amount", amount.String(),
		"recipient", k.feeRecipient,
	)
	k.metrics.FeesCollected.WithLabelValues(denom).Add(intToFloat(amount))

	return amount, nil
}
