package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// CheckInvariants verifies engine-wide consistency: every live pool has
// strictly positive reserves, provider shares sum exactly to the pool's total,
// and price accumulators are sane. Intended for tests and operational
// diagnostics; a violation means a bug, not a user error.
func (k *Keeper) CheckInvariants(_ context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	iterator := storetypes.KVStorePrefixIterator(k.root, PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		pool, err := unmarshalPool(iterator.Value())
		if err != nil {
			return fmt.Errorf("CheckInvariants: %w", err)
		}
		if !pool.Exists() {
			continue
		}
		if err := k.checkPoolInvariants(k.root, pool); err != nil {
			return err
		}
	}
	return nil
}

func (k *Keeper) checkPoolInvariants(store storetypes.KVStore, pool *types.Pool) error {
	if !pool.ReserveBase.IsPositive() || !pool.ReserveAsset.IsPositive() {
		return types.ErrInvariantViolation.Wrapf(
			"pool %d: live pool has non-positive reserves (%s, %s)",
			pool.Id, pool.ReserveBase, pool.ReserveAsset,
		)
	}

	sum := math.ZeroInt()
	if err := k.iterateShares(store, pool.Id, func(provider string, shares math.Int) bool {
		sum = sum.Add(shares)
		return false
	}); err != nil {
		return fmt.Errorf("checkPoolInvariants: pool %d: %w", pool.Id, err)
	}
	if !sum.Equal(pool.TotalShares) {
		return types.ErrInvariantViolation.Wrapf(
			"pool %d: provider shares sum %s != total shares %s",
			pool.Id, sum, pool.TotalShares,
		)
	}

	if pool.CumulativePrice.IsNegative() {
		return types.ErrInvariantViolation.Wrapf(
			"pool %d: negative cumulative price %s", pool.Id, pool.CumulativePrice,
		)
	}
	if pool.FeeAccrued.IsNegative() {
		return types.ErrInvariantViolation.Wrapf(
			"pool %d: negative accrued fees %s", pool.Id, pool.FeeAccrued,
		)
	}
	return nil
}
