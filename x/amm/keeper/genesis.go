package keeper

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// ExportGenesis snapshots the full engine state into a portable form.
func (k *Keeper) ExportGenesis(_ context.Context) (*types.GenesisState, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	gs := types.DefaultGenesis()

	params, err := k.getParams(k.root)
	if err != nil {
		return nil, err
	}
	gs.Params = params

	if bz := k.root.Get(PoolCountKey); bz != nil {
		gs.NextPoolId = binary.BigEndian.Uint64(bz)
	}

	iterator := storetypes.KVStorePrefixIterator(k.root, PoolKeyPrefix)
	defer iterator.Close()
	for ; iterator.Valid(); iterator.Next() {
		pool, err := unmarshalPool(iterator.Value())
		if err != nil {
			return nil, fmt.Errorf("ExportGenesis: %w", err)
		}
		gs.Pools = append(gs.Pools, *pool)

		if err := k.iterateShares(k.root, pool.Id, func(provider string, shares math.Int) bool {
			gs.Shares = append(gs.Shares, types.SharePosition{
				PoolId:   pool.Id,
				Provider: provider,
				Shares:   shares,
			})
			return false
		}); err != nil {
			return nil, fmt.Errorf("ExportGenesis: pool %d shares: %w", pool.Id, err)
		}
	}

	feeIter := storetypes.KVStorePrefixIterator(k.root, ProtocolFeeKeyPrefix)
	defer feeIter.Close()
	for ; feeIter.Valid(); feeIter.Next() {
		amount, err := unmarshalInt(feeIter.Value())
		if err != nil {
			return nil, fmt.Errorf("ExportGenesis: fee balance: %w", err)
		}
		gs.ProtocolFees = append(gs.ProtocolFees, types.FeeBalance{
			Denom:  string(feeIter.Key()[len(ProtocolFeeKeyPrefix):]),
			Amount: amount,
		})
	}
	sort.Slice(gs.ProtocolFees, func(i, j int) bool {
		return gs.ProtocolFees[i].Denom < gs.ProtocolFees[j].Denom
	})

	cb, err := k.getCircuitBreaker(k.root)
	if err != nil {
		return nil, err
	}
	gs.CircuitBreaker = cb

	if bz := k.root.Get(PausedKey); bz != nil && bz[0] == 1 {
		gs.Paused = true
	}

	return gs, nil
}

// ImportGenesis loads a previously exported state into an empty engine. The
// whole import runs on one branch and commits only if every record validates.
func (k *Keeper) ImportGenesis(_ context.Context, gs *types.GenesisState) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := gs.Validate(); err != nil {
		return err
	}

	branch := k.branch()

	if err := k.setParams(branch, gs.Params); err != nil {
		return err
	}

	countBz := make([]byte, 8)
	binary.BigEndian.PutUint64(countBz, gs.NextPoolId)
	branch.Set(PoolCountKey, countBz)

	for i := range gs.Pools {
		pool := &gs.Pools[i]
		if err := k.setPool(branch, pool); err != nil {
			return fmt.Errorf("ImportGenesis: pool %d: %w", pool.Id, err)
		}
		k.setPoolByAsset(branch, pool.AssetId, pool.Route, pool.Id)
	}

	for _, pos := range gs.Shares {
		if err := k.setShares(branch, pos.PoolId, pos.Provider, pos.Shares); err != nil {
			return fmt.Errorf("ImportGenesis: shares for %s in pool %d: %w", pos.Provider, pos.PoolId, err)
		}
	}

	for _, fee := range gs.ProtocolFees {
		if fee.Amount.IsZero() {
			continue
		}
		bz, err := marshalInt(fee.Amount)
		if err != nil {
			return fmt.Errorf("ImportGenesis: fee balance %s: %w", fee.Denom, err)
		}
		branch.Set(ProtocolFeeKey(fee.Denom), bz)
	}

	if err := k.setCircuitBreaker(branch, gs.CircuitBreaker); err != nil {
		return err
	}
	if gs.Paused {
		branch.Set(PausedKey, []byte{1})
	}

	branch.Write()
	return nil
}
