package keeper

import (
	"context"
	"encoding/binary"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// nextPoolID returns the next pool ID and increments the counter.
func (k *Keeper) nextPoolID(store storetypes.KVStore) uint64 {
	bz := store.Get(PoolCountKey)

	var poolID uint64 = 1
	if bz != nil {
		poolID = binary.BigEndian.Uint64(bz)
	}

	nextBz := make([]byte, 8)
	binary.BigEndian.PutUint64(nextBz, poolID+1)
	store.Set(PoolCountKey, nextBz)

	return poolID
}

// CreatePool creates a liquidity pool for a listed asset on one route and
// seeds it with the creator's initial deposit.
//
// Initial shares are the geometric mean sqrt(baseAmount*assetAmount); deposits
// whose shares fall below the minimum-liquidity floor are rejected to prevent
// share-price manipulation through dust-sized first deposits.
func (k *Keeper) CreatePool(ctx context.Context, creator, assetID string, route types.RouteType, baseAmount, assetAmount math.Int) (*types.Pool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	branch := k.branch()
	if err := k.requireMutable(ctx, branch); err != nil {
		return nil, err
	}

	// 1. Input validation
	if creator == "" {
		return nil, types.ErrInvalidInput.Wrap("creator cannot be empty")
	}
	if assetID == "" {
		return nil, types.ErrInvalidInput.Wrap("asset id cannot be empty")
	}
	baseDenom, err := k.baseDenomForRoute(route)
	if err != nil {
		return nil, err
	}
	if assetID == k.nativeDenom || assetID == k.utilityDenom {
		return nil, types.ErrInvalidInput.Wrapf("asset %s cannot be a settlement denom", assetID)
	}
	if baseAmount.IsNil() || !baseAmount.IsPositive() {
		return nil, types.ErrInvalidInput.Wrap("base amount must be positive")
	}
	if assetAmount.IsNil() || !assetAmount.IsPositive() {
		return nil, types.ErrInvalidInput.Wrap("asset amount must be positive")
	}

	// 2. Reject duplicate pools. A pool with zero total shares does not
	// exist for this check.
	if existing, err := k.getPoolByAsset(branch, assetID, route); err == nil && existing.Exists() {
		return nil, types.ErrPoolAlreadyExists.Wrapf("pool for %s on %s route already exists", assetID, route)
	}

	params, err := k.getParams(branch)
	if err != nil {
		return nil, err
	}

	// 3. Initial shares via geometric mean
	initialShares := types.IntegerSqrt(baseAmount.Mul(assetAmount))
	if initialShares.LTE(params.MinInitialShares) {
		return nil, types.ErrInsufficientLiquidity.Wrapf(
			"initial shares %s at or below minimum floor %s",
			initialShares, params.MinInitialShares,
		)
	}

	now := k.now().Unix()
	poolID := k.nextPoolID(branch)

	pool := &types.Pool{
		Id:                  poolID,
		AssetId:             assetID,
		Route:               route,
		BaseDenom:           baseDenom,
		ReserveBase:         baseAmount,
		ReserveAsset:        assetAmount,
		TotalShares:         initialShares,
		LastPrice:           math.LegacyNewDecFromInt(baseAmount).Quo(math.LegacyNewDecFromInt(assetAmount)),
		CumulativePrice:     math.LegacyZeroDec(),
		LastPriceUpdateTime: now,
		PriceTotalSeconds:   0,
		VolumeWindow:        math.ZeroInt(),
		VolumeWindowStart:   now,
		FeeAccrued:          math.ZeroInt(),
		Creator:             creator,
	}

	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("CreatePool: validate pool state: %w", err)
	}

	// 4. Transfer funding before persisting (checks-effects-interactions)
	coins := sdk.NewCoins(sdk.NewCoin(baseDenom, baseAmount), sdk.NewCoin(assetID, assetAmount))
	if err := k.bank.SendCoins(ctx, creator, types.ModuleAddress, coins); err != nil {
		return nil, types.ErrTransferFailed.Wrapf("failed to fund pool: %v", err)
	}

	// 5. Persist pool, index, and the creator's share position
	if err := k.setPool(branch, pool); err != nil {
		return nil, fmt.Errorf("CreatePool: save pool: %w", err)
	}
	k.setPoolByAsset(branch, assetID, route, poolID)
	if err := k.setShares(branch, poolID, creator, initialShares); err != nil {
		return nil, fmt.Errorf("CreatePool: set creator shares: %w", err)
	}
	if err := k.recordObservation(branch, pool); err != nil {
		return nil, fmt.Errorf("CreatePool: record observation: %w", err)
	}

	branch.Write()

	k.emit(types.EventTypePoolCreated,
		types.AttributeKeyPoolID, poolID,
		types.AttributeKeyAssetID, assetID,
		types.AttributeKeyRoute, string(route),
		types.AttributeKeyProvider, creator,
		types.AttributeKeyBaseAmount, baseAmount.String(),
		types.AttributeKeyAssetAmt, assetAmount.String(),
		types.AttributeKeyShares, initialShares.String(),
		types.AttributeKeyPrice, pool.LastPrice.String(),
	)
	k.metrics.PoolsTotal.Inc()

	return pool, nil
}

// GetPool retrieves a pool by its numeric ID.
func (k *Keeper) GetPool(_ context.Context, poolID uint64) (*types.Pool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.getPool(k.root, poolID)
}

func (k *Keeper) getPool(store storetypes.KVStore, poolID uint64) (*types.Pool, error) {
	bz := store.Get(PoolKey(poolID))
	if bz == nil {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d not found", poolID)
	}
	pool, err := unmarshalPool(bz)
	if err != nil {
		return nil, fmt.Errorf("getPool %d: %w", poolID, err)
	}
	if !pool.Exists() {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d has no liquidity", poolID)
	}
	return pool, nil
}

func (k *Keeper) setPool(store storetypes.KVStore, pool *types.Pool) error {
	bz, err := marshalPool(pool)
	if err != nil {
		return err
	}
	store.Set(PoolKey(pool.Id), bz)
	return nil
}

// GetPoolByAsset retrieves the pool for a listed asset on a route.
func (k *Keeper) GetPoolByAsset(_ context.Context, assetID string, route types.RouteType) (*types.Pool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.getPoolByAsset(k.root, assetID, route)
}

func (k *Keeper) getPoolByAsset(store storetypes.KVStore, assetID string, route types.RouteType) (*types.Pool, error) {
	bz := store.Get(PoolByAssetKey(assetID, route))
	if bz == nil {
		return nil, types.ErrPoolNotFound.Wrapf("no pool for %s on %s route", assetID, route)
	}
	return k.getPool(store, binary.BigEndian.Uint64(bz))
}

func (k *Keeper) setPoolByAsset(store storetypes.KVStore, assetID string, route types.RouteType, poolID uint64) {
	poolIDBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(poolIDBytes, poolID)
	store.Set(PoolByAssetKey(assetID, route), poolIDBytes)
}

// MaxIterationLimit caps unbounded pool listings.
const MaxIterationLimit = 100

// GetAllPools returns up to MaxIterationLimit pools.
func (k *Keeper) GetAllPools(_ context.Context) ([]types.Pool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	pools := make([]types.Pool, 0, MaxIterationLimit)
	iterator := storetypes.KVStorePrefixIterator(k.root, PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		if len(pools) >= MaxIterationLimit {
			break
		}
		pool, err := unmarshalPool(iterator.Value())
		if err != nil {
			return nil, fmt.Errorf("GetAllPools: %w", err)
		}
		pools = append(pools, *pool)
	}
	return pools, nil
}

// --- provider share positions ---

// GetProviderShares returns a provider's share balance in a pool. A missing
// position reads as zero.
func (k *Keeper) GetProviderShares(_ context.Context, poolID uint64, provider string) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.getShares(k.root, poolID, provider)
}

func (k *Keeper) getShares(store storetypes.KVStore, poolID uint64, provider string) (math.Int, error) {
	bz := store.Get(SharesKey(poolID, provider))
	if bz == nil {
		return math.ZeroInt(), nil
	}
	return unmarshalInt(bz)
}

func (k *Keeper) setShares(store storetypes.KVStore, poolID uint64, provider string, shares math.Int) error {
	if shares.IsZero() {
		store.Delete(SharesKey(poolID, provider))
		return nil
	}
	bz, err := marshalInt(shares)
	if err != nil {
		return err
	}
	store.Set(SharesKey(poolID, provider), bz)
	return nil
}

// iterateShares walks all share positions in a pool.
func (k *Keeper) iterateShares(store storetypes.KVStore, poolID uint64, cb func(provider string, shares math.Int) (stop bool)) error {
	prefix := SharesByPoolPrefix(poolID)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		shares, err := unmarshalInt(iterator.Value())
		if err != nil {
			return err
		}
		provider := string(iterator.Key()[len(prefix):])
		if cb(provider, shares) {
			break
		}
	}
	return nil
}
