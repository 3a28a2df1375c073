package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// AddLiquidity deposits into an existing pool at the current reserve ratio.
//
// The caller supplies the base-side amount; the engine derives the matching
// asset amount (no single-sided deposits). maxSlippageBps bounds the derived
// asset amount relative to the current asset reserve; zero disables the bound.
// Minted shares are baseAmount * totalShares / reserveBase.
func (k *Keeper) AddLiquidity(ctx context.Context, provider string, poolID uint64, baseAmount math.Int, maxSlippageBps uint64) (shares, assetAmount math.Int, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	branch := k.branch()
	if err := k.requireMutable(ctx, branch); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	if provider == "" {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInvalidInput.Wrap("provider cannot be empty")
	}
	if baseAmount.IsNil() || !baseAmount.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInvalidInput.Wrap("base amount must be positive")
	}

	pool, err := k.getPool(branch, poolID)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	// Proportional deposit: assetAmount / reserveAsset == baseAmount / reserveBase
	assetAmount = baseAmount.Mul(pool.ReserveAsset).Quo(pool.ReserveBase)
	if assetAmount.IsZero() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInvalidInput.Wrap("deposit too small for current reserves")
	}

	if maxSlippageBps > 0 {
		impact := types.PriceImpactBps(assetAmount, pool.ReserveAsset)
		if impact.GT(math.NewIntFromUint64(maxSlippageBps)) {
			return math.ZeroInt(), math.ZeroInt(), types.ErrSlippageExceeded.Wrapf(
				"implied deposit impact %s bps exceeds bound %d bps", impact, maxSlippageBps,
			)
		}
	}

	shares = baseAmount.Mul(pool.TotalShares).Quo(pool.ReserveBase)
	if shares.IsZero() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInsufficientLiquidity.Wrap("deposit mints zero shares")
	}

	// Accrue the price accumulator before mutating reserves; a proportional
	// deposit does not move the price.
	k.accruePrice(pool)
	if err := k.recordObservation(branch, pool); err != nil {
		return math.ZeroInt(), math.ZeroInt(), fmt.Errorf("AddLiquidity: record observation: %w", err)
	}

	pool.ReserveBase = pool.ReserveBase.Add(baseAmount)
	pool.ReserveAsset = pool.ReserveAsset.Add(assetAmount)
	pool.TotalShares = pool.TotalShares.Add(shares)

	current, err := k.getShares(branch, poolID, provider)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	if err := k.setShares(branch, poolID, provider, current.Add(shares)); err != nil {
		return math.ZeroInt(), math.ZeroInt(), fmt.Errorf("AddLiquidity: set shares: %w", err)
	}
	if err := k.setPool(branch, pool); err != nil {
		return math.ZeroInt(), math.ZeroInt(), fmt.Errorf("AddLiquidity: save pool: %w", err)
	}

	coins := sdk.NewCoins(sdk.NewCoin(pool.BaseDenom, baseAmount), sdk.NewCoin(pool.AssetId, assetAmount))
	if err := k.bank.SendCoins(ctx, provider, types.ModuleAddress, coins); err != nil {
		return math.ZeroInt(), math.ZeroInt(), types.ErrTransferFailed.Wrapf("failed to transfer deposit: %v", err)
	}

	branch.Write()

	k.emit(types.EventTypeAddLiquidity,
		types.AttributeKeyPoolID, poolID,
		types.AttributeKeyProvider, provider,
		types.AttributeKeyBaseAmount, baseAmount.String(),
		types.AttributeKeyAssetAmt, assetAmount.String(),
		types.AttributeKeyShares, shares.String(),
	)
	k.metrics.LiquidityAdded.WithLabelValues(fmt.Sprintf("%d", poolID), pool.BaseDenom).Add(intToFloat(baseAmount))

	return shares, assetAmount, nil
}

// RemoveLiquidity burns a provider's shares and returns both reserve sides
// pro-rata. Shares are burned and reserves decremented before any transfer
// leaves the engine (effects before interactions).
func (k *Keeper) RemoveLiquidity(ctx context.Context, provider string, poolID uint64, shares math.Int) (baseOut, assetOut math.Int, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	branch := k.branch()
	if err := k.requireMutable(ctx, branch); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	if shares.IsNil() || !shares.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInvalidInput.Wrap("shares must be positive")
	}

	pool, err := k.getPool(branch, poolID)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	owned, err := k.getShares(branch, poolID, provider)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	if shares.GT(owned) {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInsufficientShares.Wrapf("have %s, need %s", owned, shares)
	}

	baseOut = shares.Mul(pool.ReserveBase).Quo(pool.TotalShares)
	assetOut = shares.Mul(pool.ReserveAsset).Quo(pool.TotalShares)
	if baseOut.IsZero() || assetOut.IsZero() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInsufficientLiquidity.Wrap("withdrawal amounts round to zero")
	}

	k.accruePrice(pool)
	if err := k.recordObservation(branch, pool); err != nil {
		return math.ZeroInt(), math.ZeroInt(), fmt.Errorf("RemoveLiquidity: record observation: %w", err)
	}

	// Effects first: burn shares and shrink reserves, then transfer out.
	pool.ReserveBase = pool.ReserveBase.Sub(baseOut)
	pool.ReserveAsset = pool.ReserveAsset.Sub(assetOut)
	pool.TotalShares = pool.TotalShares.Sub(shares)

	if pool.TotalShares.IsPositive() && (pool.ReserveBase.IsZero() || pool.ReserveAsset.IsZero()) {
		return math.ZeroInt(), math.ZeroInt(), types.ErrInvariantViolation.Wrap("withdrawal would drain a live pool reserve")
	}

	if err := k.setShares(branch, poolID, provider, owned.Sub(shares)); err != nil {
		return math.ZeroInt(), math.ZeroInt(), fmt.Errorf("RemoveLiquidity: set shares: %w", err)
	}
	if err := k.setPool(branch, pool); err != nil {
		return math.ZeroInt(), math.ZeroInt(), fmt.Errorf("RemoveLiquidity: save pool: %w", err)
	}

	coins := sdk.NewCoins(sdk.NewCoin(pool.BaseDenom, baseOut), sdk.NewCoin(pool.AssetId, assetOut))
	if err := k.bank.SendCoins(ctx, types.ModuleAddress, provider, coins); err != nil {
		return math.ZeroInt(), math.ZeroInt(), types.ErrTransferFailed.Wrapf("failed to transfer withdrawal: %v", err)
	}

	branch.Write()

	k.emit(types.EventTypeRemoveLiquidity,
		types.AttributeKeyPoolID, poolID,
		types.AttributeKeyProvider, provider,
		types.AttributeKeyBaseAmount, baseOut.String(),
		types.AttributeKeyAssetAmt, assetOut.String(),
		types.AttributeKeyShares, shares.String(),
	)
	k.metrics.LiquidityRemoved.WithLabelValues(fmt.Sprintf("%d", poolID), pool.BaseDenom).Add(intToFloat(baseOut))

	return baseOut, assetOut, nil
}
