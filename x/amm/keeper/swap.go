package keeper

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// legResult carries the outcome of one pool-internal swap leg.
type legResult struct {
	amountOut   math.Int
	feeTotal    math.Int
	protocolFee math.Int
	poolFee     math.Int
	impactBps   math.Int
	tokenOut    string
}

// swapLeg quotes and applies one single-hop swap against a pool held in the
// given branch. It mutates the pool struct and the branch's protocol fee
// ledger but performs no external transfers; committing is the caller's job.
//
// Order of operations is fixed and must not be reordered: the fee comes off
// the input before quoting, the quote is checked against minAmountOut and the
// reserves, and only then does the price impact gate the circuit breaker. A
// swap that fails its own quote never reaches the breaker. Tests depend on
// the exact integer results. Pass a nil or zero minAmountOut for legs whose
// output is not caller-bounded.
func (k *Keeper) swapLeg(branch storeBranch, pool *types.Pool, tokenIn string, amountIn, minAmountOut math.Int, params types.Params) (legResult, error) {
	var res legResult

	var reserveIn, reserveOut math.Int
	var baseIn bool
	switch tokenIn {
	case pool.BaseDenom:
		reserveIn, reserveOut = pool.ReserveBase, pool.ReserveAsset
		res.tokenOut = pool.AssetId
		baseIn = true
	case pool.AssetId:
		reserveIn, reserveOut = pool.ReserveAsset, pool.ReserveBase
		res.tokenOut = pool.BaseDenom
	default:
		return res, types.ErrInvalidInput.Wrapf(
			"token %s not in pool %d (%s/%s)", tokenIn, pool.Id, pool.BaseDenom, pool.AssetId,
		)
	}

	amountInAfterFee, feeTotal := types.ApplyFeeBps(amountIn, params.SwapFeeBps)
	if amountInAfterFee.IsZero() {
		return res, types.ErrInvalidInput.Wrap("swap amount too small after fees")
	}

	amountOut, err := types.GetAmountOut(amountInAfterFee, reserveIn, reserveOut)
	if err != nil {
		return res, err
	}
	if amountOut.IsZero() {
		return res, types.ErrInsufficientLiquidity.Wrap("output amount rounds to zero")
	}
	if amountOut.GTE(reserveOut) {
		return res, types.ErrInsufficientLiquidity.Wrapf(
			"output %s would drain reserve %s", amountOut, reserveOut,
		)
	}
	if !minAmountOut.IsNil() && amountOut.LT(minAmountOut) {
		return res, types.ErrSlippageExceeded.Wrapf(
			"expected at least %s, got %s", minAmountOut, amountOut,
		)
	}

	// Price impact is computed on the raw input, before the fee comes off.
	res.impactBps = types.PriceImpactBps(amountIn, reserveIn)
	if res.impactBps.GT(math.NewIntFromUint64(params.PriceImpactThresholdBps)) {
		return res, types.ErrCircuitBreakerTripped.Wrapf(
			"price impact %s bps exceeds threshold %d bps", res.impactBps, params.PriceImpactThresholdBps,
		)
	}

	protocolFee, poolFee := types.SplitFeeBps(feeTotal, params.ProtocolFeeShareBps)

	// The pool keeps its half of the fee inside the input reserve; the
	// protocol's half is carved out of what the pool receives.
	oldK := pool.ReserveBase.Mul(pool.ReserveAsset)
	if baseIn {
		pool.ReserveBase = pool.ReserveBase.Add(amountIn).Sub(protocolFee)
		pool.ReserveAsset = pool.ReserveAsset.Sub(amountOut)
	} else {
		pool.ReserveAsset = pool.ReserveAsset.Add(amountIn).Sub(protocolFee)
		pool.ReserveBase = pool.ReserveBase.Sub(amountOut)
	}
	pool.FeeAccrued = pool.FeeAccrued.Add(poolFee)

	// Net of the extracted protocol fee, k never decreases.
	newK := pool.ReserveBase.Mul(pool.ReserveAsset)
	if newK.LT(oldK) {
		return res, types.ErrInvariantViolation.Wrapf(
			"constant product decreased: old_k=%s new_k=%s", oldK, newK,
		)
	}

	if err := k.addProtocolFee(branch, tokenIn, protocolFee); err != nil {
		return res, err
	}

	// Volume is accounted on the base side of the trade.
	baseVolume := amountIn
	if !baseIn {
		baseVolume = amountOut
	}
	if err := k.recordSwapStats(branch, pool, baseVolume, params); err != nil {
		return res, err
	}

	res.amountOut = amountOut
	res.feeTotal = feeTotal
	res.protocolFee = protocolFee
	res.poolFee = poolFee
	return res, nil
}

// ExecuteSwap performs a single-hop swap in either direction within one pool.
//
// The call proceeds Validate -> Quote -> CircuitBreakerCheck -> Mutate ->
// Transfer -> Emit. Any failure aborts with no state change, with one
// exception: a price impact above the breaker threshold durably activates the
// engine-global circuit breaker before the swap aborts.
func (k *Keeper) ExecuteSwap(ctx context.Context, trader string, poolID uint64, tokenIn string, amountIn, minAmountOut math.Int, deadline int64) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	start := time.Now()
	defer func() {
		k.metrics.SwapLatency.Observe(time.Since(start).Seconds())
	}()

	out, err := k.executeSwapLocked(ctx, trader, poolID, tokenIn, amountIn, minAmountOut, deadline)
	status := "success"
	if err != nil {
		status = "failed"
	}
	k.metrics.SwapsTotal.WithLabelValues(fmt.Sprintf("%d", poolID), tokenIn, status).Inc()
	return out, err
}

func (k *Keeper) executeSwapLocked(ctx context.Context, trader string, poolID uint64, tokenIn string, amountIn, minAmountOut math.Int, deadline int64) (math.Int, error) {
	branch := k.branch()

	// Validate
	if err := k.requireMutable(ctx, branch); err != nil {
		return math.ZeroInt(), err
	}
	if trader == "" {
		return math.ZeroInt(), types.ErrInvalidInput.Wrap("trader cannot be empty")
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.ZeroInt(), types.ErrInvalidInput.Wrap("swap amount must be positive")
	}
	params, err := k.getParams(branch)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.checkDeadline(deadline, params.MaxDeadlineHorizon); err != nil {
		return math.ZeroInt(), err
	}

	pool, err := k.getPool(branch, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}

	// Quote + CircuitBreakerCheck + Mutate (pool-internal)
	res, err := k.swapLeg(branch, pool, tokenIn, amountIn, minAmountOut, params)
	if err != nil {
		if errors.IsOf(err, types.ErrCircuitBreakerTripped) {
			k.tripBreaker(poolID, err.Error())
		}
		return math.ZeroInt(), err
	}

	if err := k.setPool(branch, pool); err != nil {
		return math.ZeroInt(), fmt.Errorf("ExecuteSwap: save pool: %w", err)
	}

	// Transfer: input in, output out. A failure on either side aborts the
	// branch, leaving reserves untouched.
	coinIn := sdk.NewCoins(sdk.NewCoin(tokenIn, amountIn))
	if err := k.bank.SendCoins(ctx, trader, types.ModuleAddress, coinIn); err != nil {
		return math.ZeroInt(), types.ErrTransferFailed.Wrapf("input transfer: %v", err)
	}
	coinOut := sdk.NewCoins(sdk.NewCoin(res.tokenOut, res.amountOut))
	if err := k.bank.SendCoins(ctx, types.ModuleAddress, trader, coinOut); err != nil {
		if revertErr := k.bank.SendCoins(ctx, types.ModuleAddress, trader, coinIn); revertErr != nil {
			k.logger.Error("failed to revert input transfer after output failure",
				"pool_id", poolID, "trader", trader, "error", revertErr)
		}
		return math.ZeroInt(), types.ErrTransferFailed.Wrapf("output transfer: %v", err)
	}

	branch.Write()

	// Emit
	k.emit(types.EventTypeSwap,
		types.AttributeKeyPoolID, poolID,
		types.AttributeKeyTrader, trader,
		types.AttributeKeyAmountIn, amountIn.String(),
		types.AttributeKeyAmountOut, res.amountOut.String(),
		types.AttributeKeyFee, res.feeTotal.String(),
		types.AttributeKeyPrice, pool.LastPrice.String(),
	)
	poolIDStr := fmt.Sprintf("%d", poolID)
	k.metrics.SwapVolume.WithLabelValues(poolIDStr, tokenIn).Add(intToFloat(amountIn))
	k.metrics.SwapFees.WithLabelValues(poolIDStr, tokenIn).Add(intToFloat(res.feeTotal))

	return res.amountOut, nil
}

// SimulateSwap quotes a single-hop swap without mutating any state.
func (k *Keeper) SimulateSwap(_ context.Context, poolID uint64, tokenIn string, amountIn math.Int) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.ZeroInt(), types.ErrInvalidInput.Wrap("swap amount must be positive")
	}
	pool, err := k.getPool(k.root, poolID)
	if err != nil {
		return math.ZeroInt(), err
	}
	params, err := k.getParams(k.root)
	if err != nil {
		return math.ZeroInt(), err
	}
	return quoteLeg(pool, tokenIn, amountIn, params)
}

// quoteLeg is the pure quoting half of swapLeg: same fee handling, no
// mutation. Quoting twice with identical state yields identical outputs.
func quoteLeg(pool *types.Pool, tokenIn string, amountIn math.Int, params types.Params) (math.Int, error) {
	var reserveIn, reserveOut math.Int
	switch tokenIn {
	case pool.BaseDenom:
		reserveIn, reserveOut = pool.ReserveBase, pool.ReserveAsset
	case pool.AssetId:
		reserveIn, reserveOut = pool.ReserveAsset, pool.ReserveBase
	default:
		return math.ZeroInt(), types.ErrInvalidInput.Wrapf(
			"token %s not in pool %d (%s/%s)", tokenIn, pool.Id, pool.BaseDenom, pool.AssetId,
		)
	}

	amountInAfterFee, _ := types.ApplyFeeBps(amountIn, params.SwapFeeBps)
	if amountInAfterFee.IsZero() {
		return math.ZeroInt(), types.ErrInvalidInput.Wrap("swap amount too small after fees")
	}
	amountOut, err := types.GetAmountOut(amountInAfterFee, reserveIn, reserveOut)
	if err != nil {
		return math.ZeroInt(), err
	}
	if amountOut.GTE(reserveOut) {
		return math.ZeroInt(), types.ErrInsufficientLiquidity.Wrapf(
			"output %s would drain reserve %s", amountOut, reserveOut,
		)
	}
	return amountOut, nil
}

// GetSpotPrice returns the pool's current reserveBase/reserveAsset price.
func (k *Keeper) GetSpotPrice(_ context.Context, poolID uint64) (math.LegacyDec, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	pool, err := k.getPool(k.root, poolID)
	if err != nil {
		return math.LegacyZeroDec(), err
	}
	return pool.SpotPrice(), nil
}

func intToFloat(v math.Int) float64 {
	f, err := v.ToLegacyDec().Float64()
	if err != nil {
		return 0
	}
	return f
}
