package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// QuoteRoutes independently quotes both two-hop paths between two listed
// assets: fromAsset -> native -> toAsset and fromAsset -> utility -> toAsset.
// Quoting mutates nothing. The utility route is preferred only when its output
// is strictly greater than the native route's.
func (k *Keeper) QuoteRoutes(_ context.Context, fromAsset, toAsset string, amountIn math.Int) (types.RouteQuote, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.quoteRoutes(k.root, fromAsset, toAsset, amountIn)
}

func (k *Keeper) quoteRoutes(store storeBranch, fromAsset, toAsset string, amountIn math.Int) (types.RouteQuote, error) {
	var quote types.RouteQuote

	if fromAsset == "" || toAsset == "" || fromAsset == toAsset {
		return quote, types.ErrInvalidInput.Wrapf("invalid asset pair %s/%s", fromAsset, toAsset)
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return quote, types.ErrInvalidInput.Wrap("swap amount must be positive")
	}

	params, err := k.getParams(store)
	if err != nil {
		return quote, err
	}

	quote.NativeOut, quote.NativeExists = k.quoteTwoHop(store, fromAsset, toAsset, amountIn, types.RouteNative, params)
	quote.UtilityOut, quote.UtilityExists = k.quoteTwoHop(store, fromAsset, toAsset, amountIn, types.RouteUtility, params)

	if !quote.NativeExists && !quote.UtilityExists {
		return quote, types.ErrNoRouteAvailable.Wrapf("no complete route between %s and %s", fromAsset, toAsset)
	}

	quote.PreferUtility = quote.UtilityExists &&
		(!quote.NativeExists || quote.UtilityOut.GT(quote.NativeOut))
	return quote, nil
}

// quoteTwoHop quotes fromAsset -> base -> toAsset along one route type. A
// missing pool or a hop that cannot be quoted marks the route as unavailable.
func (k *Keeper) quoteTwoHop(store storeBranch, fromAsset, toAsset string, amountIn math.Int, route types.RouteType, params types.Params) (math.Int, bool) {
	poolIn, err := k.getPoolByAsset(store, fromAsset, route)
	if err != nil {
		return math.ZeroInt(), false
	}
	poolOut, err := k.getPoolByAsset(store, toAsset, route)
	if err != nil {
		return math.ZeroInt(), false
	}

	baseOut, err := quoteLeg(poolIn, fromAsset, amountIn, params)
	if err != nil {
		return math.ZeroInt(), false
	}
	finalOut, err := quoteLeg(poolOut, poolOut.BaseDenom, baseOut, params)
	if err != nil {
		return math.ZeroInt(), false
	}
	return finalOut, true
}

// ExecuteSmartSwap swaps fromAsset for toAsset along the better of the two
// routes, executing both hops as one atomic transaction. The intermediate
// base-asset leg never leaves the engine's reserves; the only external
// transfers are the input coming in and the final output going out.
//
// A circuit breaker trip in either hop durably activates the breaker and
// aborts both hops.
func (k *Keeper) ExecuteSmartSwap(ctx context.Context, trader, fromAsset, toAsset string, amountIn, minAmountOut math.Int, deadline int64) (math.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	out, route, err := k.executeSmartSwapLocked(ctx, trader, fromAsset, toAsset, amountIn, minAmountOut, deadline)
	status := "success"
	if err != nil {
		status = "failed"
	}
	k.metrics.SmartSwapsTotal.WithLabelValues(string(route), status).Inc()
	return out, err
}

func (k *Keeper) executeSmartSwapLocked(ctx context.Context, trader, fromAsset, toAsset string, amountIn, minAmountOut math.Int, deadline int64) (math.Int, types.RouteType, error) {
	branch := k.branch()

	if err := k.requireMutable(ctx, branch); err != nil {
		return math.ZeroInt(), "", err
	}
	if trader == "" {
		return math.ZeroInt(), "", types.ErrInvalidInput.Wrap("trader cannot be empty")
	}

	params, err := k.getParams(branch)
	if err != nil {
		return math.ZeroInt(), "", err
	}
	if err := k.checkDeadline(deadline, params.MaxDeadlineHorizon); err != nil {
		return math.ZeroInt(), "", err
	}

	// Re-derive the preferred route at execution time; a quote taken earlier
	// may be stale.
	quote, err := k.quoteRoutes(branch, fromAsset, toAsset, amountIn)
	if err != nil {
		return math.ZeroInt(), "", err
	}
	route := types.RouteNative
	if quote.PreferUtility {
		route = types.RouteUtility
	}

	poolIn, err := k.getPoolByAsset(branch, fromAsset, route)
	if err != nil {
		return math.ZeroInt(), route, err
	}
	poolOut, err := k.getPoolByAsset(branch, toAsset, route)
	if err != nil {
		return math.ZeroInt(), route, err
	}

	// Hop 1: fromAsset -> base. The intermediate leg carries no caller bound;
	// minAmountOut applies to the final output only.
	resIn, err := k.swapLeg(branch, poolIn, fromAsset, amountIn, math.ZeroInt(), params)
	if err != nil {
		if errors.IsOf(err, types.ErrCircuitBreakerTripped) {
			k.tripBreaker(poolIn.Id, err.Error())
		}
		return math.ZeroInt(), route, err
	}

	// Hop 2: base -> toAsset
	resOut, err := k.swapLeg(branch, poolOut, poolOut.BaseDenom, resIn.amountOut, minAmountOut, params)
	if err != nil {
		if errors.IsOf(err, types.ErrCircuitBreakerTripped) {
			k.tripBreaker(poolOut.Id, err.Error())
		}
		return math.ZeroInt(), route, err
	}

	if err := k.setPool(branch, poolIn); err != nil {
		return math.ZeroInt(), route, fmt.Errorf("ExecuteSmartSwap: save input pool: %w", err)
	}
	if err := k.setPool(branch, poolOut); err != nil {
		return math.ZeroInt(), route, fmt.Errorf("ExecuteSmartSwap: save output pool: %w", err)
	}

	coinIn := sdk.NewCoins(sdk.NewCoin(fromAsset, amountIn))
	if err := k.bank.SendCoins(ctx, trader, types.ModuleAddress, coinIn); err != nil {
		return math.ZeroInt(), route, types.ErrTransferFailed.Wrapf("input transfer: %v", err)
	}
	coinOut := sdk.NewCoins(sdk.NewCoin(toAsset, resOut.amountOut))
	if err := k.bank.SendCoins(ctx, types.ModuleAddress, trader, coinOut); err != nil {
		if revertErr := k.bank.SendCoins(ctx, types.ModuleAddress, trader, coinIn); revertErr != nil {
			k.logger.Error("failed to revert input transfer after output failure",
				"trader", trader, "error", revertErr)
		}
		return math.ZeroInt(), route, types.ErrTransferFailed.Wrapf("output transfer: %v", err)
	}

	branch.Write()

	k.emit(types.EventTypeSmartSwap,
		types.AttributeKeyTrader, trader,
		"from_asset", fromAsset,
		"to_asset", toAsset,
		types.AttributeKeyRoute, string(route),
		types.AttributeKeyAmountIn, amountIn.String(),
		types.AttributeKeyAmountOut, resOut.amountOut.String(),
		types.AttributeKeyFee, resIn.feeTotal.Add(resOut.feeTotal).String(),
	)

	return resOut.amountOut, route, nil
}
