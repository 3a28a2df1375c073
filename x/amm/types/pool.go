package types

import (
	"cosmossdk.io/math"
)

// Pool is one constant-product reserve pair for a listed asset on a single
// route. A listed asset can have at most two pools: one priced in the native
// settlement asset and one priced in the utility token.
//
// Provider share balances are deliberately NOT part of this struct; they live
// in their own (poolID, provider) keyed table so the pool value stays cheap to
// copy and marshal.
type Pool struct {
	Id        uint64    `json:"id"`
	AssetId   string    `json:"asset_id"`
	Route     RouteType `json:"route"`
	BaseDenom string    `json:"base_denom"`

	ReserveBase  math.Int `json:"reserve_base"`
	ReserveAsset math.Int `json:"reserve_asset"`
	TotalShares  math.Int `json:"total_shares"`

	// LastPrice is reserveBase/reserveAsset after the most recent mutation.
	LastPrice math.LegacyDec `json:"last_price"`

	// CumulativePrice accumulates lastPrice * elapsed-seconds between
	// mutations; divided by total elapsed time it yields the TWAP.
	CumulativePrice     math.LegacyDec `json:"cumulative_price"`
	LastPriceUpdateTime int64          `json:"last_price_update_time"`
	PriceTotalSeconds   uint64         `json:"price_total_seconds"`

	// VolumeWindow counts base-side input volume inside the current window.
	// The counter resets (it does not decay) once the window fully elapses.
	VolumeWindow      math.Int `json:"volume_window"`
	VolumeWindowStart int64    `json:"volume_window_start"`

	// FeeAccrued is the pool-retained portion of swap fees, folded into
	// reserves but tracked separately for reporting.
	FeeAccrued math.Int `json:"fee_accrued"`

	Creator string `json:"creator"`
}

// Exists reports whether the pool is live. A pool with zero total shares is
// treated as nonexistent by every other operation.
func (p *Pool) Exists() bool {
	return p != nil && !p.TotalShares.IsNil() && p.TotalShares.IsPositive()
}

// SpotPrice returns reserveBase/reserveAsset.
func (p *Pool) SpotPrice() math.LegacyDec {
	if p.ReserveAsset.IsZero() {
		return math.LegacyZeroDec()
	}
	return math.LegacyNewDecFromInt(p.ReserveBase).Quo(math.LegacyNewDecFromInt(p.ReserveAsset))
}

// Validate checks the pool's structural invariants.
func (p *Pool) Validate() error {
	if p.AssetId == "" {
		return ErrInvalidInput.Wrap("pool asset id cannot be empty")
	}
	if !p.Route.Valid() {
		return ErrInvalidInput.Wrapf("unknown route type %q", p.Route)
	}
	if p.BaseDenom == "" {
		return ErrInvalidInput.Wrap("pool base denom cannot be empty")
	}
	if p.BaseDenom == p.AssetId {
		return ErrInvalidInput.Wrap("pool base denom must differ from asset id")
	}
	if p.ReserveBase.IsNil() || p.ReserveAsset.IsNil() || p.TotalShares.IsNil() {
		return ErrInvalidPoolState.Wrap("pool amounts must be initialized")
	}
	if p.ReserveBase.IsNegative() || p.ReserveAsset.IsNegative() || p.TotalShares.IsNegative() {
		return ErrInvalidPoolState.Wrap("pool amounts cannot be negative")
	}
	// A live pool is never drained to zero on one side.
	if p.TotalShares.IsPositive() && (p.ReserveBase.IsZero() || p.ReserveAsset.IsZero()) {
		return ErrInvalidPoolState.Wrap("live pool has a zero reserve")
	}
	if p.TotalShares.IsZero() && (!p.ReserveBase.IsZero() || !p.ReserveAsset.IsZero()) {
		return ErrInvalidPoolState.Wrap("pool has reserves but zero shares")
	}
	return nil
}

// CircuitBreakerState is the engine-global trading halt. One flag covers all
// pools even though price impact is computed per pool.
type CircuitBreakerState struct {
	Active        bool   `json:"active"`
	TriggerReason string `json:"trigger_reason,omitempty"`
	TriggerPoolId uint64 `json:"trigger_pool_id,omitempty"`

	// LastResetTime starts the cooldown clock. It is set both when the
	// breaker trips and when it is successfully reset.
	LastResetTime int64 `json:"last_reset_time"`
}

// RouteQuote is the result of simulating both two-hop routes between two
// listed assets.
type RouteQuote struct {
	NativeOut     math.Int `json:"native_out"`
	UtilityOut    math.Int `json:"utility_out"`
	NativeExists  bool     `json:"native_exists"`
	UtilityExists bool     `json:"utility_exists"`

	// PreferUtility is true iff the utility route's output is strictly
	// greater than the native route's.
	PreferUtility bool `json:"prefer_utility"`
}

// Best returns the output of the preferred route.
func (q RouteQuote) Best() math.Int {
	if q.PreferUtility {
		return q.UtilityOut
	}
	return q.NativeOut
}
