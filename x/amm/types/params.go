package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// Params holds the engine's tunable parameters.
type Params struct {
	// SwapFeeBps is the trading fee in basis points, applied to the input
	// amount before the output is quoted.
	SwapFeeBps uint64 `json:"swap_fee_bps"`

	// ProtocolFeeShareBps is the protocol's share of the swap fee in basis
	// points of the fee itself. The remainder stays in the pool.
	ProtocolFeeShareBps uint64 `json:"protocol_fee_share_bps"`

	// PriceImpactThresholdBps trips the circuit breaker when a swap's input
	// exceeds this fraction of the input-side reserve.
	PriceImpactThresholdBps uint64 `json:"price_impact_threshold_bps"`

	// BreakerCooldown is the minimum time between a breaker trip and a
	// successful reset.
	BreakerCooldown time.Duration `json:"breaker_cooldown"`

	// MinInitialShares is the minimum-liquidity floor for pool creation.
	// Prevents share-price manipulation via dust-sized first deposits.
	MinInitialShares math.Int `json:"min_initial_shares"`

	// VolumeWindow is the rolling volume accounting window.
	VolumeWindow time.Duration `json:"volume_window"`

	// MaxDeadlineHorizon bounds how far in the future a caller-supplied
	// deadline may lie.
	MaxDeadlineHorizon time.Duration `json:"max_deadline_horizon"`
}

// DefaultParams returns the production defaults for the engine.
func DefaultParams() Params {
	return Params{
		SwapFeeBps:              30,   // 0.3%
		ProtocolFeeShareBps:     5000, // half of the fee
		PriceImpactThresholdBps: 2000, // 20%
		BreakerCooldown:         time.Hour,
		MinInitialShares:        math.NewInt(1000),
		VolumeWindow:            24 * time.Hour,
		MaxDeadlineHorizon:      time.Hour,
	}
}

// Validate performs basic sanity checks on the parameter set.
func (p Params) Validate() error {
	if p.SwapFeeBps >= BasisPointsDenom {
		return fmt.Errorf("swap fee %d bps must be below %d", p.SwapFeeBps, BasisPointsDenom)
	}
	if p.ProtocolFeeShareBps > BasisPointsDenom {
		return fmt.Errorf("protocol fee share %d bps exceeds %d", p.ProtocolFeeShareBps, BasisPointsDenom)
	}
	if p.PriceImpactThresholdBps == 0 || p.PriceImpactThresholdBps > BasisPointsDenom {
		return fmt.Errorf("price impact threshold %d bps out of range (0, %d]", p.PriceImpactThresholdBps, BasisPointsDenom)
	}
	if p.BreakerCooldown <= 0 {
		return fmt.Errorf("breaker cooldown must be positive, got %s", p.BreakerCooldown)
	}
	if p.MinInitialShares.IsNil() || !p.MinInitialShares.IsPositive() {
		return fmt.Errorf("minimum initial shares must be positive")
	}
	if p.VolumeWindow <= 0 {
		return fmt.Errorf("volume window must be positive, got %s", p.VolumeWindow)
	}
	if p.MaxDeadlineHorizon <= 0 {
		return fmt.Errorf("max deadline horizon must be positive, got %s", p.MaxDeadlineHorizon)
	}
	return nil
}
