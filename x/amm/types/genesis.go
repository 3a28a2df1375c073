package types

import "cosmossdk.io/math"

// SharePosition is one provider's stake in one pool.
type SharePosition struct {
	PoolId   uint64   `json:"pool_id"`
	Provider string   `json:"provider"`
	Shares   math.Int `json:"shares"`
}

// FeeBalance is the uncollected protocol fee balance in one denom.
type FeeBalance struct {
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// GenesisState is the full exportable engine state.
type GenesisState struct {
	Params         Params              `json:"params"`
	NextPoolId     uint64              `json:"next_pool_id"`
	Pools          []Pool              `json:"pools"`
	Shares         []SharePosition     `json:"shares"`
	ProtocolFees   []FeeBalance        `json:"protocol_fees"`
	CircuitBreaker CircuitBreakerState `json:"circuit_breaker"`
	Paused         bool                `json:"paused"`
}

// DefaultGenesis returns an empty engine state with default parameters.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:     DefaultParams(),
		NextPoolId: 1,
	}
}

// Validate performs basic sanity checks on an imported state.
func (gs *GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := make(map[uint64]bool, len(gs.Pools))
	for i := range gs.Pools {
		pool := &gs.Pools[i]
		if seen[pool.Id] {
			return ErrInvalidInput.Wrapf("duplicate pool id %d", pool.Id)
		}
		seen[pool.Id] = true
		if pool.Id >= gs.NextPoolId {
			return ErrInvalidInput.Wrapf("pool id %d not below next pool id %d", pool.Id, gs.NextPoolId)
		}
		if pool.Exists() {
			if err := pool.Validate(); err != nil {
				return err
			}
		}
	}

	for _, pos := range gs.Shares {
		if !seen[pos.PoolId] {
			return ErrInvalidInput.Wrapf("share position references unknown pool %d", pos.PoolId)
		}
		if pos.Provider == "" {
			return ErrInvalidInput.Wrap("share position with empty provider")
		}
		if pos.Shares.IsNil() || !pos.Shares.IsPositive() {
			return ErrInvalidInput.Wrapf("non-positive share position in pool %d", pos.PoolId)
		}
	}

	for _, fee := range gs.ProtocolFees {
		if fee.Denom == "" {
			return ErrInvalidInput.Wrap("fee balance with empty denom")
		}
		if fee.Amount.IsNil() || fee.Amount.IsNegative() {
			return ErrInvalidInput.Wrapf("negative fee balance for %s", fee.Denom)
		}
	}
	return nil
}
