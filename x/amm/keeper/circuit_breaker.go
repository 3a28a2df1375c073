package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// getCircuitBreaker reads the engine-global breaker state. Absence reads as
// inactive with a zero reset time.
func (k *Keeper) getCircuitBreaker(store storetypes.KVStore) (types.CircuitBreakerState, error) {
	bz := store.Get(CircuitBreakerKey)
	if bz == nil {
		return types.CircuitBreakerState{}, nil
	}
	var cb types.CircuitBreakerState
	if err := json.Unmarshal(bz, &cb); err != nil {
		return types.CircuitBreakerState{}, fmt.Errorf("getCircuitBreaker: unmarshal: %w", err)
	}
	return cb, nil
}

func (k *Keeper) setCircuitBreaker(store storetypes.KVStore, cb types.CircuitBreakerState) error {
	bz, err := json.Marshal(cb)
	if err != nil {
		return fmt.Errorf("setCircuitBreaker: marshal: %w", err)
	}
	store.Set(CircuitBreakerKey, bz)
	return nil
}

// tripBreaker activates the breaker directly on the root store. The swap that
// tripped it aborts, but the flag must survive the abort: this is the one
// failure that leaves a durable side effect. Caller must hold the engine lock.
func (k *Keeper) tripBreaker(poolID uint64, reason string) {
	cb := types.CircuitBreakerState{
		Active:        true,
		TriggerReason: reason,
		TriggerPoolId: poolID,
		LastResetTime: k.now().Unix(),
	}
	if err := k.setCircuitBreaker(k.root, cb); err != nil {
		k.logger.Error("failed to persist circuit breaker trip", "pool_id", poolID, "error", err)
		return
	}

	k.emit(types.EventTypeCircuitBreakerTripped,
		types.AttributeKeyPoolID, poolID,
		types.AttributeKeyReason, reason,
	)
	k.metrics.BreakerActive.Set(1)
	k.metrics.BreakerTrips.Inc()
}

// CircuitBreaker returns the current breaker state.
func (k *Keeper) CircuitBreaker(_ context.Context) (types.CircuitBreakerState, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.getCircuitBreaker(k.root)
}

// ResetCircuitBreaker clears an active breaker. Anyone may call it, but not
// before the cooldown since the trip has elapsed.
func (k *Keeper) ResetCircuitBreaker(_ context.Context, caller string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	branch := k.branch()
	cb, err := k.getCircuitBreaker(branch)
	if err != nil {
		return err
	}
	if !cb.Active {
		return types.ErrInvalidInput.Wrap("circuit breaker is not active")
	}

	params, err := k.getParams(branch)
	if err != nil {
		return err
	}

	now := k.now().Unix()
	resumeAt := cb.LastResetTime + int64(params.BreakerCooldown.Seconds())
	if now < resumeAt {
		return types.ErrCooldownActive.Wrapf(
			"cooldown active for another %ds", resumeAt-now,
		)
	}

	cb.Active = false
	cb.TriggerReason = ""
	cb.TriggerPoolId = 0
	cb.LastResetTime = now
	if err := k.setCircuitBreaker(branch, cb); err != nil {
		return err
	}

	branch.Write()

	k.emit(types.EventTypeCircuitBreakerReset, "caller", caller)
	k.metrics.BreakerActive.Set(0)
	return nil
}
