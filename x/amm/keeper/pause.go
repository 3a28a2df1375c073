package keeper

import (
	"context"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// Pause stops all mutating operations. Authority only.
func (k *Keeper) Pause(_ context.Context, caller string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("caller %s may not pause the engine", caller)
	}
	if bz := k.root.Get(PausedKey); bz != nil && bz[0] == 1 {
		return types.ErrInvalidInput.Wrap("engine is already paused")
	}

	k.root.Set(PausedKey, []byte{1})
	k.emit(types.EventTypeEnginePaused, "caller", caller)
	return nil
}

// Unpause resumes mutating operations. Authority only. An active circuit
// breaker still blocks swaps until it is reset separately.
func (k *Keeper) Unpause(_ context.Context, caller string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("caller %s may not unpause the engine", caller)
	}
	if bz := k.root.Get(PausedKey); bz == nil || bz[0] != 1 {
		return types.ErrInvalidInput.Wrap("engine is not paused")
	}

	k.root.Set(PausedKey, []byte{0})
	k.emit(types.EventTypeEngineUnpaused, "caller", caller)
	return nil
}

// IsPaused reports whether the owner-controlled pause flag is set.
func (k *Keeper) IsPaused(_ context.Context) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	bz := k.root.Get(PausedKey)
	return bz != nil && bz[0] == 1
}
