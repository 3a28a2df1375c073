package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

// observation checkpoints the cumulative price accumulator at one point in
// time. Bounded-window TWAP queries difference the live accumulator against
// the stored checkpoint nearest the window's start.
type observation struct {
	Timestamp  int64          `json:"timestamp"`
	Cumulative math.LegacyDec `json:"cumulative"`
	Price      math.LegacyDec `json:"price"`
}

// observationRetention bounds how far back window queries can reach. Older
// checkpoints are pruned as new ones are written; queries past the retained
// history fall back to the all-time average.
const observationRetention = 7 * 24 * time.Hour

// accruePrice folds the time elapsed at the pool's current price into the
// cumulative price accumulator. Called before every reserve mutation so the
// accumulator always reflects the price that actually held over each interval.
func (k *Keeper) accruePrice(pool *types.Pool) {
	now := k.now().Unix()
	elapsed := now - pool.LastPriceUpdateTime
	if elapsed > 0 && !pool.LastPrice.IsNil() && pool.LastPrice.IsPositive() {
		pool.CumulativePrice = pool.CumulativePrice.Add(pool.LastPrice.MulInt64(elapsed))
		pool.PriceTotalSeconds += uint64(elapsed)
	}
	pool.LastPriceUpdateTime = now
}

// recordSwapStats updates price and volume accounting after a swap mutated
// the reserves, and checkpoints the accumulator. The volume window resets,
// rather than decays, once it fully elapses.
func (k *Keeper) recordSwapStats(store storeBranch, pool *types.Pool, baseVolume math.Int, params types.Params) error {
	k.accruePrice(pool)
	pool.LastPrice = pool.SpotPrice()

	now := k.now().Unix()
	windowSeconds := int64(params.VolumeWindow.Seconds())
	if now >= pool.VolumeWindowStart+windowSeconds {
		pool.VolumeWindowStart = now
		pool.VolumeWindow = baseVolume
	} else {
		pool.VolumeWindow = pool.VolumeWindow.Add(baseVolume)
	}

	return k.recordObservation(store, pool)
}

// recordObservation writes a checkpoint at the pool's current accumulator
// state and prunes checkpoints past the retention horizon. Call only after
// accruePrice has brought the accumulator up to date.
func (k *Keeper) recordObservation(store storeBranch, pool *types.Pool) error {
	obs := observation{
		Timestamp:  pool.LastPriceUpdateTime,
		Cumulative: pool.CumulativePrice,
		Price:      pool.LastPrice,
	}
	bz, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("marshal observation for pool %d: %w", pool.Id, err)
	}
	store.Set(ObservationKey(pool.Id, obs.Timestamp), bz)

	k.pruneObservations(store, pool.Id, obs.Timestamp-int64(observationRetention.Seconds()))
	return nil
}

func (k *Keeper) pruneObservations(store storeBranch, poolID uint64, cutoff int64) {
	iterator := storetypes.KVStorePrefixIterator(store, ObservationsByPoolPrefix(poolID))
	defer iterator.Close()

	var stale [][]byte
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		if observationTimestamp(key) >= cutoff {
			break
		}
		stale = append(stale, append([]byte(nil), key...))
	}
	for _, key := range stale {
		store.Delete(key)
	}
}

// observationAt returns the newest checkpoint at or before the target time.
func (k *Keeper) observationAt(store storeBranch, poolID uint64, target int64) (observation, bool) {
	var obs observation

	iterator := store.ReverseIterator(ObservationsByPoolPrefix(poolID), ObservationKey(poolID, target+1))
	defer iterator.Close()

	if !iterator.Valid() {
		return obs, false
	}
	if err := json.Unmarshal(iterator.Value(), &obs); err != nil {
		return obs, false
	}
	return obs, true
}

func observationTimestamp(key []byte) int64 {
	return int64(binary.BigEndian.Uint64(key[len(key)-8:]))
}

// GetTWAP returns the time-weighted average price over the trailing window,
// extended through the current moment at the last known price. A zero window
// averages over the pool's whole lifetime; a window reaching past the pool's
// retained history also falls back to the lifetime average.
func (k *Keeper) GetTWAP(_ context.Context, poolID uint64, window time.Duration) (math.LegacyDec, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	pool, err := k.getPool(k.root, poolID)
	if err != nil {
		return math.LegacyZeroDec(), err
	}

	now := k.now().Unix()

	// Extend the accumulator to "now" without persisting.
	cumulative := pool.CumulativePrice
	totalSeconds := pool.PriceTotalSeconds
	if elapsed := now - pool.LastPriceUpdateTime; elapsed > 0 && pool.LastPrice.IsPositive() {
		cumulative = cumulative.Add(pool.LastPrice.MulInt64(elapsed))
		totalSeconds += uint64(elapsed)
	}

	if window > 0 {
		target := now - int64(window.Seconds())
		if obs, ok := k.observationAt(k.root, poolID, target); ok {
			elapsed := now - target
			if elapsed <= 0 {
				return pool.LastPrice, nil
			}
			// Between checkpoints the price is constant, so the accumulator
			// value at the window's start is exact.
			atTarget := obs.Cumulative.Add(obs.Price.MulInt64(target - obs.Timestamp))
			return cumulative.Sub(atTarget).QuoInt64(elapsed), nil
		}
	}

	if totalSeconds == 0 {
		// No time has passed since creation; the spot price is the only
		// price observation there is.
		return pool.LastPrice, nil
	}
	return cumulative.QuoInt64(int64(totalSeconds)), nil
}

// CumulativePrice exposes the raw accumulator so external oracles can
// difference two observations over their own window.
func (k *Keeper) CumulativePrice(_ context.Context, poolID uint64) (cumulative math.LegacyDec, totalSeconds uint64, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	pool, err := k.getPool(k.root, poolID)
	if err != nil {
		return math.LegacyZeroDec(), 0, err
	}
	return pool.CumulativePrice, pool.PriceTotalSeconds, nil
}
