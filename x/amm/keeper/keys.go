package keeper

import (
	"encoding/binary"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

var (
	// PoolKeyPrefix is the prefix for pool store keys
	PoolKeyPrefix = []byte{0x01}

	// PoolCountKey is the key for the next pool ID counter
	PoolCountKey = []byte{0x02}

	// PoolByAssetKeyPrefix indexes pools by (assetID, route)
	PoolByAssetKeyPrefix = []byte{0x03}

	// SharesKeyPrefix is the prefix for provider share positions
	SharesKeyPrefix = []byte{0x04}

	// ParamsKey is the key for engine parameters
	ParamsKey = []byte{0x05}

	// CircuitBreakerKey is the key for the engine-global breaker state
	CircuitBreakerKey = []byte{0x06}

	// ProtocolFeeKeyPrefix is the prefix for per-denom protocol fees
	ProtocolFeeKeyPrefix = []byte{0x07}

	// PausedKey is the key for the owner-controlled pause flag
	PausedKey = []byte{0x08}

	// ObservationKeyPrefix is the prefix for cumulative-price checkpoints
	ObservationKeyPrefix = []byte{0x09}
)

// PoolKey returns the store key for a pool by ID
func PoolKey(poolID uint64) []byte {
	poolIDBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(poolIDBytes, poolID)
	return append(PoolKeyPrefix, poolIDBytes...)
}

// PoolByAssetKey returns the index key for a pool by listed asset and route
func PoolByAssetKey(assetID string, route types.RouteType) []byte {
	key := append(PoolByAssetKeyPrefix, []byte(assetID)...)
	key = append(key, '/')
	return append(key, []byte(route)...)
}

// SharesKey returns the store key for a provider's share position
func SharesKey(poolID uint64, provider string) []byte {
	poolIDBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(poolIDBytes, poolID)
	key := append(SharesKeyPrefix, poolIDBytes...)
	return append(key, []byte(provider)...)
}

// SharesByPoolPrefix returns the prefix covering all share positions in a pool
func SharesByPoolPrefix(poolID uint64) []byte {
	poolIDBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(poolIDBytes, poolID)
	return append(SharesKeyPrefix, poolIDBytes...)
}

// ProtocolFeeKey returns the store key for accumulated protocol fees per denom
func ProtocolFeeKey(denom string) []byte {
	return append(ProtocolFeeKeyPrefix, []byte(denom)...)
}

// ObservationKey returns the store key for a pool's price checkpoint at a time.
// Timestamps are encoded big-endian so the keys sort chronologically.
func ObservationKey(poolID uint64, timestamp int64) []byte {
	key := ObservationsByPoolPrefix(poolID)
	tsBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(tsBytes, uint64(timestamp))
	return append(key, tsBytes...)
}

// ObservationsByPoolPrefix returns the prefix covering all of a pool's
// price checkpoints
func ObservationsByPoolPrefix(poolID uint64) []byte {
	poolIDBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(poolIDBytes, poolID)
	return append(ObservationKeyPrefix, poolIDBytes...)
}
