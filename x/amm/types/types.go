package types

// ModuleName defines the engine module name
const ModuleName = "amm"

// ModuleAddress is the account that holds all pool reserves. Every pool's
// tokens live under this single address in the token ledger; per-pool
// accounting happens in the engine's own store.
const ModuleAddress = "shardex1amm_reserves"

// RouteType identifies which settlement asset a pool is denominated in.
type RouteType string

const (
	// RouteNative denominates a pool in the native settlement asset.
	RouteNative RouteType = "native"

	// RouteUtility denominates a pool in the platform utility token.
	RouteUtility RouteType = "utility"
)

// Valid reports whether rt is one of the two supported route types.
func (rt RouteType) Valid() bool {
	return rt == RouteNative || rt == RouteUtility
}

// BasisPointsDenom is the divisor for all basis-point parameters.
const BasisPointsDenom = 10000
