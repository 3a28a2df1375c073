package types

// Event types emitted by the engine. In the standalone engine these surface as
// structured log records rather than chain events.
const (
	EventTypePoolCreated     = "pool_created"
	EventTypeAddLiquidity    = "liquidity_added"
	EventTypeRemoveLiquidity = "liquidity_removed"
	EventTypeSwap            = "swap_executed"
	EventTypeSmartSwap       = "smart_swap_executed"
	EventTypeFeesCollected   = "protocol_fees_collected"

	EventTypeCircuitBreakerTripped = "circuit_breaker_tripped"
	EventTypeCircuitBreakerReset   = "circuit_breaker_reset"
	EventTypeEnginePaused          = "engine_paused"
	EventTypeEngineUnpaused        = "engine_unpaused"
)

// Event attribute keys
const (
	AttributeKeyPoolID     = "pool_id"
	AttributeKeyAssetID    = "asset_id"
	AttributeKeyRoute      = "route"
	AttributeKeyProvider   = "provider"
	AttributeKeyTrader     = "trader"
	AttributeKeyAmountIn   = "amount_in"
	AttributeKeyAmountOut  = "amount_out"
	AttributeKeyBaseAmount = "base_amount"
	AttributeKeyAssetAmt   = "asset_amount"
	AttributeKeyShares     = "shares"
	AttributeKeyFee        = "fee"
	AttributeKeyPrice      = "price"
	AttributeKeyReason     = "reason"
)
