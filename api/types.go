package api

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// PoolResponse is the public view of a pool.
type PoolResponse struct {
	PoolID       uint64 `json:"pool_id"`
	AssetID      string `json:"asset_id"`
	Route        string `json:"route"`
	BaseDenom    string `json:"base_denom"`
	ReserveBase  string `json:"reserve_base"`
	ReserveAsset string `json:"reserve_asset"`
	TotalShares  string `json:"total_shares"`
	SpotPrice    string `json:"spot_price"`
	FeeAccrued   string `json:"fee_accrued"`
}

// CreatePoolRequest creates a pool funded by the creator.
type CreatePoolRequest struct {
	Creator     string `json:"creator" binding:"required"`
	AssetID     string `json:"asset_id" binding:"required"`
	Route       string `json:"route" binding:"required"`
	BaseAmount  string `json:"base_amount" binding:"required"`
	AssetAmount string `json:"asset_amount" binding:"required"`
}

// AddLiquidityRequest deposits at the current reserve ratio.
type AddLiquidityRequest struct {
	Provider       string `json:"provider" binding:"required"`
	BaseAmount     string `json:"base_amount" binding:"required"`
	MaxSlippageBps uint64 `json:"max_slippage_bps"`
}

// AddLiquidityResponse reports the minted position.
type AddLiquidityResponse struct {
	Shares      string `json:"shares"`
	AssetAmount string `json:"asset_amount"`
}

// RemoveLiquidityRequest burns shares for a pro-rata withdrawal.
type RemoveLiquidityRequest struct {
	Provider string `json:"provider" binding:"required"`
	Shares   string `json:"shares" binding:"required"`
}

// RemoveLiquidityResponse reports the withdrawn amounts.
type RemoveLiquidityResponse struct {
	BaseAmount  string `json:"base_amount"`
	AssetAmount string `json:"asset_amount"`
}

// SwapRequest executes a single-hop swap.
type SwapRequest struct {
	Trader       string `json:"trader" binding:"required"`
	TokenIn      string `json:"token_in" binding:"required"`
	AmountIn     string `json:"amount_in" binding:"required"`
	MinAmountOut string `json:"min_amount_out"`
	Deadline     int64  `json:"deadline"`
}

// SwapResponse reports the executed output.
type SwapResponse struct {
	AmountOut string `json:"amount_out"`
}

// SmartSwapRequest executes a routed asset-to-asset swap.
type SmartSwapRequest struct {
	Trader       string `json:"trader" binding:"required"`
	FromAsset    string `json:"from_asset" binding:"required"`
	ToAsset      string `json:"to_asset" binding:"required"`
	AmountIn     string `json:"amount_in" binding:"required"`
	MinAmountOut string `json:"min_amount_out"`
	Deadline     int64  `json:"deadline"`
}

// RouteQuoteResponse compares the two candidate routes.
type RouteQuoteResponse struct {
	NativeOut     string `json:"native_out"`
	UtilityOut    string `json:"utility_out"`
	NativeExists  bool   `json:"native_exists"`
	UtilityExists bool   `json:"utility_exists"`
	PreferUtility bool   `json:"prefer_utility"`
	BestOut       string `json:"best_out"`
}

// CircuitBreakerResponse reports breaker status.
type CircuitBreakerResponse struct {
	Active        bool   `json:"active"`
	TriggerReason string `json:"trigger_reason,omitempty"`
	TriggerPoolID uint64 `json:"trigger_pool_id,omitempty"`
	LastResetTime int64  `json:"last_reset_time"`
}

// CollectFeesRequest triggers a protocol fee payout.
type CollectFeesRequest struct {
	Caller string `json:"caller" binding:"required"`
	Denom  string `json:"denom" binding:"required"`
}

// AdminRequest carries the caller for authority-gated operations.
type AdminRequest struct {
	Caller string `json:"caller" binding:"required"`
}
