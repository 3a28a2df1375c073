package api

import (
	"net/http"
	"strconv"
	"time"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/gin-gonic/gin"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

func poolResponse(pool *types.Pool) PoolResponse {
	return PoolResponse{
		PoolID:       pool.Id,
		AssetID:      pool.AssetId,
		Route:        string(pool.Route),
		BaseDenom:    pool.BaseDenom,
		ReserveBase:  pool.ReserveBase.String(),
		ReserveAsset: pool.ReserveAsset.String(),
		TotalShares:  pool.TotalShares.String(),
		SpotPrice:    pool.SpotPrice().String(),
		FeeAccrued:   pool.FeeAccrued.String(),
	}
}

// writeError maps engine errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case sdkerrors.IsOf(err, types.ErrPoolNotFound, types.ErrNoRouteAvailable):
		status = http.StatusNotFound
	case sdkerrors.IsOf(err, types.ErrPoolAlreadyExists):
		status = http.StatusConflict
	case sdkerrors.IsOf(err, types.ErrUnauthorized):
		status = http.StatusForbidden
	case sdkerrors.IsOf(err, types.ErrSystemPaused, types.ErrCircuitBreakerTripped, types.ErrCooldownActive):
		status = http.StatusServiceUnavailable
	case sdkerrors.IsOf(err, types.ErrTransferFailed, types.ErrInsufficientShares, types.ErrInsufficientLiquidity):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func parsePoolID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool id"})
		return 0, false
	}
	return id, true
}

func parseAmount(c *gin.Context, field, value string) (math.Int, bool) {
	v, ok := math.NewIntFromString(value)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + field})
		return math.Int{}, false
	}
	return v, true
}

// parseOptionalAmount treats an empty string as zero.
func parseOptionalAmount(c *gin.Context, field, value string) (math.Int, bool) {
	if value == "" {
		return math.ZeroInt(), true
	}
	return parseAmount(c, field, value)
}

func (s *Server) handleListPools(c *gin.Context) {
	pools, err := s.engine.GetAllPools(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]PoolResponse, 0, len(pools))
	for i := range pools {
		out = append(out, poolResponse(&pools[i]))
	}
	c.JSON(http.StatusOK, gin.H{"pools": out, "count": len(out)})
}

func (s *Server) handleGetPool(c *gin.Context) {
	poolID, ok := parsePoolID(c)
	if !ok {
		return
	}

	pool, err := s.engine.GetPool(c.Request.Context(), poolID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, poolResponse(pool))
}

func (s *Server) handleCreatePool(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	baseAmount, ok := parseAmount(c, "base_amount", req.BaseAmount)
	if !ok {
		return
	}
	assetAmount, ok := parseAmount(c, "asset_amount", req.AssetAmount)
	if !ok {
		return
	}

	pool, err := s.engine.CreatePool(c.Request.Context(), req.Creator, req.AssetID, types.RouteType(req.Route), baseAmount, assetAmount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, poolResponse(pool))
}

func (s *Server) handleGetTWAP(c *gin.Context) {
	poolID, ok := parsePoolID(c)
	if !ok {
		return
	}

	// window is a trailing period in seconds; omitted or zero means the
	// pool's whole lifetime.
	var window time.Duration
	if raw := c.Query("window"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seconds < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid window"})
			return
		}
		window = time.Duration(seconds) * time.Second
	}

	twap, err := s.engine.GetTWAP(c.Request.Context(), poolID, window)
	if err != nil {
		writeError(c, err)
		return
	}
	cumulative, totalSeconds, err := s.engine.CumulativePrice(c.Request.Context(), poolID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pool_id":          poolID,
		"twap":             twap.String(),
		"window_seconds":   int64(window.Seconds()),
		"cumulative_price": cumulative.String(),
		"total_seconds":    totalSeconds,
	})
}

func (s *Server) handleGetShares(c *gin.Context) {
	poolID, ok := parsePoolID(c)
	if !ok {
		return
	}
	provider := c.Param("provider")

	shares, err := s.engine.GetProviderShares(c.Request.Context(), poolID, provider)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pool_id":  poolID,
		"provider": provider,
		"shares":   shares.String(),
	})
}

func (s *Server) handleAddLiquidity(c *gin.Context) {
	poolID, ok := parsePoolID(c)
	if !ok {
		return
	}

	var req AddLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	baseAmount, ok := parseAmount(c, "base_amount", req.BaseAmount)
	if !ok {
		return
	}

	shares, assetAmount, err := s.engine.AddLiquidity(c.Request.Context(), req.Provider, poolID, baseAmount, req.MaxSlippageBps)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AddLiquidityResponse{
		Shares:      shares.String(),
		AssetAmount: assetAmount.String(),
	})
}

func (s *Server) handleRemoveLiquidity(c *gin.Context) {
	poolID, ok := parsePoolID(c)
	if !ok {
		return
	}

	var req RemoveLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	shares, ok := parseAmount(c, "shares", req.Shares)
	if !ok {
		return
	}

	baseOut, assetOut, err := s.engine.RemoveLiquidity(c.Request.Context(), req.Provider, poolID, shares)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, RemoveLiquidityResponse{
		BaseAmount:  baseOut.String(),
		AssetAmount: assetOut.String(),
	})
}
