package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSwap(c *gin.Context) {
	poolID, ok := parsePoolID(c)
	if !ok {
		return
	}

	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	amountIn, ok := parseAmount(c, "amount_in", req.AmountIn)
	if !ok {
		return
	}
	minOut, ok := parseOptionalAmount(c, "min_amount_out", req.MinAmountOut)
	if !ok {
		return
	}

	amountOut, err := s.engine.ExecuteSwap(c.Request.Context(), req.Trader, poolID, req.TokenIn, amountIn, minOut, req.Deadline)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SwapResponse{AmountOut: amountOut.String()})
}

func (s *Server) handleSimulateSwap(c *gin.Context) {
	poolID, ok := parsePoolID(c)
	if !ok {
		return
	}

	tokenIn := c.Query("token_in")
	if tokenIn == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "token_in query parameter required"})
		return
	}
	amountIn, ok := parseAmount(c, "amount_in", c.Query("amount_in"))
	if !ok {
		return
	}

	amountOut, err := s.engine.SimulateSwap(c.Request.Context(), poolID, tokenIn, amountIn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SwapResponse{AmountOut: amountOut.String()})
}

func (s *Server) handleQuoteRoutes(c *gin.Context) {
	fromAsset := c.Query("from_asset")
	toAsset := c.Query("to_asset")
	amountIn, ok := parseAmount(c, "amount_in", c.Query("amount_in"))
	if !ok {
		return
	}

	quote, err := s.engine.QuoteRoutes(c.Request.Context(), fromAsset, toAsset, amountIn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, RouteQuoteResponse{
		NativeOut:     quote.NativeOut.String(),
		UtilityOut:    quote.UtilityOut.String(),
		NativeExists:  quote.NativeExists,
		UtilityExists: quote.UtilityExists,
		PreferUtility: quote.PreferUtility,
		BestOut:       quote.Best().String(),
	})
}

func (s *Server) handleSmartSwap(c *gin.Context) {
	var req SmartSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	amountIn, ok := parseAmount(c, "amount_in", req.AmountIn)
	if !ok {
		return
	}
	minOut, ok := parseOptionalAmount(c, "min_amount_out", req.MinAmountOut)
	if !ok {
		return
	}

	amountOut, err := s.engine.ExecuteSmartSwap(c.Request.Context(), req.Trader, req.FromAsset, req.ToAsset, amountIn, minOut, req.Deadline)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SwapResponse{AmountOut: amountOut.String()})
}
