package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCircuitBreakerStatus(c *gin.Context) {
	cb, err := s.engine.CircuitBreaker(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, CircuitBreakerResponse{
		Active:        cb.Active,
		TriggerReason: cb.TriggerReason,
		TriggerPoolID: cb.TriggerPoolId,
		LastResetTime: cb.LastResetTime,
	})
}

func (s *Server) handleResetCircuitBreaker(c *gin.Context) {
	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	if err := s.engine.ResetCircuitBreaker(c.Request.Context(), req.Caller); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (s *Server) handleGetProtocolFees(c *gin.Context) {
	denom := c.Param("denom")
	amount, err := s.engine.GetProtocolFees(c.Request.Context(), denom)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"denom": denom, "amount": amount.String()})
}

func (s *Server) handleCollectFees(c *gin.Context) {
	var req CollectFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	amount, err := s.engine.CollectFees(c.Request.Context(), req.Caller, req.Denom)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"denom": req.Denom, "collected": amount.String()})
}

func (s *Server) handlePause(c *gin.Context) {
	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	if err := s.engine.Pause(c.Request.Context(), req.Caller); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "paused"})
}

func (s *Server) handleUnpause(c *gin.Context) {
	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}

	if err := s.engine.Unpause(c.Request.Context(), req.Caller); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unpaused"})
}
