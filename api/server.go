// Package api exposes the liquidity engine over HTTP for the platform's
// factory, frontend, and operational tooling.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shardex-protocol/shardex/x/amm/keeper"
)

// Config holds server configuration
type Config struct {
	Host            string
	Port            string
	RateLimitRPS    int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "8080",
		RateLimitRPS:    100,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves the engine's read and write operations.
type Server struct {
	router *gin.Engine
	engine *keeper.Keeper
	config *Config
	logger log.Logger
}

// NewServer creates an API server around an engine keeper.
func NewServer(engine *keeper.Keeper, logger log.Logger, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router: router,
		engine: engine,
		config: config,
		logger: logger.With("component", "api"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(SecurityHeadersMiddleware())
	if s.config.RateLimitRPS > 0 {
		s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS))
	}

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		pools := v1.Group("/pools")
		{
			pools.GET("", s.handleListPools)
			pools.POST("", s.handleCreatePool)
			pools.GET("/:id", s.handleGetPool)
			pools.GET("/:id/twap", s.handleGetTWAP)
			pools.GET("/:id/shares/:provider", s.handleGetShares)
			pools.POST("/:id/liquidity", s.handleAddLiquidity)
			pools.DELETE("/:id/liquidity", s.handleRemoveLiquidity)
			pools.POST("/:id/swap", s.handleSwap)
			pools.GET("/:id/quote", s.handleSimulateSwap)
		}

		router := v1.Group("/router")
		{
			router.GET("/quote", s.handleQuoteRoutes)
			router.POST("/swap", s.handleSmartSwap)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/circuit-breaker", s.handleCircuitBreakerStatus)
			admin.POST("/circuit-breaker/reset", s.handleResetCircuitBreaker)
			admin.GET("/fees/:denom", s.handleGetProtocolFees)
			admin.POST("/fees/collect", s.handleCollectFees)
			admin.POST("/pause", s.handlePause)
			admin.POST("/unpause", s.handleUnpause)
		}
	}
}

// Router exposes the underlying handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server until the context is cancelled, then drains
// in-flight requests within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down api server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.engine.CheckInvariants(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "invariant_violation",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"paused": s.engine.IsPaused(c.Request.Context()),
	})
}
