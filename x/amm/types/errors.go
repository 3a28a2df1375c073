package types

import (
	"cosmossdk.io/errors"
)

// Engine sentinel errors
var (
	ErrInvalidInput          = errors.Register(ModuleName, 1, "invalid input")
	ErrPoolNotFound          = errors.Register(ModuleName, 2, "pool not found")
	ErrPoolAlreadyExists     = errors.Register(ModuleName, 3, "pool already exists")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 4, "insufficient liquidity")
	ErrInsufficientShares    = errors.Register(ModuleName, 5, "insufficient liquidity shares")
	ErrSlippageExceeded      = errors.Register(ModuleName, 6, "slippage tolerance exceeded")
	ErrCircuitBreakerTripped = errors.Register(ModuleName, 7, "price impact tripped circuit breaker")
	ErrSystemPaused          = errors.Register(ModuleName, 8, "engine operations are paused")
	ErrDeadlineExpired       = errors.Register(ModuleName, 9, "transaction deadline expired")
	ErrUnauthorized          = errors.Register(ModuleName, 10, "unauthorized")
	ErrTransferFailed        = errors.Register(ModuleName, 11, "token transfer failed")
	ErrNoFeesToCollect       = errors.Register(ModuleName, 12, "no protocol fees to collect")
	ErrCooldownActive        = errors.Register(ModuleName, 13, "circuit breaker cooldown active")
	ErrNoRouteAvailable      = errors.Register(ModuleName, 14, "no swap route available")
	ErrInvalidPoolState      = errors.Register(ModuleName, 15, "invalid pool state")
	ErrInvariantViolation    = errors.Register(ModuleName, 16, "engine invariant violated")
)
