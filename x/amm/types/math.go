package types

import (
	"cosmossdk.io/math"
)

// precisionScale is the extended fixed-point scale used for intermediate
// swap-output arithmetic (18 decimal places, matching LegacyDec).
var precisionScale = math.NewIntWithDecimal(1, 18)

// IntegerSqrt returns floor(sqrt(x)) via Newton's method.
//
// The iteration is exact and deterministic: seed z=(x+1)/2, then iterate
// z=(x/z+z)/2 until z >= y. Callers must not substitute an approximate square
// root; share calculations depend on this iteration bit-for-bit.
func IntegerSqrt(x math.Int) math.Int {
	if x.IsNil() || x.IsZero() {
		return math.ZeroInt()
	}
	if x.IsNegative() {
		return math.ZeroInt()
	}

	y := x
	z := x.AddRaw(1).QuoRaw(2)
	for z.LT(y) {
		y = z
		z = x.Quo(z).Add(z).QuoRaw(2)
	}
	return y
}

// GetAmountOut returns floor(amountIn * reserveOut / (reserveIn + amountIn)).
//
// The division runs at extended fixed-point precision and is rescaled at the
// end to minimize truncation bias. Fee handling is the caller's concern: pass
// the fee-adjusted input amount.
func GetAmountOut(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if amountIn.IsNil() || amountIn.IsZero() || amountIn.IsNegative() {
		return math.ZeroInt(), ErrInvalidInput.Wrap("swap input amount must be positive")
	}
	if reserveIn.IsNil() || reserveIn.IsZero() || reserveIn.IsNegative() {
		return math.ZeroInt(), ErrInvalidInput.Wrap("input reserve must be positive")
	}
	if reserveOut.IsNil() || reserveOut.IsZero() || reserveOut.IsNegative() {
		return math.ZeroInt(), ErrInvalidInput.Wrap("output reserve must be positive")
	}

	numerator := amountIn.Mul(reserveOut).Mul(precisionScale)
	denominator := reserveIn.Add(amountIn)
	return numerator.Quo(denominator).Quo(precisionScale), nil
}

// ApplyFeeBps returns (amountAfterFee, feeAmount) for a fee given in basis
// points of the input. The fee is floored, so the post-fee amount never loses
// more than feeBps of the input.
func ApplyFeeBps(amount math.Int, feeBps uint64) (math.Int, math.Int) {
	fee := amount.MulRaw(int64(feeBps)).QuoRaw(BasisPointsDenom)
	return amount.Sub(fee), fee
}

// SplitFeeBps splits a fee into protocol and pool portions. The protocol
// share is floored; the pool keeps the remainder.
func SplitFeeBps(fee math.Int, protocolShareBps uint64) (protocolFee, poolFee math.Int) {
	protocolFee = fee.MulRaw(int64(protocolShareBps)).QuoRaw(BasisPointsDenom)
	poolFee = fee.Sub(protocolFee)
	return protocolFee, poolFee
}

// PriceImpactBps returns amountIn * 10000 / reserveIn, the input's size
// relative to the reserve in basis points. Used to gate the circuit breaker.
func PriceImpactBps(amountIn, reserveIn math.Int) math.Int {
	if reserveIn.IsNil() || reserveIn.IsZero() {
		return math.ZeroInt()
	}
	return amountIn.MulRaw(BasisPointsDenom).Quo(reserveIn)
}
