package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/shardex-protocol/shardex/x/amm/types"
)

func TestIntegerSqrt(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected int64
	}{
		{"zero", 0, 0},
		{"one", 1, 1},
		{"perfect square", 144, 12},
		{"non-square rounds down", 150, 12},
		{"large perfect square", 1_000_000, 1000},
		{"one billion", 1_000_000_000, 31622},
		{"negative clamps to zero", -4, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := types.IntegerSqrt(math.NewInt(tc.input))
			require.Equal(t, math.NewInt(tc.expected), got)
		})
	}
}

func TestIntegerSqrtProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := math.NewInt(rapid.Int64Range(0, 1<<62).Draw(t, "x"))
		root := types.IntegerSqrt(x)

		// floor semantics: root^2 <= x < (root+1)^2
		require.True(t, root.Mul(root).LTE(x))
		next := root.AddRaw(1)
		require.True(t, next.Mul(next).GT(x))
	})
}

func TestGetAmountOut(t *testing.T) {
	tests := []struct {
		name       string
		amountIn   int64
		reserveIn  int64
		reserveOut int64
		expected   int64
		wantErr    bool
	}{
		{"basic quote", 1000, 10_000, 10_000, 909, false},
		{"fee-adjusted reference trade", 99_700, 1_000_000, 1000, 90, false},
		{"tiny input rounds to zero", 1, 1_000_000, 10, 0, false},
		{"zero input", 0, 1000, 1000, 0, true},
		{"zero input reserve", 100, 0, 1000, 0, true},
		{"zero output reserve", 100, 1000, 0, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := types.GetAmountOut(math.NewInt(tc.amountIn), math.NewInt(tc.reserveIn), math.NewInt(tc.reserveOut))
			if tc.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, types.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			require.True(t, got.Equal(math.NewInt(tc.expected)), "expected %s, got %s", math.NewInt(tc.expected), got)
		})
	}
}

func TestGetAmountOutNeverDrains(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amountIn := math.NewInt(rapid.Int64Range(1, 1<<50).Draw(t, "amountIn"))
		reserveIn := math.NewInt(rapid.Int64Range(1, 1<<50).Draw(t, "reserveIn"))
		reserveOut := math.NewInt(rapid.Int64Range(1, 1<<50).Draw(t, "reserveOut"))

		out, err := types.GetAmountOut(amountIn, reserveIn, reserveOut)
		require.NoError(t, err)

		// Output is strictly below the output reserve.
		require.True(t, out.LT(reserveOut))
	})
}

func TestApplyFeeBps(t *testing.T) {
	after, fee := types.ApplyFeeBps(math.NewInt(100_000), 30)
	require.Equal(t, math.NewInt(99_700), after)
	require.Equal(t, math.NewInt(300), fee)

	// Fee floors on amounts too small to charge.
	after, fee = types.ApplyFeeBps(math.NewInt(10), 30)
	require.Equal(t, math.NewInt(10), after)
	require.True(t, fee.IsZero())
}

func TestSplitFeeBps(t *testing.T) {
	protocol, pool := types.SplitFeeBps(math.NewInt(300), 5000)
	require.Equal(t, math.NewInt(150), protocol)
	require.Equal(t, math.NewInt(150), pool)

	// Odd fee: protocol share floors, pool keeps the remainder.
	protocol, pool = types.SplitFeeBps(math.NewInt(301), 5000)
	require.Equal(t, math.NewInt(150), protocol)
	require.Equal(t, math.NewInt(151), pool)
	require.Equal(t, math.NewInt(301), protocol.Add(pool))
}

func TestPriceImpactBps(t *testing.T) {
	require.Equal(t, math.NewInt(1000), types.PriceImpactBps(math.NewInt(100), math.NewInt(1000)))
	require.Equal(t, math.NewInt(20000), types.PriceImpactBps(math.NewInt(2000), math.NewInt(1000)))
	require.True(t, types.PriceImpactBps(math.NewInt(100), math.ZeroInt()).IsZero())
}
