package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the liquidity engine
type Metrics struct {
	// Swap metrics
	SwapsTotal  *prometheus.CounterVec
	SwapVolume  *prometheus.CounterVec
	SwapLatency prometheus.Histogram
	SwapFees    *prometheus.CounterVec

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec

	// Pool metrics
	PoolsTotal prometheus.Gauge

	// Router metrics
	SmartSwapsTotal *prometheus.CounterVec

	// Circuit breaker metrics
	BreakerActive prometheus.Gauge
	BreakerTrips  prometheus.Counter

	// Fee metrics
	FeesCollected *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers engine metrics (singleton pattern)
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"pool_id", "token_in", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pool_id", "denom"},
			),
			SwapLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "swap_latency_seconds",
					Help:      "Swap execution latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
			),
			SwapFees: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "swap_fees_total",
					Help:      "Total swap fees charged",
				},
				[]string{"pool_id", "denom"},
			),

			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "liquidity_added_total",
					Help:      "Total liquidity added to pools",
				},
				[]string{"pool_id", "denom"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity removed from pools",
				},
				[]string{"pool_id", "denom"},
			),

			PoolsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "pools_total",
					Help:      "Total number of liquidity pools",
				},
			),

			SmartSwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "smart_swaps_total",
					Help:      "Total number of routed asset-to-asset swaps",
				},
				[]string{"route", "status"},
			),

			BreakerActive: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "circuit_breaker_active",
					Help:      "Circuit breaker activation status (0=inactive, 1=active)",
				},
			),
			BreakerTrips: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "circuit_breaker_trips_total",
					Help:      "Total circuit breaker trip events",
				},
			),

			FeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "shardex",
					Subsystem: "amm",
					Name:      "protocol_fees_collected_total",
					Help:      "Protocol fees paid out to the fee recipient",
				},
				[]string{"denom"},
			),
		}
	})
	return metrics
}
