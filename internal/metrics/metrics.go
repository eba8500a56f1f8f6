package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Content metrics - Track collection loads from the content store
var (
	CollectionLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_collection_loads_total",
			Help: "Total number of collection loads by outcome (found, not_found, error)",
		},
		[]string{"outcome"},
	)

	CollectionLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_collection_load_duration_seconds",
		Help:    "Time taken to query the content store for one collection",
		Buckets: prometheus.DefBuckets,
	})
)

// Chain metrics - Track reads and claims against drop contracts
var (
	ChainReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_chain_reads_total",
			Help: "Total number of drop contract reads by read and outcome",
		},
		[]string{"read", "outcome"},
	)

	ChainReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_chain_read_duration_seconds",
			Help:    "Time taken by each drop view read",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"read"},
	)

	Mints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_mints_total",
			Help: "Total number of mint attempts by outcome (success, failure, skipped)",
		},
		[]string{"outcome"},
	)

	MintDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_mint_duration_seconds",
		Help:    "Time from claim submission to mined receipt",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	})
)

// State metrics - Track current system state
var (
	ActiveViews = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_active_views",
		Help: "Number of mounted drop views held in the registry",
	})

	WalletConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_wallet_connected",
		Help: "1 when the wallet session has an unlocked account, 0 otherwise",
	})
)

// Error metrics - Track failures
var (
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_errors_total",
			Help: "Total number of errors by component",
		},
		[]string{"component"},
	)
)
