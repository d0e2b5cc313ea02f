// Package metrics exposes the Prometheus instruments shared across the
// reconciliation engine and the grid store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreReads counts full-sheet reads per source.
	StoreReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statusboard",
		Name:      "store_reads_total",
		Help:      "Sheet reads issued to the backing store.",
	}, []string{"source"})

	// StoreWrites counts write batches per source and operation.
	StoreWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statusboard",
		Name:      "store_writes_total",
		Help:      "Write batches issued to the backing store.",
	}, []string{"source", "op"})

	// CacheHits counts memoized record-set hits per cache.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statusboard",
		Name:      "cache_hits_total",
		Help:      "Cache hits per cache.",
	}, []string{"cache"})

	// CacheMisses counts cache misses per cache.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statusboard",
		Name:      "cache_misses_total",
		Help:      "Cache misses per cache.",
	}, []string{"cache"})
)
