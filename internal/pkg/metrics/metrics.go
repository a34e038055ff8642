package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the resolution pipeline. Registered on the default registry
// and exposed at /metrics.
var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_cache_hits_total",
		Help: "Cache hits by tier (curated_faq, exact_cache, semantic_cache).",
	}, []string{"tier"})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_cache_misses_total",
		Help: "Queries that fell through every cache tier.",
	})

	GenerationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_generation_failures_total",
		Help: "Blocking generations that exhausted the retry budget.",
	})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chat_query_duration_seconds",
		Help:    "End to end latency of the blocking ask endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	DocumentsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_documents_total",
		Help: "Policy PDFs processed by the ingestion worker.",
	})

	ChunksIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_chunks_indexed_total",
		Help: "Chunks embedded and written to the document index.",
	})
)
