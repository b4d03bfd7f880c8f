package query

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CacheTotal counts cache lookups: hit, miss, or shared (joined an in-flight fetch).
	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnermap_query_cache_total",
			Help: "Total number of query cache lookups by result",
		},
		[]string{"result"},
	)

	// InvalidationsTotal counts invalidations by key prefix.
	InvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnermap_query_invalidations_total",
			Help: "Total number of cache invalidations by key prefix",
		},
		[]string{"prefix"},
	)
)

func init() {
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(InvalidationsTotal)
}
