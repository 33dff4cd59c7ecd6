package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeSuccess   = "success"
	OutcomeNoResults = "no_results"
	OutcomeFailure   = "failure"
	OutcomeRejected  = "rejected"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	LookupsTotal      *prometheus.CounterVec
	LookupsStale      *prometheus.CounterVec
	LookupFailures    *prometheus.CounterVec
	SearchesTotal     *prometheus.CounterVec
	ReservationsTotal *prometheus.CounterVec
	APIRequestTime    *prometheus.HistogramVec
}

// NewMetrics creates new prometheus metrics registered on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "The total number of airport lookups sent to the catalog",
		}, []string{"field"}),
		LookupsStale: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_stale_total",
			Help:      "Lookup responses dropped because the input moved on",
		}, []string{"field"}),
		LookupFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_failures_total",
			Help:      "Lookups that failed and degraded to no suggestions",
		}, []string{"field"}),
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of flight searches",
		}, []string{"outcome"}),
		ReservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_total",
			Help:      "The total number of reservation confirmations",
		}, []string{"outcome"}),
		APIRequestTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Time taken by calls to the flight API",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// NewNop returns metrics bound to a throwaway registry
func NewNop() *Metrics {
	return NewMetrics("nop", prometheus.NewRegistry())
}
