package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ed318_validator"

type metrics struct {
	validations *prometheus.CounterVec
	issues      *prometheus.CounterVec
	cacheHits   prometheus.Counter
	duration    prometheus.Histogram
}

func newMetrics(registry prometheus.Registerer) *metrics {
	m := &metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "The total number of documents validated, by mode and result.",
		}, []string{"mode", "result"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issues_total",
			Help:      "The total number of validation issues reported, by kind.",
		}, []string{"kind"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "The total number of validations answered from the cache.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent validating a document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	registry.MustRegister(m.validations, m.issues, m.cacheHits, m.duration)
	return m
}
