package etag

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Responses counts evaluated responses by outcome
	Responses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etag_responses_total",
			Help: "Total number of responses evaluated by the ETag middleware",
		},
		[]string{"outcome"}, // "pass_through", "not_modified", "precondition_failed"
	)

	// Generated counts entity-tags computed from response bodies
	Generated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etag_generated_total",
			Help: "Total number of entity-tags computed from response bodies",
		},
		[]string{"algorithm", "strength"},
	)

	// Reused counts entity-tags set by the handler and used as is
	Reused = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "etag_reused_total",
			Help: "Total number of entity-tags set by handlers and reused",
		},
	)

	// MalformedHeaders counts ignored If-Match and If-None-Match fields
	MalformedHeaders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etag_malformed_headers_total",
			Help: "Total number of malformed precondition header fields ignored",
		},
		[]string{"header"},
	)

	// BodyBytes tracks the size of hashed response bodies
	BodyBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "etag_body_bytes",
			Help:    "Size of response bodies hashed by the ETag middleware",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)
)
