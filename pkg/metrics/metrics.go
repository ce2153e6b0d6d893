package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blog"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	SearchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "search_requests_total", Help: "Number of post searches by mode."},
		[]string{"mode"},
	)
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "search_duration_seconds", Help: "Time spent answering post searches.", Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8)},
		[]string{"mode"},
	)

	PostsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "posts_loaded", Help: "Number of posts in the current collection."},
	)
	PostParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "post_parse_failures_total", Help: "Number of post sources skipped because they could not be parsed."},
	)
	Reloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "reloads_total", Help: "Number of collection reloads by result."},
		[]string{"result"},
	)

	RenderCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "render_cache_total", Help: "Rendered post cache lookups by result (hit, miss, error)."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SearchRequests)
	reg.MustRegister(SearchDuration)
	reg.MustRegister(PostsLoaded)
	reg.MustRegister(PostParseFailures)
	reg.MustRegister(Reloads)
	reg.MustRegister(RenderCache)
}
