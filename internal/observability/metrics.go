package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesHandled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_messages_handled_total",
		Help: "The total number of user messages processed",
	})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_llm_requests_total",
		Help: "Total number of generation backend requests",
	}, []string{"status"})

	LLMRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_llm_request_duration_seconds",
		Help:    "Duration of generation backend requests",
		Buckets: prometheus.DefBuckets,
	})

	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_search_requests_total",
		Help: "Total number of search provider requests",
	}, []string{"provider", "status"})

	SearchResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assistant_search_results",
		Help:    "Distribution of search result counts per query by provider",
		Buckets: []float64{0, 1, 2, 5, 10},
	}, []string{"provider"})

	PageFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_page_fetches_total",
		Help: "Total number of webpage fetches",
	}, []string{"status"})

	PageFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_page_fetch_duration_seconds",
		Help:    "Duration of webpage fetches",
		Buckets: prometheus.DefBuckets,
	})

	ChannelFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_channel_fetches_total",
		Help: "Total number of channel preview fetches",
	}, []string{"status"})
)
