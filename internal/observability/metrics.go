package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Provider calls issued by the manager",
		},
		[]string{"platform", "operation"},
	)

	ProviderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_failures_total",
			Help: "Provider calls that failed or timed out",
		},
		[]string{"platform", "operation"},
	)

	ProductsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "products_saved_total",
			Help: "Products upserted into the store",
		},
	)

	PostsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_published_total",
			Help: "Social posts published by the scheduler",
		},
	)
)

func Start(port string) {
	prometheus.MustRegister(ProviderRequests, ProviderFailures, ProductsSaved, PostsPublished)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
