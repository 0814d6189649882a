// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ministryhub/internal/model"
)

const (
	namespace = "ministryhub"

	// OtherMinistry labels registrations for ministries outside model.Ministries.
	OtherMinistry = "other"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_created_total",
		Help:      "Registrations created by ministry.",
	}, []string{"ministry"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Registration notifications by transport and result.",
	}, []string{"transport", "result"})

	ImportPhrases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_phrases_total",
		Help:      "YouTube search phrases processed by result.",
	}, []string{"result"})

	ImportedVideos = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_videos_total",
		Help:      "Imported catalog entries by outcome (added, skipped).",
	}, []string{"outcome"})
)

// MinistryLabel keeps the ministry label set bounded to the known ministries.
func MinistryLabel(ministryType string) string {
	if _, ok := model.Ministries[ministryType]; ok {
		return ministryType
	}
	return OtherMinistry
}

func Handler() http.Handler {
	return promhttp.Handler()
}
