// Package metrics holds the prometheus collectors of the service. They are
// registered on their own registry so tests can build as many as they need.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campaign_api"

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	EngagementEvents   *prometheus.CounterVec
	CampaignsCompleted prometheus.Counter
	LiveSubscribers    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		EngagementEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engagement_events_total",
			Help:      "Likes, unlikes, shares and views by entity type.",
		}, []string{"entity_type", "event"}),
		CampaignsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaigns_completed_total",
			Help:      "Campaigns moved to completed by the lifecycle job.",
		}),
		LiveSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_subscribers",
			Help:      "Open live engagement feed connections.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.EngagementEvents,
		m.CampaignsCompleted,
		m.LiveSubscribers,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// EngagementEvent counts one engagement change. Safe on a nil receiver.
func (m *Metrics) EngagementEvent(entityType, event string) {
	if m == nil {
		return
	}
	m.EngagementEvents.WithLabelValues(entityType, event).Inc()
}

func (m *Metrics) CampaignCompleted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.CampaignsCompleted.Add(float64(n))
}

func (m *Metrics) LiveSubscribed() {
	if m == nil {
		return
	}
	m.LiveSubscribers.Inc()
}

func (m *Metrics) LiveUnsubscribed() {
	if m == nil {
		return
	}
	m.LiveSubscribers.Dec()
}
