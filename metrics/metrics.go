// Package metrics holds the Prometheus collectors of the notifier.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "twitchnotify"

type Metrics struct {
	Registry        *prometheus.Registry
	Polls           prometheus.Counter
	FetchFailures   prometheus.Counter
	Notifications   *prometheus.CounterVec
	TrackedChannels prometheus.Gauge
}

// New registers the collectors on a fresh registry so tests can build as many
// instances as they need.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Number of poll cycles started.",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Number of poll cycles skipped because the live snapshot could not be fetched.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification delivery attempts by result.",
		}, []string{"result"}),
		TrackedChannels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_channels",
			Help:      "Channels whose current live session was already announced.",
		}),
	}

	m.Registry.MustRegister(
		m.Polls,
		m.FetchFailures,
		m.Notifications,
		m.TrackedChannels,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) NotificationSent() {
	m.Notifications.WithLabelValues("sent").Inc()
}

func (m *Metrics) NotificationFailed() {
	m.Notifications.WithLabelValues("failed").Inc()
}
