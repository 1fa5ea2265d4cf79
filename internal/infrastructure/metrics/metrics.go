// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ember_rooms_created_total",
		Help: "Number of rooms created.",
	})

	RoomsDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ember_rooms_destroyed_total",
		Help: "Number of rooms explicitly destroyed. Natural TTL expiry is store-driven and not counted.",
	})

	MessagesAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ember_messages_appended_total",
		Help: "Number of messages appended to room logs.",
	})

	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ember_publish_failures_total",
		Help: "Number of fan-out publishes that failed and were swallowed.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
