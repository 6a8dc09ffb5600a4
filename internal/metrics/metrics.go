package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type IncrementalCounter interface {
	Increment(val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// NewCounterWithRegistry registers a labelled counter on reg.
func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// Recorder holds the service's counters.
type Recorder struct {
	Requests IncrementalCounter
	Events   IncrementalCounter
}

// NewRecorder registers the request and event counters on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	return &Recorder{
		Requests: NewCounterWithRegistry(reg, "menu_api_requests_total",
			"Menu API requests by method, route and status code.", "method", "route", "status"),
		Events: NewCounterWithRegistry(reg, "menu_events_total",
			"Consumed menu events by action and outcome.", "action", "outcome"),
	}
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
