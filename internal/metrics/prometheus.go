package metrics

import (
	"context"
	"errors"

	"github.com/USA-RedDragon/obs-remote/internal/obs"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	obsRequests        *prometheus.CounterVec
	obsRequestDuration *prometheus.HistogramVec
	obsConnected       prometheus.Gauge
	obsEvents          *prometheus.CounterVec
	eventStreamClients prometheus.Gauge
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegisterer(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		obsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obs_requests_total",
			Help: "The total number of requests sent to OBS",
		}, []string{"request_type", "result"}),
		obsRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "obs_request_duration_seconds",
			Help:    "Time spent waiting on OBS to answer a request",
			Buckets: prometheus.DefBuckets,
		}, []string{"request_type"}),
		obsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "obs_connected",
			Help: "Whether the OBS control connection is up",
		}),
		obsEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obs_events_total",
			Help: "The total number of events received from OBS",
		}, []string{"event_type"}),
		eventStreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_stream_clients",
			Help: "The number of clients subscribed to the event stream",
		}),
	}
	metrics.register(registerer)
	return metrics
}

func (m *Metrics) register(registerer prometheus.Registerer) {
	registerer.MustRegister(
		m.obsRequests,
		m.obsRequestDuration,
		m.obsConnected,
		m.obsEvents,
		m.eventStreamClients,
	)
}

// Result labels for obs_requests_total
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultTimeout = "timeout"
	ResultError   = "connection_error"
)

func requestResult(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, obs.ErrTimeout):
		return ResultTimeout
	case errors.Is(err, obs.ErrConnectionFailed), errors.Is(err, obs.ErrClosed):
		return ResultError
	default:
		return ResultFailed
	}
}

func (m *Metrics) ObserveRequest(_ context.Context, record obs.RequestRecord) {
	if m == nil {
		return
	}
	m.obsRequests.WithLabelValues(record.RequestType, requestResult(record.Err)).Inc()
	m.obsRequestDuration.WithLabelValues(record.RequestType).Observe(record.Duration.Seconds())
}

func (m *Metrics) ObserveConnection(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.obsConnected.Set(1)
	} else {
		m.obsConnected.Set(0)
	}
}

func (m *Metrics) ObserveEvent(eventType string) {
	if m == nil {
		return
	}
	m.obsEvents.WithLabelValues(eventType).Inc()
}

func (m *Metrics) IncrementEventStreamClients() {
	if m == nil {
		return
	}
	m.eventStreamClients.Inc()
}

func (m *Metrics) DecrementEventStreamClients() {
	if m == nil {
		return
	}
	m.eventStreamClients.Dec()
}
