package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "henna"

// BookingMetrics counts booking outcomes. A nil *BookingMetrics is valid and records nothing.
type BookingMetrics struct {
	appointmentsCreated *prometheus.CounterVec
	statusTransitions   *prometheus.CounterVec
	slotOperations      *prometheus.CounterVec
	notifications       *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "appointments_created_total",
			Help:      "Appointments created, by service type",
		}, []string{"service_type"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Appointment status transitions, by target status and result",
		}, []string{"status", "result"}),
		slotOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "slot_operations_total",
			Help:      "Slot create/update/delete operations, by result",
		}, []string{"op", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "notifications_total",
			Help:      "Client notifications attempted, by kind and result",
		}, []string{"kind", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsCreated, m.statusTransitions, m.slotOperations, m.notifications)
	return m
}

func (m *BookingMetrics) ObserveAppointmentCreated(serviceType string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(serviceType).Inc()
}

func (m *BookingMetrics) ObserveStatusTransition(status string, err error) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(status, result(err)).Inc()
}

func (m *BookingMetrics) ObserveSlotOperation(op string, err error) {
	if m == nil {
		return
	}
	m.slotOperations.WithLabelValues(op, result(err)).Inc()
}

func (m *BookingMetrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result(err)).Inc()
}

// HTTPMetrics records request counts and latency per chi route pattern.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by method, route and status code",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.latency.WithLabelValues(method, route).Observe(seconds)
}

// Handler exposes the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
