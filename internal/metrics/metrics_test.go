package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBookingMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveAppointmentCreated("mariee")
	m.ObserveStatusTransition("confirmed", nil)
	m.ObserveStatusTransition("confirmed", errors.New("boom"))
	m.ObserveSlotOperation("delete", nil)

	body := scrape(t, reg)
	for _, want := range []string{
		`henna_booking_appointments_created_total{service_type="mariee"} 1`,
		`henna_booking_status_transitions_total{result="error",status="confirmed"} 1`,
		`henna_booking_status_transitions_total{result="ok",status="confirmed"} 1`,
		`henna_booking_slot_operations_total{op="delete",result="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in scrape output:\n%s", want, body)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var b *BookingMetrics
	b.ObserveAppointmentCreated("simple")
	b.ObserveStatusTransition("cancelled", nil)
	b.ObserveSlotOperation("create", nil)
	b.ObserveNotification("confirmed", nil)

	var h *HTTPMetrics
	h.ObserveRequest("GET", "/api/services", "200", 0.01)
}

func TestHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("GET", "/api/available-slots", "200", 0.02)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "henna_http_requests_total") {
		t.Fatalf("expected request counter in output")
	}
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}
