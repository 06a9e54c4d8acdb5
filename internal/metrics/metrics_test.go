package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveGatewayCountsOutcomes(t *testing.T) {
	m := NewMetrics()

	m.ObserveGateway("translate", nil, time.Now())
	m.ObserveGateway("translate", errors.New("boom"), time.Now())
	m.ObserveGateway("translate", errors.New("boom"), time.Now())

	if got := testutil.ToFloat64(m.GatewayCallsTotal.WithLabelValues("translate", OutcomeSuccess)); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(m.GatewayCallsTotal.WithLabelValues("translate", OutcomeError)); got != 2 {
		t.Fatalf("expected 2 errors, got %v", got)
	}
}

func TestObserveStoreAndHTTP(t *testing.T) {
	m := NewMetrics()
	m.ObserveStore("append_message", nil)
	m.ObserveHTTP(http.MethodPost, "/translate", http.StatusOK, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.StoreOperationsTotal.WithLabelValues("append_message", OutcomeSuccess)); got != 1 {
		t.Fatalf("expected 1 store op, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/translate", "200")); got != 1 {
		t.Fatalf("expected 1 http request, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveGateway("summary", nil, time.Now())
	m.ObserveStore("create_conversation", nil)
	m.ObserveHTTP(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)
}

func TestHandlerServesRegistry(t *testing.T) {
	m := NewMetrics()
	m.ObserveStore("list_messages", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "visit_store_operations_total") {
		t.Fatalf("expected store counter in output")
	}
}
