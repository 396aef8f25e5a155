package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_ExposesCounters(t *testing.T) {
	m := New("printhub")
	m.ObserveTransition("applied")
	m.ObserveRefresh(false)
	m.SetOrders("custom", 3)
	m.ObserveCheckout(true)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `printhub_status_transitions_total{outcome="applied"} 1`)
	assert.Contains(t, body, `printhub_source_refreshes_total{result="error"} 1`)
	assert.Contains(t, body, `printhub_orders{kind="custom"} 3`)
	assert.Contains(t, body, `printhub_cart_checkouts_total{result="ok"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("busy")
		m.ObserveRefresh(true)
		m.SetOrders("store", 1)
		m.ObserveCheckout(false)
	})
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
