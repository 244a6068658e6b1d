package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSubmission(t *testing.T) {
	m := New()

	m.ObserveSubmission("direct", "success", 3)
	m.ObserveSubmission("direct", "success", 5)
	m.ObserveSubmission("template", "validation_error", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BroadcastsSubmitted.WithLabelValues("direct", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BroadcastsSubmitted.WithLabelValues("template", "validation_error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RecipientsResolved))
}

func TestObserveHistoryPoll(t *testing.T) {
	m := New()

	m.ObserveHistoryPoll(nil)
	m.ObserveHistoryPoll(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryPolls.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryPolls.WithLabelValues("error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveBackend("templates", 200, time.Millisecond)
		m.ObserveSubmission("direct", "success", 1)
		m.ObserveHistoryPoll(nil)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveBackend("broadcast", 201, 20*time.Millisecond)
	m.ObserveBackend("broadcast", 0, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `broadcaster_backend_request_seconds_count{endpoint="broadcast",status="2xx"} 1`)
	assert.Contains(t, rec.Body.String(), `broadcaster_backend_request_seconds_count{endpoint="broadcast",status="error"} 1`)
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{
		0:   "error",
		200: "2xx",
		204: "2xx",
		301: "3xx",
		304: "3xx",
		401: "4xx",
		404: "4xx",
		502: "5xx",
	}
	for status, want := range cases {
		assert.Equal(t, want, statusClass(status), "status %d", status)
	}
}
