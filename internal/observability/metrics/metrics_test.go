package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *HTTP) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestObserveRequest(t *testing.T) {
	m := NewHTTP()

	m.ObserveRequest(http.MethodGet, http.StatusOK, 42*time.Millisecond)
	m.ObserveRequest(http.MethodGet, http.StatusOK, 7*time.Millisecond)
	m.ObserveRequest(http.MethodPost, http.StatusCreated, time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, `reddyt_http_requests_total{method="GET",status="200"} 2`)
	assert.Contains(t, body, `reddyt_http_requests_total{method="POST",status="201"} 1`)
	assert.Contains(t, body, `reddyt_http_request_duration_seconds_count{method="GET"} 2`)
}

func TestRecordLogin(t *testing.T) {
	m := NewHTTP()

	m.RecordLogin("success")
	m.RecordLogin("success")
	m.RecordLogin("validation_failure")

	body := scrape(t, m)
	assert.Contains(t, body, `reddyt_logins_total{outcome="success"} 2`)
	assert.Contains(t, body, `reddyt_logins_total{outcome="validation_failure"} 1`)
}

func TestIsolatedRegistries(t *testing.T) {
	a := NewHTTP()
	b := NewHTTP()

	a.RecordLogin("success")

	assert.Contains(t, scrape(t, a), "reddyt_logins_total")
	assert.NotContains(t, scrape(t, b), `outcome="success"`)
}
