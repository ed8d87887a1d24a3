package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RakeemAI/Rakeem/internal/deadlines"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	m := New()
	m.ObserveRun("upcoming", deadlines.Stats{Records: 12, NotComputable: 2, NotApplicable: 1, Selected: 4}, 2*time.Millisecond)
	m.ObserveRun("upcoming", deadlines.Stats{Records: 12, NotComputable: 2, Selected: 3}, time.Millisecond)
	m.ObserveRun("month", deadlines.Stats{Records: 12, Selected: 1}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("upcoming")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("month")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.records.WithLabelValues("upcoming", "selected")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.records.WithLabelValues("upcoming", "not_computable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.records.WithLabelValues("upcoming", "not_applicable")))
}

func TestObserveCatalogReload(t *testing.T) {
	m := New()
	m.ObserveCatalogReload(12, nil)
	m.ObserveCatalogReload(0, errors.New("bad json"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogReloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogReloads.WithLabelValues("error")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.catalogRecords), "failed reload keeps the last count")
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/deadlines", http.StatusOK, 5*time.Millisecond)
	m.ObserveRequest("/api/deadlines", http.StatusBadRequest, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `rakeem_http_requests_total{path="/api/deadlines",status="200"} 1`)
	assert.Contains(t, body, `rakeem_http_requests_total{path="/api/deadlines",status="400"} 1`)
	assert.Contains(t, body, "rakeem_http_request_duration_seconds_bucket")
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveRequest("/healthz", http.StatusOK, 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.requests.WithLabelValues("/healthz", "200")))
	assert.NotSame(t, a.Registry(), b.Registry())
}
