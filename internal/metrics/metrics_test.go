package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveUpstream("ticktick", 200, time.Millisecond)
	m.CacheHit(true)
	m.CommandCall("get_projects", "ok")
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveUpstream("ticktick", 200, time.Millisecond)
	m.ObserveUpstream("ticktick", 0, time.Millisecond)
	m.CacheHit(true)
	m.CacheHit(false)
	m.CacheHit(false)
	m.CommandCall("get_projects", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("ticktick", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("ticktick", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandCalls.WithLabelValues("get_projects", "ok")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.CacheHit(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `taskbridge_project_cache_lookups_total{outcome="hit"} 1`))
}
