package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue returns the value of the counter series name{labels}, or 0.
func counterValue(t *testing.T, m *MetricsService, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want == pair.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/announcements", http.StatusForbidden, time.Millisecond)
	m.RecordCacheOperation(true, time.Microsecond)
	m.RecordCacheOperation(false, time.Microsecond)
	m.RecordCacheOperation(false, time.Microsecond)
	m.RecordPipelineResult("NOT_AN_EDITOR", time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m, "osca_http_requests_total", map[string]string{"path": "/api/v1/announcements", "status": "403"}))
	assert.Equal(t, 1.0, counterValue(t, m, "osca_cache_lookups_total", map[string]string{"result": "hit"}))
	assert.Equal(t, 2.0, counterValue(t, m, "osca_cache_lookups_total", map[string]string{"result": "miss"}))
	assert.Equal(t, 1.0, counterValue(t, m, "osca_announcement_pipeline_results_total", map[string]string{"code": "NOT_AN_EDITOR"}))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.ObserveCacheWrite(time.Millisecond)
	m.RecordPipelineResult("CREATED", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
