package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(outputFrames.WithLabelValues("test"))
	Frame("test", 128)
	Frame("test", 64)
	assert.Equal(t, before+2, testutil.ToFloat64(outputFrames.WithLabelValues("test")))
	assert.Equal(t, 64.0, testutil.ToFloat64(brightness))

	PowerScale(200)
	assert.Equal(t, 200.0, testutil.ToFloat64(powerScale))
}

func TestHandler(t *testing.T) {
	Tick("animation")
	ControlRequest("api", "mode")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ledman_scheduler_ticks_total{mode="animation"}`)
	assert.Contains(t, rec.Body.String(), `ledman_control_requests_total{kind="mode",source="api"}`)
}
