package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLifecycle(t *testing.T) {
	before := testutil.ToFloat64(lifecycleEvents.WithLabelValues("confirm", "true"))

	RecordLifecycle("confirm", true)

	assert.Equal(t, before+1, testutil.ToFloat64(lifecycleEvents.WithLabelValues("confirm", "true")))
}

func TestSetSubscriptions(t *testing.T) {
	SetSubscriptions(3, 7)

	assert.Equal(t, 3.0, testutil.ToFloat64(subscriptions.WithLabelValues("pending")))
	assert.Equal(t, 7.0, testutil.ToFloat64(subscriptions.WithLabelValues("active")))
}

func TestRecordHTTPRequest_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))

	RecordHTTPRequest("GET", "", http.StatusNotFound)

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordDelivery("sent", 20*time.Millisecond)
	RecordTaskRun("continue")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "crypto_notifier_delivery_cycles_total")
	assert.Contains(t, rec.Body.String(), "crypto_notifier_scheduler_task_runs_total")
}
