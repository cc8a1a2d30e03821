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

func TestRecordRecommendation(t *testing.T) {
	m := New(DefaultConfig("fulfillment-test"))

	m.RecordRecommendation("highly_recommended", 3.5, time.Millisecond)
	m.RecordRecommendation("", 0.1, time.Millisecond)
	m.RecordRecommendation("", 0.2, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PackagingRecommended.WithLabelValues("highly_recommended")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NoTemplatesAvailable))
}

func TestRecordWorkflowAction(t *testing.T) {
	m := New(DefaultConfig("fulfillment-test"))

	m.RecordWorkflowAction("quality_inspection", "accepted")
	m.RecordWorkflowAction("quality_inspection", "rejected")
	m.RecordWorkflowAction("quality_inspection", "accepted")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WorkflowActions.WithLabelValues("quality_inspection", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WorkflowActions.WithLabelValues("quality_inspection", "rejected")))
}

func TestHandler_ExposesNamespace(t *testing.T) {
	m := New(DefaultConfig("fulfillment-test"))
	m.RecordQueueRanking(true, 7, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "fulfillment_queue_size"))
	assert.True(t, strings.Contains(body, `fulfillment_queue_rankings_total{filtered="true",service="fulfillment-test"} 1`))
}
