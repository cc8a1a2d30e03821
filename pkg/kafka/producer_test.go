package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/resilience"
)

func sampleEvent() *cloudevents.FulfillmentCloudEvent {
	return &cloudevents.FulfillmentCloudEvent{
		SpecVersion:     "1.0",
		Type:            cloudevents.WorkflowActionAccepted,
		Source:          cloudevents.SourceFulfillment,
		Subject:         "order/ord-7",
		ID:              "evt-1",
		Time:            time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		DataContentType: "application/json",
		Data:            map[string]string{"action": "rush_escalation"},
		CorrelationID:   "corr-9",
		OrderID:         "ord-7",
	}
}

func TestBuildMessage(t *testing.T) {
	msg, err := BuildMessage(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "order/ord-7", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, cloudevents.WorkflowActionAccepted, headers["ce-type"])
	assert.Equal(t, "2024-05-01T12:00:00Z", headers["ce-time"])
	assert.Equal(t, "corr-9", headers["ce-fulfillmentcorrelationid"])
	assert.Equal(t, "ord-7", headers["ce-fulfillmentorderid"])
	assert.NotContains(t, headers, "ce-fulfillmentworkflowid")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "evt-1", decoded["id"])
	assert.Equal(t, "rush_escalation", decoded["data"].(map[string]any)["action"])
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.FulfillmentCloudEvent) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func TestCircuitBreakerProducer_OpensAfterFailures(t *testing.T) {
	inner := new(mockProducer)
	inner.On("PublishEvent", mock.Anything, Topics.FulfillmentEvents, mock.Anything).Return(errors.New("leader not available"))

	m := metrics.New(metrics.DefaultConfig("fulfillment-test"))
	producer := NewCircuitBreakerProducer(inner, m, logging.Discard())

	for i := 0; i < int(resilience.DefaultFailureThreshold); i++ {
		assert.Error(t, producer.PublishEvent(context.Background(), Topics.FulfillmentEvents, sampleEvent()))
	}

	err := producer.PublishEvent(context.Background(), Topics.FulfillmentEvents, sampleEvent())
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	inner.AssertNumberOfCalls(t, "PublishEvent", int(resilience.DefaultFailureThreshold))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("kafka-producer")))
	assert.Equal(t, float64(resilience.DefaultFailureThreshold)+1,
		testutil.ToFloat64(m.KafkaEventsPublished.WithLabelValues(Topics.FulfillmentEvents, cloudevents.WorkflowActionAccepted, "error")))
}
