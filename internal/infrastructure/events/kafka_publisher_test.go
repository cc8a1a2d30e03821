package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
	"github.com/wms-platform/fulfillment-service/pkg/kafka"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
)

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.FulfillmentCloudEvent) error {
	return m.Called(ctx, topic, event).Error(0)
}

func acceptedEvent() *domain.WorkflowActionAcceptedEvent {
	return domain.NewWorkflowActionAcceptedEvent(
		domain.ActionRequest{
			OrderID:      "ORD-7",
			OrderNumber:  "1007",
			Action:       domain.ActionRushEscalation,
			WorkflowName: "RushEscalationWorkflow",
			Status:       domain.StatusInProduction,
		},
		&domain.ActionExecution{
			WorkflowID: "fulfillment-rush_escalation-ORD-7",
			RunID:      "run-7",
			StartedAt:  time.Date(2026, 2, 2, 9, 30, 0, 0, time.UTC),
		},
	)
}

func TestPublish_WorkflowActionAccepted(t *testing.T) {
	producer := new(mockProducer)
	var published *cloudevents.FulfillmentCloudEvent
	producer.On("PublishEvent", mock.Anything, kafka.Topics.FulfillmentEvents, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(2).(*cloudevents.FulfillmentCloudEvent) }).
		Return(nil)

	publisher := NewKafkaEventPublisher(producer, cloudevents.NewEventFactory(cloudevents.SourceFulfillment))
	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-1")

	require.NoError(t, publisher.Publish(ctx, acceptedEvent()))

	require.NotNil(t, published)
	assert.Equal(t, cloudevents.WorkflowActionAccepted, published.Type)
	assert.Equal(t, domain.EventTypeWorkflowActionAccepted, published.Type)
	assert.Equal(t, "order/ORD-7", published.Subject)
	assert.Equal(t, "ORD-7", published.OrderID)
	assert.Equal(t, "fulfillment-rush_escalation-ORD-7", published.WorkflowID)
	assert.Equal(t, "corr-1", published.CorrelationID)

	data, ok := published.Data.(cloudevents.WorkflowActionData)
	require.True(t, ok)
	assert.Equal(t, "rush_escalation", data.Action)
	assert.Equal(t, "in_production", data.Status)
	assert.Equal(t, "run-7", data.RunID)
}

func TestPublish_ProducerFailure(t *testing.T) {
	producer := new(mockProducer)
	producer.On("PublishEvent", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	publisher := NewKafkaEventPublisher(producer, cloudevents.NewEventFactory(cloudevents.SourceFulfillment))
	err := publisher.Publish(context.Background(), acceptedEvent())

	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.EventTypeWorkflowActionAccepted)
}
