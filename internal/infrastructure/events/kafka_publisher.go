package events

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
	"github.com/wms-platform/fulfillment-service/pkg/kafka"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

const tracerName = "fulfillment-service/events"

// KafkaEventPublisher implements domain.EventPublisher by wrapping domain events
// in CloudEvents and producing them to the fulfillment events topic
type KafkaEventPublisher struct {
	producer     kafka.EventProducer
	eventFactory *cloudevents.EventFactory
	topic        string
}

// NewKafkaEventPublisher creates a new KafkaEventPublisher
func NewKafkaEventPublisher(producer kafka.EventProducer, eventFactory *cloudevents.EventFactory) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer:     producer,
		eventFactory: eventFactory,
		topic:        kafka.Topics.FulfillmentEvents,
	}
}

// Publish converts event and produces it keyed by its order
func (p *KafkaEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	var cloudEvent *cloudevents.FulfillmentCloudEvent
	switch e := event.(type) {
	case *domain.WorkflowActionAcceptedEvent:
		cloudEvent = p.eventFactory.CreateWorkflowActionAcceptedEvent(ctx, cloudevents.WorkflowActionData{
			OrderID:      e.OrderID,
			OrderNumber:  e.OrderNumber,
			Action:       string(e.Action),
			Status:       string(e.Status),
			WorkflowName: e.WorkflowName,
			WorkflowID:   e.WorkflowID,
			RunID:        e.RunID,
			AcceptedAt:   e.OccurredAt(),
		})
	default:
		cloudEvent = p.eventFactory.CreateEvent(ctx, event.EventType(), "order/"+event.AggregateID(), event)
		cloudEvent.OrderID = event.AggregateID()
	}

	_, err := tracing.Traced(ctx, otel.Tracer(tracerName), "kafka.publish "+event.EventType(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.producer.PublishEvent(ctx, p.topic, cloudEvent)
	}, tracing.MessagingSpanAttributes(p.topic)...)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventType(), err)
	}
	return nil
}
