package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"

	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

// EventFactory creates CloudEvents for a single source
type EventFactory struct {
	source string
	now    func() time.Time
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source, now: time.Now}
}

// CreateEvent builds an event, copying correlation and trace context from ctx
func (f *EventFactory) CreateEvent(ctx context.Context, eventType, subject string, data any) *FulfillmentCloudEvent {
	event := &FulfillmentCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            f.now().UTC(),
		DataContentType: "application/json",
		Data:            data,
		CorrelationID:   logging.CorrelationIDFromContext(ctx),
	}

	carrier := propagation.MapCarrier{}
	tracing.InjectTraceContext(ctx, carrier)
	event.TraceParent = carrier.Get("traceparent")
	event.TraceState = carrier.Get("tracestate")

	return event
}

// CreateWorkflowActionAcceptedEvent builds the event announcing a started fulfillment workflow
func (f *EventFactory) CreateWorkflowActionAcceptedEvent(ctx context.Context, data WorkflowActionData) *FulfillmentCloudEvent {
	event := f.CreateEvent(ctx, WorkflowActionAccepted, "order/"+data.OrderID, data)
	event.OrderID = data.OrderID
	event.WorkflowID = data.WorkflowID
	return event
}
