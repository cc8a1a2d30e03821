package cloudevents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wms-platform/fulfillment-service/pkg/logging"
)

func TestCreateWorkflowActionAcceptedEvent(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 14, 30, 0, 0, time.FixedZone("EST", -5*3600))
	factory := NewEventFactory(SourceFulfillment)
	factory.now = func() time.Time { return fixed }

	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-1")
	event := factory.CreateWorkflowActionAcceptedEvent(ctx, WorkflowActionData{
		OrderID:      "ord-42",
		Action:       "quality_inspection",
		Status:       "in_production",
		WorkflowName: "QualityInspectionWorkflow",
		WorkflowID:   "quality_inspection-ord-42",
	})

	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, WorkflowActionAccepted, event.Type)
	assert.Equal(t, SourceFulfillment, event.Source)
	assert.Equal(t, "order/ord-42", event.Subject)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, fixed.UTC(), event.Time)
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.Equal(t, map[string]string{
		ExtCorrelationID: "corr-1",
		ExtWorkflowID:    "quality_inspection-ord-42",
		ExtOrderID:       "ord-42",
	}, event.Extensions())
}
