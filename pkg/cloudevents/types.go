package cloudevents

import (
	"time"
)

// WorkflowActionAccepted is the event type announcing a started fulfillment workflow
const WorkflowActionAccepted = "apparel.fulfillment.workflow-action.accepted"

// SourceFulfillment is the CloudEvents source of this service
const SourceFulfillment = "/apparel/fulfillment-service"

// Extension attribute names, also used as ce-* Kafka header suffixes
const (
	ExtCorrelationID = "fulfillmentcorrelationid"
	ExtWorkflowID    = "fulfillmentworkflowid"
	ExtOrderID       = "fulfillmentorderid"
	ExtTraceParent   = "traceparent"
	ExtTraceState    = "tracestate"
)

// FulfillmentCloudEvent is a CloudEvents v1.0 envelope with fulfillment extensions
type FulfillmentCloudEvent struct {
	SpecVersion     string    `json:"specversion"`
	Type            string    `json:"type"`
	Source          string    `json:"source"`
	Subject         string    `json:"subject,omitempty"`
	ID              string    `json:"id"`
	Time            time.Time `json:"time"`
	DataContentType string    `json:"datacontenttype"`
	Data            any       `json:"data"`

	CorrelationID string `json:"fulfillmentcorrelationid,omitempty"`
	WorkflowID    string `json:"fulfillmentworkflowid,omitempty"`
	OrderID       string `json:"fulfillmentorderid,omitempty"`
	TraceParent   string `json:"traceparent,omitempty"`
	TraceState    string `json:"tracestate,omitempty"`
}

// Extensions returns the populated extension attributes keyed by name
func (e *FulfillmentCloudEvent) Extensions() map[string]string {
	ext := make(map[string]string, 5)
	for name, value := range map[string]string{
		ExtCorrelationID: e.CorrelationID,
		ExtWorkflowID:    e.WorkflowID,
		ExtOrderID:       e.OrderID,
		ExtTraceParent:   e.TraceParent,
		ExtTraceState:    e.TraceState,
	} {
		if value != "" {
			ext[name] = value
		}
	}
	return ext
}

// WorkflowActionData is the payload of WorkflowActionAccepted
type WorkflowActionData struct {
	OrderID      string    `json:"orderId"`
	OrderNumber  string    `json:"orderNumber,omitempty"`
	Action       string    `json:"action"`
	Status       string    `json:"status"`
	WorkflowName string    `json:"workflowName"`
	WorkflowID   string    `json:"workflowId"`
	RunID        string    `json:"runId,omitempty"`
	AcceptedAt   time.Time `json:"acceptedAt"`
}
