package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseDomainEvent contains common event fields
type BaseDomainEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AggregateId string    `json:"aggregateId"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseDomainEvent) EventType() string     { return e.Type }
func (e BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseDomainEvent) AggregateID() string   { return e.AggregateId }

// EventTypeWorkflowActionAccepted is the type of WorkflowActionAcceptedEvent
const EventTypeWorkflowActionAccepted = "apparel.fulfillment.workflow-action.accepted"

// WorkflowActionAcceptedEvent is raised once an accepted action's workflow has started
type WorkflowActionAcceptedEvent struct {
	BaseDomainEvent
	OrderID      string         `json:"orderId"`
	OrderNumber  string         `json:"orderNumber"`
	Action       WorkflowAction `json:"action"`
	Status       OrderStatus    `json:"status"`
	WorkflowName string         `json:"workflowName"`
	WorkflowID   string         `json:"workflowId"`
	RunID        string         `json:"runId"`
}

// NewWorkflowActionAcceptedEvent creates a WorkflowActionAcceptedEvent
func NewWorkflowActionAcceptedEvent(req ActionRequest, exec *ActionExecution) *WorkflowActionAcceptedEvent {
	return &WorkflowActionAcceptedEvent{
		BaseDomainEvent: BaseDomainEvent{
			ID:          uuid.New().String(),
			Type:        EventTypeWorkflowActionAccepted,
			AggregateId: req.OrderID,
			Timestamp:   exec.StartedAt,
		},
		OrderID:      req.OrderID,
		OrderNumber:  req.OrderNumber,
		Action:       req.Action,
		Status:       req.Status,
		WorkflowName: req.WorkflowName,
		WorkflowID:   exec.WorkflowID,
		RunID:        exec.RunID,
	}
}
