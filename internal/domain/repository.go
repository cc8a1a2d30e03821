package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrOrderNotFound is returned when an order does not exist in the store
	ErrOrderNotFound = errors.New("order not found")
	// ErrActionAlreadyRunning is returned when the workflow of an action is still open for the order
	ErrActionAlreadyRunning = errors.New("workflow action already running for order")
)

// SnapshotFilter narrows the orders loaded for a queue snapshot. The ranker applies
// the full filter set; the store pre-filters on the fields it can match exactly.
// With PriorityRanks set the store returns orders in queue order, so a Limit keeps
// the head of the queue rather than the oldest orders.
type SnapshotFilter struct {
	Status        OrderStatus
	Priority      Priority
	ProductSource string
	ExcludeStatus []OrderStatus
	RushOnly      bool
	GroupOnly     bool
	PriorityRanks map[Priority]int
	Limit         int64
}

// OrderRepository provides read-only order snapshots
type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (*Order, error)
	FindSnapshot(ctx context.Context, filter SnapshotFilter) ([]Order, error)
}

// TemplateRepository provides the active shipping-template catalog in catalog order
type TemplateRepository interface {
	FindActive(ctx context.Context) ([]ShippingTemplate, error)
}

// ActionRequest asks the workflow-execution system to run an accepted action
type ActionRequest struct {
	OrderID      string
	OrderNumber  string
	Action       WorkflowAction
	WorkflowName string
	Status       OrderStatus
	Flags        OrderFlags
}

// ActionExecution is the handle of a started workflow
type ActionExecution struct {
	WorkflowID string
	RunID      string
	StartedAt  time.Time
}

// ActionExecutor hands accepted actions to the workflow-execution system
type ActionExecutor interface {
	Execute(ctx context.Context, req ActionRequest) (*ActionExecution, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}
