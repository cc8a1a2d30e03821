package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/errors"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
)

// Action results recorded in metrics and audit logs
const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

// FulfillmentService handles queue, packaging and workflow-action use cases
type FulfillmentService struct {
	core          *domain.Core
	orderRepo     domain.OrderRepository
	templateRepo  domain.TemplateRepository
	executor      domain.ActionExecutor
	publisher     domain.EventPublisher
	logger        *logging.Logger
	metrics       *metrics.Metrics
	snapshotLimit int64
}

// ServiceOption customises a FulfillmentService
type ServiceOption func(*FulfillmentService)

// WithMetrics records business metrics on m
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *FulfillmentService) { s.metrics = m }
}

// WithEventPublisher publishes domain events for accepted actions
func WithEventPublisher(p domain.EventPublisher) ServiceOption {
	return func(s *FulfillmentService) { s.publisher = p }
}

// WithSnapshotLimit caps the number of orders loaded per queue snapshot
func WithSnapshotLimit(limit int64) ServiceOption {
	return func(s *FulfillmentService) { s.snapshotLimit = limit }
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(
	core *domain.Core,
	orderRepo domain.OrderRepository,
	templateRepo domain.TemplateRepository,
	executor domain.ActionExecutor,
	logger *logging.Logger,
	opts ...ServiceOption,
) *FulfillmentService {
	s := &FulfillmentService{
		core:         core,
		orderRepo:    orderRepo,
		templateRepo: templateRepo,
		executor:     executor,
		logger:       logger.WithComponent("fulfillment-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetProcessingQueue returns the ranked processing queue. Terminal orders are left out
// unless a status filter asks for them.
func (s *FulfillmentService) GetProcessingQueue(ctx context.Context, query GetQueueQuery) (*QueueDTO, error) {
	start := time.Now()
	f := query.Filters

	snapshot := SnapshotFilterFor(f)
	snapshot.PriorityRanks = s.core.Ranker.Ranks()
	snapshot.Limit = s.snapshotLimit

	orders, err := s.orderRepo.FindSnapshot(ctx, snapshot)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load order snapshot")
		return nil, fmt.Errorf("failed to load order snapshot: %w", err)
	}

	result := BuildQueue(s.core.Ranker, orders, f, query.Limit)
	total := result.Total
	if s.snapshotLimit > 0 && int64(len(orders)) >= s.snapshotLimit {
		result.Truncated = true
		s.logger.WithContext(ctx).Warn("Queue snapshot reached its limit", "snapshotLimit", s.snapshotLimit)
	}

	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordQueueRanking(!f.IsEmpty(), total, duration)
	}
	s.logger.Performance(ctx, "rank_queue", duration, true, map[string]any{
		"snapshotSize": len(orders),
		"queueSize":    total,
	})

	return result, nil
}

// RecommendPackaging recommends packaging for a stored order
func (s *FulfillmentService) RecommendPackaging(ctx context.Context, query RecommendPackagingQuery) (*PackagingRecommendationDTO, error) {
	order, err := s.findOrder(ctx, query.OrderID)
	if err != nil {
		return nil, err
	}
	return s.recommend(ctx, order.OrderID, order.Items, query.TotalWeight)
}

// PreviewPackaging recommends packaging for an item list without a stored order
func (s *FulfillmentService) PreviewPackaging(ctx context.Context, cmd PreviewPackagingCommand) (*PackagingRecommendationDTO, error) {
	if len(cmd.Items) == 0 {
		return nil, errors.ErrValidation("at least one item is required")
	}
	return s.recommend(ctx, "", cmd.ToDomainOrderItems(), cmd.TotalWeight)
}

func (s *FulfillmentService) recommend(ctx context.Context, orderID string, items []domain.OrderItem, weight *float64) (*PackagingRecommendationDTO, error) {
	start := time.Now()

	templates, err := s.templateRepo.FindActive(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load shipping templates")
		return nil, fmt.Errorf("failed to load shipping templates: %w", err)
	}

	result := s.core.RecommendPackaging(items, weight, templates)

	topLevel := ""
	if result.NoTemplatesAvailable() {
		s.logger.WithContext(ctx).Warn("No shipping templates available",
			"orderId", orderID,
			"catalogSize", len(templates),
		)
	} else {
		topLevel = string(result.Recommendations[0].RecommendationLevel)
	}
	if s.metrics != nil {
		s.metrics.RecordRecommendation(topLevel, result.Weight, time.Since(start))
	}

	return ToPackagingRecommendationDTO(orderID, result), nil
}

// ListActions returns the workflow-action catalog
func (s *FulfillmentService) ListActions() []ActionRuleDTO {
	rules := s.core.Dispatcher.Rules()
	out := make([]ActionRuleDTO, 0, len(rules))
	for _, r := range rules {
		out = append(out, ToActionRuleDTO(r))
	}
	return out
}

// DispatchAction validates an action against the order's current state and hands it
// to the workflow-execution system. The order's status is left untouched.
func (s *FulfillmentService) DispatchAction(ctx context.Context, cmd DispatchActionCommand) (*ActionDispatchDTO, error) {
	order, err := s.findOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	action := domain.WorkflowAction(cmd.Action)
	flags := order.Flags()
	logger := s.logger.WithOrder(order.OrderID)

	acceptance, err := s.core.Dispatcher.ValidateTransition(action, order.Status, flags)
	if err != nil {
		s.recordAction(cmd.Action, resultRejected)
		logger.Audit(ctx, "workflow_action."+resultRejected, "order", order.OrderID, map[string]any{
			"action": cmd.Action,
			"status": string(order.Status),
			"reason": err.Error(),
		})
		return nil, errors.MapDomainError(err)
	}

	req := domain.ActionRequest{
		OrderID:      order.OrderID,
		OrderNumber:  order.OrderNumber,
		Action:       acceptance.Action,
		WorkflowName: acceptance.WorkflowName,
		Status:       acceptance.CurrentStatus,
		Flags:        flags,
	}

	exec, err := s.executor.Execute(ctx, req)
	if stderrors.Is(err, domain.ErrActionAlreadyRunning) {
		s.recordAction(cmd.Action, resultRejected)
		return nil, errors.MapDomainError(err)
	}
	if err != nil {
		s.recordAction(cmd.Action, resultFailed)
		logger.WithContext(ctx).WithError(err).Error("Failed to start workflow",
			"action", cmd.Action,
			"workflowName", acceptance.WorkflowName,
		)
		return nil, errors.ErrServiceUnavailable("workflow execution").Wrap(err)
	}

	s.recordAction(cmd.Action, resultAccepted)
	logger.Audit(ctx, "workflow_action."+resultAccepted, "order", order.OrderID, map[string]any{
		"action":     cmd.Action,
		"status":     string(order.Status),
		"workflowId": exec.WorkflowID,
		"runId":      exec.RunID,
	})

	if s.publisher != nil {
		event := domain.NewWorkflowActionAcceptedEvent(req, exec)
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.WithContext(ctx).WithError(err).Error("Failed to publish workflow action event",
				"eventType", event.EventType(),
				"workflowId", exec.WorkflowID,
			)
		} else {
			logger.Event(ctx, event.EventType(), map[string]any{
				"eventId":    event.ID,
				"workflowId": exec.WorkflowID,
			})
		}
	}

	return &ActionDispatchDTO{
		OrderID:      order.OrderID,
		Action:       string(acceptance.Action),
		Status:       string(acceptance.CurrentStatus),
		WorkflowName: acceptance.WorkflowName,
		WorkflowID:   exec.WorkflowID,
		RunID:        exec.RunID,
		AcceptedAt:   exec.StartedAt,
	}, nil
}

func (s *FulfillmentService) findOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, domain.ErrOrderNotFound) {
			return nil, errors.ErrNotFoundWithID("order", orderID).Wrap(err)
		}
		s.logger.WithContext(ctx).WithError(err).Error("Failed to get order", "orderId", orderID)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, errors.ErrNotFoundWithID("order", orderID)
	}
	return order, nil
}

func (s *FulfillmentService) recordAction(action, result string) {
	if s.metrics != nil {
		s.metrics.RecordWorkflowAction(action, result)
	}
}
