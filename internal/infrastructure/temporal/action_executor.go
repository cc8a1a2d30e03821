package temporal

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/resilience"
	pkgtemporal "github.com/wms-platform/fulfillment-service/pkg/temporal"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

// ActionWorkflowInput is the input handed to every fulfillment workflow
type ActionWorkflowInput struct {
	OrderID        string `json:"orderId"`
	OrderNumber    string `json:"orderNumber"`
	Action         string `json:"action"`
	Status         string `json:"status"`
	IsRush         bool   `json:"isRush"`
	IsGroupOrder   bool   `json:"isGroupOrder"`
	HasBundleItems bool   `json:"hasBundleItems"`
}

// ActionExecutor implements domain.ActionExecutor by starting Temporal workflows
type ActionExecutor struct {
	starter        pkgtemporal.WorkflowStarter
	config         *pkgtemporal.Config
	circuitBreaker *resilience.CircuitBreaker
	tracer         trace.Tracer
	metrics        *metrics.Metrics
	logger         *logging.Logger
	now            func() time.Time
}

// NewActionExecutor creates an executor starting workflows on config.TaskQueue. m may be nil.
func NewActionExecutor(starter pkgtemporal.WorkflowStarter, config *pkgtemporal.Config, m *metrics.Metrics, logger *logging.Logger) *ActionExecutor {
	breakerConfig := resilience.DefaultCircuitBreakerConfig("temporal-executor")
	breakerConfig.Expected = []error{domain.ErrActionAlreadyRunning}

	var observers []resilience.StateObserver
	if m != nil {
		observers = append(observers, m.CircuitBreakerObserver())
	}

	return &ActionExecutor{
		starter:        starter,
		config:         config,
		circuitBreaker: resilience.NewCircuitBreaker(breakerConfig, logger.Logger, observers...),
		tracer:         otel.Tracer("fulfillment-service/temporal"),
		metrics:        m,
		logger:         logger.WithComponent("action-executor"),
		now:            time.Now,
	}
}

// WorkflowID is the deterministic workflow ID of an action on an order
func WorkflowID(action domain.WorkflowAction, orderID string) string {
	return fmt.Sprintf("fulfillment-%s-%s", action, orderID)
}

// Execute starts the workflow named by req. A still-running workflow for the same
// action and order is reported as domain.ErrActionAlreadyRunning.
func (e *ActionExecutor) Execute(ctx context.Context, req domain.ActionRequest) (*domain.ActionExecution, error) {
	workflowID := WorkflowID(req.Action, req.OrderID)

	return tracing.Traced(ctx, e.tracer, "temporal.ExecuteWorkflow", func(ctx context.Context) (*domain.ActionExecution, error) {
		options := client.StartWorkflowOptions{
			ID:                                       workflowID,
			TaskQueue:                                e.config.TaskQueue,
			WorkflowExecutionTimeout:                 e.config.WorkflowExecutionTimeout,
			WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
			WorkflowExecutionErrorWhenAlreadyStarted: true,
		}
		input := ActionWorkflowInput{
			OrderID:        req.OrderID,
			OrderNumber:    req.OrderNumber,
			Action:         string(req.Action),
			Status:         string(req.Status),
			IsRush:         req.Flags.IsRush,
			IsGroupOrder:   req.Flags.IsGroupOrder,
			HasBundleItems: req.Flags.HasBundleItems,
		}

		var run client.WorkflowRun
		err := e.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
			var err error
			run, err = e.starter.ExecuteWorkflow(ctx, options, req.WorkflowName, input)
			if isAlreadyStarted(err) {
				return fmt.Errorf("%w: %s", domain.ErrActionAlreadyRunning, workflowID)
			}
			return err
		})

		if e.metrics != nil {
			e.metrics.RecordWorkflowStarted(req.WorkflowName, err == nil)
		}
		if stderrors.Is(err, domain.ErrActionAlreadyRunning) {
			e.logger.WithContext(ctx).Warn("Workflow already running",
				"workflowType", req.WorkflowName,
				"workflowId", workflowID,
				"orderId", req.OrderID,
			)
			return nil, err
		}
		if err != nil {
			e.logger.WithContext(ctx).WithError(err).Error("Failed to start workflow",
				"workflowType", req.WorkflowName,
				"workflowId", workflowID,
				"orderId", req.OrderID,
			)
			return nil, fmt.Errorf("failed to start workflow %s: %w", req.WorkflowName, err)
		}

		e.logger.WorkflowStart(ctx, req.WorkflowName, run.GetID(), run.GetRunID())
		return &domain.ActionExecution{
			WorkflowID: run.GetID(),
			RunID:      run.GetRunID(),
			StartedAt:  e.now().UTC(),
		}, nil
	}, append(
		tracing.WorkflowSpanAttributes(req.WorkflowName, workflowID, e.config.TaskQueue),
		tracing.ActionSpanAttributes(req.OrderID, string(req.Action), string(req.Status))...,
	)...)
}

func isAlreadyStarted(err error) bool {
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	return stderrors.As(err, &alreadyStarted)
}
