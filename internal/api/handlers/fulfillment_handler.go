package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wms-platform/fulfillment-service/internal/application"
	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/middleware"
)

// Validator tags registered by NewFulfillmentHandler
const (
	tagWorkflowAction = "workflow_action"
	tagOrderStatus    = "order_status"
	tagPriority       = "priority"
)

// filterAll is accepted by the queue filters as "no filter"
const filterAll = "all"

// FulfillmentHandler handles HTTP requests for the fulfillment core
type FulfillmentHandler struct {
	service *application.FulfillmentService
	logger  *logging.Logger
}

// NewFulfillmentHandler creates a new FulfillmentHandler and registers the enum
// validators its request types bind with
func NewFulfillmentHandler(service *application.FulfillmentService, logger *logging.Logger) (*FulfillmentHandler, error) {
	actions := make([]string, 0)
	for _, r := range service.ListActions() {
		actions = append(actions, r.Action)
	}
	if err := middleware.RegisterEnumValidation(tagWorkflowAction, actions...); err != nil {
		return nil, err
	}

	statuses := []string{filterAll}
	for _, s := range domain.AllOrderStatuses() {
		statuses = append(statuses, string(s))
	}
	if err := middleware.RegisterEnumValidation(tagOrderStatus, statuses...); err != nil {
		return nil, err
	}

	priorities := []string{filterAll}
	for _, p := range domain.AllPriorities() {
		priorities = append(priorities, string(p))
	}
	if err := middleware.RegisterEnumValidation(tagPriority, priorities...); err != nil {
		return nil, err
	}

	return &FulfillmentHandler{
		service: service,
		logger:  logger,
	}, nil
}

// RegisterRoutes mounts the fulfillment endpoints on group
func (h *FulfillmentHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/queue", h.GetQueue)
	group.GET("/orders/:orderId/packaging", h.RecommendPackaging)
	group.POST("/orders/:orderId/actions", h.DispatchAction)
	group.POST("/packaging/recommendations", h.PreviewPackaging)
	group.GET("/actions", h.ListActions)
}

type queueRequest struct {
	Status        string `form:"status" binding:"omitempty,order_status"`
	Priority      string `form:"priority" binding:"omitempty,priority"`
	ProductSource string `form:"productSource"`
	RushOnly      bool   `form:"rushOnly"`
	GroupOnly     bool   `form:"groupOnly"`
	Search        string `form:"search" binding:"max=200"`
	Limit         int    `form:"limit" binding:"omitempty,gte=0,max=1000"`
}

// GetQueue handles GET /api/v1/queue
func (h *FulfillmentHandler) GetQueue(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req queueRequest
	if appErr := middleware.BindQuery(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	query := application.GetQueueQuery{
		Filters: domain.QueueFilters{
			Status:        domain.OrderStatus(req.Status),
			Priority:      domain.Priority(req.Priority),
			ProductSource: req.ProductSource,
			RushOnly:      req.RushOnly,
			GroupOnly:     req.GroupOnly,
			Search:        req.Search,
		},
		Limit: req.Limit,
	}

	middleware.AddSpanAttributes(c,
		attribute.String("queue.status", req.Status),
		attribute.String("queue.priority", req.Priority),
		attribute.Bool("queue.filtered", !query.Filters.IsEmpty()),
	)

	result, err := h.service.GetProcessingQueue(c.Request.Context(), query)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

type packagingRequest struct {
	Weight *float64 `form:"weight" binding:"omitempty,gte=0"`
}

// RecommendPackaging handles GET /api/v1/orders/:orderId/packaging
func (h *FulfillmentHandler) RecommendPackaging(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	orderID := c.Param("orderId")

	var req packagingRequest
	if appErr := middleware.BindQuery(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, attribute.String("order.id", orderID))

	result, err := h.service.RecommendPackaging(c.Request.Context(), application.RecommendPackagingQuery{
		OrderID:     orderID,
		TotalWeight: req.Weight,
	})
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// PreviewPackaging handles POST /api/v1/packaging/recommendations
func (h *FulfillmentHandler) PreviewPackaging(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.PreviewPackagingCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, attribute.Int("items.count", len(cmd.Items)))

	result, err := h.service.PreviewPackaging(c.Request.Context(), cmd)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// DispatchAction handles POST /api/v1/orders/:orderId/actions
func (h *FulfillmentHandler) DispatchAction(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var cmd application.DispatchActionCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}
	cmd.OrderID = c.Param("orderId")

	middleware.AddSpanAttributes(c,
		attribute.String("order.id", cmd.OrderID),
		attribute.String("workflow.action", cmd.Action),
	)

	result, err := h.service.DispatchAction(c.Request.Context(), cmd)
	if err != nil {
		responder.RespondWithError(err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": result})
}

// ListActions handles GET /api/v1/actions
func (h *FulfillmentHandler) ListActions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.service.ListActions()})
}
