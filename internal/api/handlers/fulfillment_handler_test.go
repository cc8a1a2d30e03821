package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/fulfillment-service/internal/application"
	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/middleware"
)

type fakeOrderRepo struct {
	orders []domain.Order
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	for i := range f.orders {
		if f.orders[i].OrderID == orderID {
			return &f.orders[i], nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrderRepo) FindSnapshot(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Order, error) {
	return append([]domain.Order(nil), f.orders...), nil
}

type fakeTemplateRepo struct {
	templates []domain.ShippingTemplate
}

func (f *fakeTemplateRepo) FindActive(ctx context.Context) ([]domain.ShippingTemplate, error) {
	return f.templates, nil
}

type fakeExecutor struct {
	executeFn func(context.Context, domain.ActionRequest) (*domain.ActionExecution, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, req domain.ActionRequest) (*domain.ActionExecution, error) {
	if f.executeFn != nil {
		return f.executeFn(ctx, req)
	}
	return &domain.ActionExecution{
		WorkflowID: "fulfillment-" + string(req.Action) + "-" + req.OrderID,
		RunID:      "run-1",
		StartedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

var created = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T, executor *fakeExecutor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orders := &fakeOrderRepo{orders: []domain.Order{
		{OrderID: "o-normal", OrderNumber: "1001", CustomerName: "Sam Lee", Status: domain.StatusPaymentConfirmed, Priority: domain.PriorityNormal, CreatedAt: created,
			Items: []domain.OrderItem{{ProductName: "White Shirt", Quantity: 1}}},
		{OrderID: "o-rush", OrderNumber: "1002", CustomerName: "Ana Ruiz", Status: domain.StatusProcessing, Priority: domain.PriorityRush, CreatedAt: created.Add(time.Hour),
			Items: []domain.OrderItem{{ProductName: "Navy Suit", Quantity: 1}, {ProductName: "Silk Tie", Quantity: 1}}},
	}}
	templates := &fakeTemplateRepo{templates: []domain.ShippingTemplate{
		{Code: "SUIT_BOX", Name: "Suit Box", Dimensions: domain.Dimensions{Length: 24, Width: 16, Height: 4}, MaxWeight: 10, RecommendedFor: []string{domain.TagSuits}, IsActive: true},
		{Code: "SMALL_BOX", Name: "Small Box", Dimensions: domain.Dimensions{Length: 8, Width: 6, Height: 3}, MaxWeight: 2, RecommendedFor: []string{domain.TagTies}, IsActive: true},
	}}
	if executor == nil {
		executor = &fakeExecutor{}
	}

	core := domain.NewCore(domain.DefaultScoringConfig(), domain.DefaultActionRules())
	logger := logging.Discard()
	service := application.NewFulfillmentService(core, orders, templates, executor, logger)

	handler, err := NewFulfillmentHandler(service, logger)
	require.NoError(t, err)

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig("fulfillment-test", logger.Logger))
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		raw, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) middleware.APIErrorResponse {
	t.Helper()
	var resp middleware.APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetQueue(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodGet, "/api/v1/queue", nil)

	require.Equal(t, http.StatusOK, w.Code)
	queue := decodeData[application.QueueDTO](t, w)
	require.Len(t, queue.Orders, 2)
	assert.Equal(t, "o-rush", queue.Orders[0].OrderID)
	assert.Equal(t, "o-normal", queue.Orders[1].OrderID)
}

func TestGetQueue_Filters(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodGet, "/api/v1/queue?search=sam&status=all", nil)

	require.Equal(t, http.StatusOK, w.Code)
	queue := decodeData[application.QueueDTO](t, w)
	require.Len(t, queue.Orders, 1)
	assert.Equal(t, "o-normal", queue.Orders[0].OrderID)
}

func TestGetQueue_InvalidStatus(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodGet, "/api/v1/queue?status=teleported", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Contains(t, resp.Details, "Status")
}

func TestRecommendPackaging(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodGet, "/api/v1/orders/o-rush/packaging", nil)

	require.Equal(t, http.StatusOK, w.Code)
	rec := decodeData[application.PackagingRecommendationDTO](t, w)
	assert.Equal(t, "o-rush", rec.OrderID)
	assert.ElementsMatch(t, []string{"suits", "ties", "multiple_items"}, rec.ProductTypes)
	assert.InDelta(t, 2.6, rec.EstimatedWeight, 1e-9)
	require.NotEmpty(t, rec.Recommendations)
	assert.Equal(t, "SUIT_BOX", rec.Recommendations[0].Code)
}

func TestRecommendPackaging_ExplicitWeight(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodGet, "/api/v1/orders/o-rush/packaging?weight=12.5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	rec := decodeData[application.PackagingRecommendationDTO](t, w)
	assert.InDelta(t, 12.5, rec.EstimatedWeight, 1e-9)
	for _, r := range rec.Recommendations {
		assert.False(t, r.FitsWeight, r.Code)
	}
}

func TestRecommendPackaging_OrderNotFound(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodGet, "/api/v1/orders/missing/packaging", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", decodeError(t, w).Code)
}

func TestPreviewPackaging(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodPost, "/api/v1/packaging/recommendations", map[string]any{
		"items": []map[string]any{{"productName": "Bow Tie", "quantity": 1}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	rec := decodeData[application.PackagingRecommendationDTO](t, w)
	assert.Equal(t, []string{"bow_ties"}, rec.ProductTypes)
	assert.Equal(t, "SMALL_BOX", rec.Recommendations[0].Code)
}

func TestPreviewPackaging_EmptyItems(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodPost, "/api/v1/packaging/recommendations", map[string]any{"items": []any{}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Code)
}

func TestDispatchAction_Accepted(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodPost, "/api/v1/orders/o-normal/actions", map[string]string{"action": "intelligent_order_routing"})

	require.Equal(t, http.StatusAccepted, w.Code)
	result := decodeData[application.ActionDispatchDTO](t, w)
	assert.Equal(t, "IntelligentOrderRoutingWorkflow", result.WorkflowName)
	assert.Equal(t, "fulfillment-intelligent_order_routing-o-normal", result.WorkflowID)
	assert.Equal(t, "payment_confirmed", result.Status)
}

func TestDispatchAction_InvalidState(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodPost, "/api/v1/orders/o-rush/actions", map[string]string{"action": "quality_inspection"})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE_TRANSITION", decodeError(t, w).Code)
}

func TestDispatchAction_UnknownAction(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodPost, "/api/v1/orders/o-rush/actions", map[string]string{"action": "teleport"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Contains(t, resp.Details["action"], "rush_escalation")
}

func TestDispatchAction_AlreadyRunning(t *testing.T) {
	router := setupRouter(t, &fakeExecutor{
		executeFn: func(context.Context, domain.ActionRequest) (*domain.ActionExecution, error) {
			return nil, domain.ErrActionAlreadyRunning
		},
	})

	w := do(router, http.MethodPost, "/api/v1/orders/o-rush/actions", map[string]string{"action": "rush_escalation"})

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decodeError(t, w).Code)
}

func TestListActions(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(router, http.MethodGet, "/api/v1/actions", nil)

	require.Equal(t, http.StatusOK, w.Code)
	actions := decodeData[[]application.ActionRuleDTO](t, w)
	assert.Len(t, actions, 10)
}
