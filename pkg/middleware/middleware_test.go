package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/fulfillment-service/pkg/errors"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	router := gin.New()
	Setup(router, DefaultConfig("fulfillment-test", logging.Discard().Logger))
	return router
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	router := newTestRouter()
	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = logging.CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	req.Header.Set(HeaderCorrelationID, "corr-456")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "corr-456", rec.Header().Get(HeaderCorrelationID))
	assert.Equal(t, "corr-456", seen)
}

func TestRequestID_ReplacesMalformedHeader(t *testing.T) {
	router := newTestRouter()
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderCorrelationID, "forged id with spaces")
	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxIDLength+1))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Len(t, rec.Header().Get(HeaderCorrelationID), 36)
	assert.Len(t, rec.Header().Get(HeaderRequestID), 36)
}

func TestErrorHandler_MapsAttachedErrors(t *testing.T) {
	router := newTestRouter()
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("snapshot query: %w", context.DeadlineExceeded))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeTimeout, body.Code)
	assert.Equal(t, "/fail", body.Path)
	assert.NotEmpty(t, body.RequestID)
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	router := newTestRouter()
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), errors.CodeInternalError)
}

func TestContentType_RejectsNonJSON(t *testing.T) {
	router := newTestRouter()
	router.POST("/submit", func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("action=ship"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestNoRoute(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ROUTE_NOT_FOUND")
}

type enumRequest struct {
	Color string `json:"color" binding:"required,test_color"`
}

func TestRegisterEnumValidation(t *testing.T) {
	require.NoError(t, RegisterEnumValidation("test_color", "navy", "charcoal"))

	router := newTestRouter()
	router.POST("/colors", func(c *gin.Context) {
		var req enumRequest
		if appErr := BindAndValidate(c, &req); appErr != nil {
			NewErrorResponder(c, logging.Discard().Logger).RespondWithAppError(appErr)
			return
		}
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		body       string
		wantStatus int
	}{
		{`{"color":"navy"}`, http.StatusNoContent},
		{`{"color":"teal"}`, http.StatusBadRequest},
		{`{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/colors", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, tt.wantStatus, rec.Code, tt.body)
	}

	req := httptest.NewRequest(http.MethodPost, "/colors", strings.NewReader(`{"color":"teal"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "must be one of: charcoal, navy", body.Details["color"])
}

func TestMetricsMiddleware_RecordsRoutePatternAndSkipsProbes(t *testing.T) {
	m := metrics.New(metrics.DefaultConfig("fulfillment-test"))
	router := gin.New()
	router.Use(MetricsMiddleware(m, "/health"))
	router.GET("/orders/:orderId/packaging", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/orders/o-1/packaging", "/orders/o-2/packaging", "/health", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/orders/:orderId/packaging", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestReadinessCheck_ReportsEachDependency(t *testing.T) {
	router := gin.New()
	router.GET("/ready", ReadinessCheck("fulfillment-test", time.Second,
		DependencyCheck{Name: "mongodb", Check: func(context.Context) error { return nil }},
		DependencyCheck{Name: "temporal", Check: func(context.Context) error { return fmt.Errorf("frontend unreachable") }},
	))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, map[string]string{"mongodb": "ok", "temporal": "frontend unreachable"}, body.Dependencies)
}
