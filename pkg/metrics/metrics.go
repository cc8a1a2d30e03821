package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the fulfillment service collectors
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	// Temporal metrics
	WorkflowsStarted *prometheus.CounterVec

	// Fulfillment metrics
	QueueRankings          *prometheus.CounterVec
	QueueSize              prometheus.Gauge
	PackagingRecommended   *prometheus.CounterVec
	NoTemplatesAvailable   prometheus.Counter
	EstimatedWeight        prometheus.Histogram
	WorkflowActions        *prometheus.CounterVec
	RankingDuration        prometheus.Histogram
	RecommendationDuration prometheus.Histogram

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "fulfillment",
	}
}

var (
	latencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	computeBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1}
	weightBuckets  = []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50}
)

// New creates and registers all collectors on a private registry
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ns := config.Namespace
	service := prometheus.Labels{"service": config.ServiceName}

	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: name, Help: help, ConstLabels: service}, labels)
		registry.MustRegister(c)
		return c
	}
	histogramVec := func(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: name, Help: help, Buckets: buckets, ConstLabels: service}, labels)
		registry.MustRegister(h)
		return h
	}
	histogram := func(name, help string, buckets []float64) prometheus.Histogram {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: ns, Name: name, Help: help, Buckets: buckets, ConstLabels: service})
		registry.MustRegister(h)
		return h
	}
	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: name, Help: help, ConstLabels: service})
		registry.MustRegister(g)
		return g
	}

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = counterVec("http_requests_total", "Total number of HTTP requests", "method", "path", "status")
	m.HTTPRequestDuration = histogramVec("http_request_duration_seconds", "HTTP request duration in seconds", latencyBuckets, "method", "path")
	m.HTTPRequestsInFlight = gauge("http_requests_in_flight", "Number of HTTP requests currently being processed")

	m.KafkaEventsPublished = counterVec("kafka_events_published_total", "Total number of Kafka events published", "topic", "event_type", "status")
	m.KafkaPublishDuration = histogramVec("kafka_publish_duration_seconds", "Kafka publish duration in seconds", latencyBuckets, "topic")

	m.MongoDBOperations = counterVec("mongodb_operations_total", "Total number of MongoDB operations", "collection", "operation", "status")
	m.MongoDBOperationDuration = histogramVec("mongodb_operation_duration_seconds", "MongoDB operation duration in seconds", latencyBuckets, "collection", "operation")

	m.WorkflowsStarted = counterVec("temporal_workflows_started_total", "Total number of Temporal workflows started", "workflow_type", "status")

	m.QueueRankings = counterVec("queue_rankings_total", "Total number of processing queue rankings computed", "filtered")
	m.QueueSize = gauge("queue_size", "Number of orders in the most recently ranked queue")
	m.PackagingRecommended = counterVec("packaging_recommendations_total", "Total number of packaging recommendations by top recommendation level", "level")
	m.NoTemplatesAvailable = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   ns,
		Name:        "packaging_no_templates_available_total",
		Help:        "Recommendations that produced no candidate template",
		ConstLabels: service,
	})
	registry.MustRegister(m.NoTemplatesAvailable)
	m.EstimatedWeight = histogram("estimated_weight_lbs", "Estimated shipping weight in pounds", weightBuckets)
	m.WorkflowActions = counterVec("workflow_actions_total", "Workflow action requests by action and result", "action", "result")
	m.RankingDuration = histogram("queue_ranking_duration_seconds", "Time spent filtering and sorting the queue", computeBuckets)
	m.RecommendationDuration = histogram("packaging_recommendation_duration_seconds", "Time spent scoring templates", computeBuckets)

	m.CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   ns,
		Name:        "circuit_breaker_state",
		Help:        "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		ConstLabels: service,
	}, []string{"name"})
	registry.MustRegister(m.CircuitBreakerState)
	m.CircuitBreakerTrips = counterVec("circuit_breaker_trips_total", "Total number of circuit breaker trips", "name")

	return m
}

// Handler returns the HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordKafkaPublish records a Kafka publish attempt
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	m.KafkaEventsPublished.WithLabelValues(topic, eventType, status(success)).Inc()
	m.KafkaPublishDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

// RecordMongoDBOperation records a MongoDB operation
func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	m.MongoDBOperations.WithLabelValues(collection, operation, status(success)).Inc()
	m.MongoDBOperationDuration.WithLabelValues(collection, operation).Observe(duration.Seconds())
}

// RecordWorkflowStarted records a workflow start attempt
func (m *Metrics) RecordWorkflowStarted(workflowType string, success bool) {
	m.WorkflowsStarted.WithLabelValues(workflowType, status(success)).Inc()
}

// RecordQueueRanking records one ranking pass and the resulting queue length
func (m *Metrics) RecordQueueRanking(filtered bool, size int, duration time.Duration) {
	m.QueueRankings.WithLabelValues(strconv.FormatBool(filtered)).Inc()
	m.QueueSize.Set(float64(size))
	m.RankingDuration.Observe(duration.Seconds())
}

// RecordRecommendation records a packaging recommendation; an empty level means no template was available
func (m *Metrics) RecordRecommendation(topLevel string, weight float64, duration time.Duration) {
	if topLevel == "" {
		m.NoTemplatesAvailable.Inc()
	} else {
		m.PackagingRecommended.WithLabelValues(topLevel).Inc()
	}
	m.EstimatedWeight.Observe(weight)
	m.RecommendationDuration.Observe(duration.Seconds())
}

// RecordWorkflowAction records the dispatcher outcome for an action
func (m *Metrics) RecordWorkflowAction(action, result string) {
	m.WorkflowActions.WithLabelValues(action, result).Inc()
}

// SetCircuitBreakerState sets circuit breaker state
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// CircuitBreakerObserver returns a state observer keeping the breaker gauges current.
// A transition to open (2) also counts as a trip.
func (m *Metrics) CircuitBreakerObserver() func(name string, state int) {
	return func(name string, state int) {
		m.SetCircuitBreakerState(name, state)
		if state == 2 {
			m.RecordCircuitBreakerTrip(name)
		}
	}
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	m.CircuitBreakerTrips.WithLabelValues(name).Inc()
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
