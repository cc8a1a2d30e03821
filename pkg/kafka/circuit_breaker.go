package kafka

import (
	"context"
	"time"

	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/resilience"
)

// EventProducer publishes CloudEvents to a topic
type EventProducer interface {
	PublishEvent(ctx context.Context, topic string, event *cloudevents.FulfillmentCloudEvent) error
}

// CircuitBreakerProducer adds circuit breaking, metrics and logging around an EventProducer
type CircuitBreakerProducer struct {
	producer       EventProducer
	circuitBreaker *resilience.CircuitBreaker
	metrics        *metrics.Metrics
	logger         *logging.Logger
}

// NewCircuitBreakerProducer wraps producer; m may be nil
func NewCircuitBreakerProducer(producer EventProducer, m *metrics.Metrics, logger *logging.Logger) *CircuitBreakerProducer {
	config := resilience.DefaultCircuitBreakerConfig("kafka-producer")
	config.MaxRequests = 5

	var observers []resilience.StateObserver
	if m != nil {
		observers = append(observers, m.CircuitBreakerObserver())
	}

	return &CircuitBreakerProducer{
		producer:       producer,
		circuitBreaker: resilience.NewCircuitBreaker(config, logger.Logger, observers...),
		metrics:        m,
		logger:         logger,
	}
}

// PublishEvent publishes event through the circuit breaker
func (p *CircuitBreakerProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.FulfillmentCloudEvent) error {
	start := time.Now()
	err := p.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return p.producer.PublishEvent(ctx, topic, event)
	})
	duration := time.Since(start)

	p.logger.KafkaPublish(ctx, topic, event.Type, duration, err)
	if p.metrics != nil {
		p.metrics.RecordKafkaPublish(topic, event.Type, err == nil, duration)
	}
	return err
}
