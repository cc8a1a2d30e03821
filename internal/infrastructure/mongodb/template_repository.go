package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/fulfillment-service/internal/domain"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
	"github.com/wms-platform/fulfillment-service/pkg/metrics"
	"github.com/wms-platform/fulfillment-service/pkg/tracing"
)

// TemplateRepository implements domain.TemplateRepository using MongoDB
type TemplateRepository struct {
	collection *mongo.Collection
	tracer     trace.Tracer
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

// NewTemplateRepository creates a new TemplateRepository. m may be nil.
func NewTemplateRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *TemplateRepository {
	collection := db.Collection(TemplatesCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "isActive", Value: 1},
				{Key: "sortOrder", Value: 1},
			},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &TemplateRepository{
		collection: collection,
		tracer:     otel.Tracer(tracerName),
		metrics:    m,
		logger:     logger.WithComponent("template-repository"),
	}
}

// FindActive returns the active templates in catalog order (sortOrder, then code)
func (r *TemplateRepository) FindActive(ctx context.Context) ([]domain.ShippingTemplate, error) {
	return tracing.Traced(ctx, r.tracer, "mongodb.shipping_templates.find", func(ctx context.Context) ([]domain.ShippingTemplate, error) {
		start := time.Now()
		opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "code", Value: 1}})

		cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, opts)
		if err != nil {
			r.observe(ctx, start, err, 0)
			return nil, fmt.Errorf("failed to query shipping templates: %w", err)
		}
		defer cursor.Close(ctx)

		templates := make([]domain.ShippingTemplate, 0)
		if err := cursor.All(ctx, &templates); err != nil {
			r.observe(ctx, start, err, 0)
			return nil, fmt.Errorf("failed to decode shipping templates: %w", err)
		}

		r.observe(ctx, start, nil, len(templates))
		return templates, nil
	}, tracing.DatabaseSpanAttributes(r.collection.Database().Name(), "find", TemplatesCollection)...)
}

func (r *TemplateRepository) observe(ctx context.Context, start time.Time, err error, docs int) {
	duration := time.Since(start)
	if r.metrics != nil {
		r.metrics.RecordMongoDBOperation(TemplatesCollection, "find", err == nil, duration)
	}
	r.logger.DatabaseQuery(ctx, TemplatesCollection, "find", duration, err, docs)
}
