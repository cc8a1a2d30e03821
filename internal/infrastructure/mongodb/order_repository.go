package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

// Collection names
const (
	OrdersCollection    = "orders"
	TemplatesCollection = "shipping_templates"
)

const tracerName = "fulfillment-service/mongodb"

func init() {
	tracing.MarkExpected(domain.ErrOrderNotFound)
}

// OrderRepository implements domain.OrderRepository using MongoDB
type OrderRepository struct {
	collection *mongo.Collection
	tracer     trace.Tracer
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

// NewOrderRepository creates a new OrderRepository. m may be nil.
func NewOrderRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *OrderRepository {
	collection := db.Collection(OrdersCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "priority", Value: 1},
				{Key: "createdAt", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "productSource", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &OrderRepository{
		collection: collection,
		tracer:     otel.Tracer(tracerName),
		metrics:    m,
		logger:     logger.WithComponent("order-repository"),
	}
}

// FindByID retrieves an order by its OrderID
func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return tracing.Traced(ctx, r.tracer, "mongodb.orders.findOne", func(ctx context.Context) (*domain.Order, error) {
		start := time.Now()

		var order domain.Order
		err := r.collection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.observe(ctx, "findOne", start, nil, 0)
			return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
		}
		r.observe(ctx, "findOne", start, err, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
		}
		return &order, nil
	}, tracing.DatabaseSpanAttributes(r.collection.Database().Name(), "findOne", OrdersCollection)...)
}

// FindSnapshot loads the orders matching the exact-match part of filter. With a rank
// table the store sorts by rank, then age, before applying the limit; without one
// the oldest orders come first.
func (r *OrderRepository) FindSnapshot(ctx context.Context, filter domain.SnapshotFilter) ([]domain.Order, error) {
	op := "find"
	if len(filter.PriorityRanks) > 0 {
		op = "aggregate"
	}

	return tracing.Traced(ctx, r.tracer, "mongodb.orders."+op, func(ctx context.Context) ([]domain.Order, error) {
		start := time.Now()

		var (
			cursor *mongo.Cursor
			err    error
		)
		if op == "aggregate" {
			cursor, err = r.collection.Aggregate(ctx, snapshotPipeline(filter))
		} else {
			opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "orderId", Value: 1}})
			if filter.Limit > 0 {
				opts.SetLimit(filter.Limit)
			}
			cursor, err = r.collection.Find(ctx, snapshotQuery(filter), opts)
		}
		if err != nil {
			r.observe(ctx, op, start, err, 0)
			return nil, fmt.Errorf("failed to query orders: %w", err)
		}
		defer cursor.Close(ctx)

		orders := make([]domain.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			r.observe(ctx, op, start, err, 0)
			return nil, fmt.Errorf("failed to decode orders: %w", err)
		}

		r.observe(ctx, op, start, nil, len(orders))
		return orders, nil
	}, tracing.DatabaseSpanAttributes(r.collection.Database().Name(), op, OrdersCollection)...)
}

// queueRankField holds the computed priority rank inside the pipeline only
const queueRankField = "queueRank"

func snapshotPipeline(filter domain.SnapshotFilter) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: snapshotQuery(filter)}},
		{{Key: "$addFields", Value: bson.M{queueRankField: rankExpression(filter.PriorityRanks)}}},
		{{Key: "$sort", Value: bson.D{
			{Key: queueRankField, Value: -1},
			{Key: "createdAt", Value: 1},
			{Key: "orderId", Value: 1},
		}}},
	}
	if filter.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: filter.Limit}})
	}
	return append(pipeline, bson.D{{Key: "$project", Value: bson.M{queueRankField: 0}}})
}

// rankExpression maps priority to its rank; unknown tiers rank 0 as in the ranker
func rankExpression(ranks map[domain.Priority]int) bson.M {
	priorities := make([]string, 0, len(ranks))
	for p := range ranks {
		priorities = append(priorities, string(p))
	}
	sort.Strings(priorities)

	branches := make(bson.A, 0, len(priorities))
	for _, p := range priorities {
		branches = append(branches, bson.M{
			"case": bson.M{"$eq": bson.A{"$priority", p}},
			"then": ranks[domain.Priority(p)],
		})
	}
	return bson.M{"$switch": bson.M{"branches": branches, "default": 0}}
}

func snapshotQuery(filter domain.SnapshotFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	} else if len(filter.ExcludeStatus) > 0 {
		query["status"] = bson.M{"$nin": filter.ExcludeStatus}
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.ProductSource != "" {
		query["productSource"] = filter.ProductSource
	}
	if filter.RushOnly {
		query["$or"] = bson.A{
			bson.M{"isRush": true},
			bson.M{"priority": domain.PriorityRush},
		}
	}
	if filter.GroupOnly {
		query["isGroupOrder"] = true
	}
	return query
}

func (r *OrderRepository) observe(ctx context.Context, op string, start time.Time, err error, docs int) {
	duration := time.Since(start)
	if r.metrics != nil {
		r.metrics.RecordMongoDBOperation(OrdersCollection, op, err == nil, duration)
	}
	r.logger.DatabaseQuery(ctx, OrdersCollection, op, duration, err, docs)
}
