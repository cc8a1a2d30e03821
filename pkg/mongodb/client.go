package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds MongoDB connection configuration
type Config struct {
	URI                    string
	Database               string
	AppName                string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	PingTimeout            time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
}

// DefaultConfig returns the settings used for the order snapshot store
func DefaultConfig() *Config {
	return &Config{
		URI:                    "mongodb://localhost:27017",
		Database:               "apparel_fulfillment",
		AppName:                "fulfillment-service",
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		PingTimeout:            5 * time.Second,
		MaxPoolSize:            50,
		MinPoolSize:            2,
	}
}

func (c *Config) clientOptions() *options.ClientOptions {
	opts := options.Client().
		ApplyURI(c.URI).
		SetAppName(c.AppName).
		SetReadPreference(readpref.PrimaryPreferred())
	if c.ConnectTimeout > 0 {
		opts.SetConnectTimeout(c.ConnectTimeout)
	}
	if c.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(c.ServerSelectionTimeout)
	}
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.MaxPoolSize)
	}
	opts.SetMinPoolSize(c.MinPoolSize)
	return opts
}

// Client is a read-only handle on the order snapshot database
type Client struct {
	client      *mongo.Client
	database    *mongo.Database
	pingTimeout time.Duration
}

// NewClient connects and pings. Reads prefer the primary but fall back to
// secondaries, since the service only consumes snapshots.
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	client, err := mongo.Connect(ctx, config.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB at %s: %w", config.URI, err)
	}

	c := &Client{
		client:      client,
		database:    client.Database(config.Database),
		pingTimeout: config.PingTimeout,
	}
	if err := c.HealthCheck(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return c, nil
}

// Database returns the database handle
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Close disconnects the client
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// HealthCheck pings the primary-preferred member, bounded by the configured ping timeout
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.pingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.pingTimeout)
		defer cancel()
	}
	return c.client.Ping(ctx, readpref.PrimaryPreferred())
}
