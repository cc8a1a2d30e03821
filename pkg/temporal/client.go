package temporal

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/client"
)

// Config holds Temporal client configuration
type Config struct {
	HostPort  string
	Namespace string
	Identity  string
	TaskQueue string

	// WorkflowExecutionTimeout bounds every workflow started by this service; 0 means unbounded
	WorkflowExecutionTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HostPort:  "localhost:7233",
		Namespace: "default",
		Identity:  "fulfillment-service",
		TaskQueue: TaskQueues.Fulfillment,
	}
}

// TaskQueues contains the task queues served by the fulfillment workers
var TaskQueues = struct {
	Fulfillment string
}{
	Fulfillment: "apparel-fulfillment-queue",
}

// WorkflowStarter is the subset of client.Client used to hand off workflow executions
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// Client wraps the Temporal client
type Client struct {
	client client.Client
	config *Config
}

// NewClient dials the Temporal frontend
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	c, err := client.DialContext(ctx, client.Options{
		HostPort:  config.HostPort,
		Namespace: config.Namespace,
		Identity:  config.Identity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}

	return &Client{
		client: c,
		config: config,
	}, nil
}

// Client returns the underlying Temporal client
func (c *Client) Client() client.Client {
	return c.client
}

// ExecuteWorkflow starts a workflow execution on the wrapped client
func (c *Client) ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	return c.client.ExecuteWorkflow(ctx, options, workflow, args...)
}

// Config returns the configuration the client was created with
func (c *Client) Config() *Config {
	return c.config
}

// HealthCheck verifies the frontend is reachable
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.client.CheckHealth(ctx, &client.CheckHealthRequest{})
	return err
}

// Close closes the client connection
func (c *Client) Close() {
	c.client.Close()
}
