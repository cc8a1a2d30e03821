// Package testing holds helpers shared by integration tests.
package testing

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	pkgmongo "github.com/wms-platform/fulfillment-service/pkg/mongodb"
)

// MongoImage is the server version the snapshot store runs in production
const MongoImage = "mongo:6"

// MongoDBContainer is a disposable MongoDB for repository tests
type MongoDBContainer struct {
	container *mongodb.MongoDBContainer
	uri       string
}

// NewMongoDBContainer starts MongoImage and resolves its connection string
func NewMongoDBContainer(ctx context.Context) (*MongoDBContainer, error) {
	container, err := mongodb.Run(ctx, MongoImage)
	if err != nil {
		return nil, fmt.Errorf("failed to start mongodb container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}
	return &MongoDBContainer{container: container, uri: uri}, nil
}

// URI is the connection string of the running container
func (m *MongoDBContainer) URI() string {
	return m.uri
}

// Connect opens a service client on database, the same way the API does at startup
func (m *MongoDBContainer) Connect(ctx context.Context, database string) (*pkgmongo.Client, error) {
	cfg := pkgmongo.DefaultConfig()
	cfg.URI = m.uri
	cfg.Database = database
	cfg.AppName = "fulfillment-integration-test"
	return pkgmongo.NewClient(ctx, cfg)
}

// Close terminates the container
func (m *MongoDBContainer) Close(ctx context.Context) error {
	if m.container == nil {
		return nil
	}
	return m.container.Terminate(ctx)
}
