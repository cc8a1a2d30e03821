package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/wms-platform/fulfillment-service/internal/domain"
)

// Config holds the service settings read from the environment
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"fulfillment-service"`
	Version     string `envconfig:"VERSION" default:"1.0.0"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	ServerAddr      string        `envconfig:"SERVER_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	MongoURI      string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"apparel_fulfillment"`

	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaClientID string   `envconfig:"KAFKA_CLIENT_ID" default:"fulfillment-service"`

	TemporalHost      string `envconfig:"TEMPORAL_HOST" default:"localhost:7233"`
	TemporalNamespace string `envconfig:"TEMPORAL_NAMESPACE" default:"default"`
	TemporalTaskQueue string `envconfig:"TEMPORAL_TASK_QUEUE" default:"apparel-fulfillment-queue"`

	TemporalWorkflowTimeout time.Duration `envconfig:"TEMPORAL_WORKFLOW_TIMEOUT" default:"24h"`

	TracingEnabled bool    `envconfig:"TRACING_ENABLED" default:"false"`
	OTLPEndpoint   string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	TraceSampling  float64 `envconfig:"OTEL_TRACES_SAMPLER_ARG" default:"1.0"`

	QueueSnapshotLimit int64  `envconfig:"QUEUE_SNAPSHOT_LIMIT" default:"1000"`
	ScoringConfigPath  string `envconfig:"SCORING_CONFIG_PATH"`
}

// Load reads Config from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &cfg, nil
}

// LoadScoring returns the default scoring tables, overlaid with the YAML file at path
// when path is set. The result is validated.
func LoadScoring(path string) (*domain.ScoringConfig, error) {
	scoring := domain.DefaultScoringConfig()
	if path == "" {
		return scoring, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scoring config %s: %w", path, err)
	}
	if err := ParseScoring(data, scoring); err != nil {
		return nil, fmt.Errorf("failed to parse scoring config %s: %w", path, err)
	}
	return scoring, nil
}

// ParseScoring decodes YAML over scoring and validates the result. Unknown keys are rejected.
func ParseScoring(data []byte, scoring *domain.ScoringConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(scoring); err != nil {
		return err
	}
	return scoring.Validate()
}
